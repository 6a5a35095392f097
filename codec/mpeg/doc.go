// SPDX-License-Identifier: EPL-2.0

// Package mpeg parses MPEG audio frame headers.
//
// Every MPEG audio frame starts with a 4-byte header carrying an 11-bit
// sync pattern plus the version, layer, bitrate, sampling rate, padding
// and channel mode fields. From those fields the whole frame length in
// bytes is computable without touching the payload:
//
//	frame_length = (sample_count / 8) * bitrate / sample_rate + padding
//
// That is everything a streaming front-end needs to locate frames, size
// refills, and report stream metadata.
//
// # Parsing
//
//	h, err := mpeg.ParseHeader(buf)
//	if err != nil {
//	    // not a frame header
//	}
//	fmt.Println(h.SampleRate, h.Bitrate, h.FrameLength)
//
// # Sync Search
//
// FindSync locates the next valid header inside a buffer, tolerating
// leading garbage:
//
//	off := mpeg.FindSync(buf)
//	if off < 0 {
//	    // no frame in this window
//	}
//
// The search validates the complete header at each candidate offset, so a
// stray 0xFF byte in tag padding or album art does not produce a false
// sync.
//
// # Supported Streams
//
// MPEG-1, MPEG-2 and MPEG-2.5, Layers I-III. Free-format streams (bitrate
// index 0) are rejected because their frame length is not derivable from
// the header.
package mpeg
