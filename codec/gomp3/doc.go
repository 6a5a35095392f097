// SPDX-License-Identifier: EPL-2.0

// Package gomp3 is the production codec.FrameDecoder, backed by
// github.com/hajimehoshi/go-mp3.
//
// The decoder bridges two incompatible shapes: the streaming front-end
// pushes windows of compressed bytes frame by frame, while go-mp3 pulls
// from an io.Reader. An internal goroutine owns the go-mp3 decoder on the
// read end of an io.Pipe; each Decode call writes one frame into the pipe
// and receives that frame's PCM back.
//
// # Output Format
//
// go-mp3 always produces 16-bit little-endian stereo, upmixing mono
// streams internally, so LastFrameInfo reports 2 channels regardless of
// the source channel mode. Sample rate and bitrate are taken from the
// parsed frame header.
//
// # Limitations
//
//   - Layer III streams only (a go-mp3 restriction); Layer I/II frames
//     end the stream.
//   - Free-format streams are rejected during sync search.
package gomp3
