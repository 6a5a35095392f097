// SPDX-License-Identifier: EPL-2.0

// Package mp3stream is a streaming front-end for MPEG audio decoding: it
// manages file I/O, input buffering, frame synchronization bookkeeping and
// PCM output staging so that callers can pull fixed-size chunks of
// interleaved stereo 16-bit PCM out of an MP3 file without knowing
// anything about frame boundaries, bit-reservoir underflow or channel
// layout.
//
// # Quick Start
//
//	d, err := mp3stream.Open("song.mp3")
//	if err != nil {
//	    // Handle error
//	}
//	defer d.Close()
//
//	pcm := make([]int16, 4096*2) // 4096 stereo pairs
//	for {
//	    n := d.ReadPCMFrames(pcm, 4096)
//	    if n == 0 {
//	        break // end of stream
//	    }
//	    // Use pcm[:n*2]
//	}
//
// # Output Format
//
// Output is always 2-channel interleaved 16-bit PCM. Mono streams are
// expanded in place so every left/right pair carries the same sample.
// A "PCM frame" throughout this package is one stereo sample pair, not a
// compressed bitstream frame.
//
// # Buffering Model
//
// Compressed bytes are staged in a fixed-capacity rolling buffer: before
// each refill the unread region is compacted to the front, the remainder
// is read from the source, and any unfilled tail is zeroed so stale bytes
// cannot be mistaken for a frame sync. Decoded PCM for one frame is staged
// at the tail of a second buffer and drained across reads.
//
// # End of Stream
//
// ReadPCMFrames reports exhaustion with a short or zero count instead of
// an error, matching the pull-style contract: a stream that ends and a
// stream whose remaining bytes cannot be synchronized look the same to
// the caller.
//
// # Custom Sources and Decoders
//
// Open wires an os.File to the go-mp3 backed primitive in codec/gomp3.
// New accepts any io.ReadSeeker and any codec.FrameDecoder, which is how
// nonstandard byte sources (or alternative decode backends) plug in.
//
// # Concurrency
//
// All operations are synchronous and blocking, with no internal
// goroutine touching Decoder state. One Decoder must not be shared
// between goroutines without external locking.
package mp3stream
