// SPDX-License-Identifier: EPL-2.0

// Package codec defines the decode primitive consumed by the streaming
// front-end in the mp3stream root package.
//
// # FrameDecoder Interface
//
// The FrameDecoder interface is the boundary between buffer management and
// the actual bitstream decode algorithm:
//
//	type FrameDecoder interface {
//	    FindSync(buf []byte) int
//	    Decode(src []byte, pcm []int16) (consumed int, err error)
//	    LastFrameInfo() FrameInfo
//	    Close() error
//	}
//
// The front-end hands the decoder a window of raw compressed bytes; the
// decoder locates the next frame sync, decodes one frame per call, and
// reports how many input bytes it consumed so the window can be advanced.
//
// # Underflow
//
// A compressed frame may extend past the bytes currently buffered, either
// because the window sits near a refill boundary or because the bit
// reservoir pulls payload from earlier frames. Decode reports this with
// ErrUnderflow and consumes nothing; the front-end refills its buffer and
// retries. Underflow is expected mid-stream behavior, not a failure.
//
// # Implementations
//
// Package codec/gomp3 provides the production implementation backed by
// github.com/hajimehoshi/go-mp3. Any conforming decoder can be substituted
// through mp3stream.New, which is also how tests drive the front-end with
// a mock primitive.
package codec
