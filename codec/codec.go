// SPDX-License-Identifier: EPL-2.0

package codec

// FrameInfo describes the most recently decoded compressed frame.
type FrameInfo struct {
	// SampleRate of the decoded PCM in Hz.
	SampleRate int
	// Bitrate of the compressed frame in bits per second.
	Bitrate int
	// OutputSamples is the interleaved sample count written by Decode
	// (samples per channel times Channels).
	OutputSamples int
	// Channels in the decoded output (1=mono, 2=stereo).
	Channels int
}

// FrameDecoder is the decode primitive driven by the streaming front-end.
// It locates compressed frames inside a raw byte window and decodes them
// one at a time into 16-bit PCM.
//
// Implementations own whatever bitstream state the codec needs (for MPEG
// audio, the bit reservoir) and must be released with Close.
type FrameDecoder interface {
	// FindSync returns the offset of the next frame sync inside buf,
	// or -1 when buf holds no recognizable frame start.
	FindSync(buf []byte) int

	// Decode decodes exactly one frame from the start of src into pcm,
	// which must start at a frame sync. It returns the number of src
	// bytes consumed. ErrUnderflow (with zero consumed) reports that the
	// frame extends past src and more input is needed; it is not a
	// failure. Any other error means src cannot be decoded.
	Decode(src []byte, pcm []int16) (consumed int, err error)

	// LastFrameInfo describes the frame produced by the most recent
	// successful Decode.
	LastFrameInfo() FrameInfo

	// Close releases the decoder state.
	Close() error
}
