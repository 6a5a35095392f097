// SPDX-License-Identifier: EPL-2.0

package mp3stream

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/mp3stream/codec"
	"github.com/ik5/mp3stream/codec/gomp3"
)

const (
	// pcmChannels is the channel count of all output; mono sources are
	// expanded so callers always receive interleaved stereo.
	pcmChannels = 2

	// dataChunkSize is the capacity of the rolling compressed-input
	// buffer.
	dataChunkSize = 8192

	// minDataChunkSize is the refill threshold. It exceeds the largest
	// possible compressed frame (1441 bytes, MPEG-1 Layer III at
	// 320 kbit/s and 32 kHz with padding), so a full frame is always in
	// the buffer before a decode attempt while the source has data.
	minDataChunkSize = 2048

	// maxSamplesPerFrame is the PCM buffer capacity in interleaved
	// samples: 1152 samples per channel after stereo expansion.
	maxSamplesPerFrame = 1152 * pcmChannels
)

// Decoder pulls fixed-size chunks of interleaved stereo 16-bit PCM out of
// an MPEG audio stream. It owns the byte source, the rolling compressed
// input buffer, one frame's worth of staged PCM, and the decode primitive.
//
// A Decoder must not be used from multiple goroutines without external
// synchronization.
type Decoder struct {
	dec codec.FrameDecoder
	src io.ReadSeeker

	// Rolling compressed-input buffer. The unread region is
	// mp3Buf[readOff : readOff+bytesLeft].
	mp3Buf    []byte
	readOff   int
	bytesLeft int

	// Staged PCM. The unconsumed samples always occupy the last
	// samplesLeft slots of pcmBuf.
	pcmBuf      []int16
	samplesLeft int

	sampleRate int
	bitrate    int
	pcmFrames  uint64
}

// Open opens the MPEG audio file at path and primes the first frame using
// the go-mp3 backed decode primitive. The file open error is wrapped, so
// a missing file satisfies errors.Is(err, fs.ErrNotExist). A file with no
// decodable frame fails with ErrNoValidFrames.
func Open(path string) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	d, err := New(f, gomp3.New())
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// New builds a Decoder over an arbitrary byte source and decode primitive.
// It skips a leading ID3v2 tag if present and primes the first frame, so
// SampleRate and Bitrate are valid as soon as New returns.
//
// On success the Decoder takes ownership of dec, and of src's Closer if it
// has one; both are released by Close. On failure dec is closed before
// returning and src is left to the caller.
func New(src io.ReadSeeker, dec codec.FrameDecoder) (*Decoder, error) {
	if src == nil || dec == nil {
		return nil, os.ErrInvalid
	}

	d := &Decoder{
		dec:    dec,
		src:    src,
		mp3Buf: make([]byte, dataChunkSize),
		pcmBuf: make([]int16, maxSamplesPerFrame),
	}

	if _, err := skipID3v2(src); err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w", err)
	}

	if d.decodeNextFrame() == 0 {
		dec.Close()
		return nil, ErrNoValidFrames
	}
	return d, nil
}

// ReadPCMFrames fills dst with up to frames stereo sample pairs and
// returns how many whole pairs were written. A short return means the
// stream is exhausted; after that every call returns 0. A nil receiver,
// nil dst or non-positive frames returns 0 without touching any state.
//
// The request is clamped to the len(dst)/2 pairs dst can hold.
func (d *Decoder) ReadPCMFrames(dst []int16, frames int) int {
	if d == nil || dst == nil || frames <= 0 {
		return 0
	}
	if most := len(dst) / pcmChannels; frames > most {
		frames = most
	}

	samplesToRead := frames * pcmChannels
	samplesRead := 0

	for {
		n := min(d.samplesLeft, samplesToRead)
		copy(dst[samplesRead:], d.pcmBuf[len(d.pcmBuf)-d.samplesLeft:][:n])

		d.pcmFrames += uint64(n / pcmChannels)
		d.samplesLeft -= n
		samplesRead += n
		samplesToRead -= n

		// Staged frame fully consumed: pump the next one.
		if d.samplesLeft == 0 {
			if d.decodeNextFrame() == 0 {
				break
			}
		}
		if samplesToRead == 0 {
			break
		}
	}

	return samplesRead / pcmChannels
}

// SampleRate returns the sample rate of the most recently decoded frame
// in Hz, or 0 for a nil receiver.
func (d *Decoder) SampleRate() int {
	if d == nil {
		return 0
	}
	return d.sampleRate
}

// Bitrate returns the bitrate of the most recently decoded frame in bits
// per second, or 0 for a nil receiver.
func (d *Decoder) Bitrate() int {
	if d == nil {
		return 0
	}
	return d.bitrate
}

// PCMFramesDecoded returns the cumulative count of stereo sample pairs
// delivered through ReadPCMFrames, or 0 for a nil receiver.
func (d *Decoder) PCMFramesDecoded() uint64 {
	if d == nil {
		return 0
	}
	return d.pcmFrames
}

// Close releases the byte source and the decode primitive. It returns
// os.ErrInvalid for a nil receiver and nil otherwise.
func (d *Decoder) Close() error {
	if d == nil {
		return os.ErrInvalid
	}
	if c, ok := d.src.(io.Closer); ok {
		c.Close()
	}
	return d.dec.Close()
}
