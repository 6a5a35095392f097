// SPDX-License-Identifier: EPL-2.0

package codectest

import (
	"encoding/binary"

	"github.com/ik5/mp3stream/codec"
)

// Synthetic bitstream format used by the mock decoder. Each frame is:
//
//	[0:2]  marker 0xAA 0x55
//	[2]    channel count (1 or 2)
//	[3]    sequence byte (drives the generated sample values)
//	[4:6]  samples per channel, big endian
//	[6:8]  trailing payload length, big endian
//	[8:]   payload (ignored by Decode, normally zeros)
const (
	marker0        = 0xAA
	marker1        = 0x55
	mockHeaderSize = 8
)

// Frame describes one synthetic compressed frame for BuildStream.
type Frame struct {
	Channels int
	Samples  int // per channel
	Seq      byte
	Pad      int // payload bytes after the header
}

func (f Frame) encode() []byte {
	b := make([]byte, mockHeaderSize+f.Pad)
	b[0] = marker0
	b[1] = marker1
	b[2] = byte(f.Channels)
	b[3] = f.Seq
	binary.BigEndian.PutUint16(b[4:6], uint16(f.Samples))
	binary.BigEndian.PutUint16(b[6:8], uint16(f.Pad))
	return b
}

// BuildStream concatenates frames into a synthetic compressed stream.
func BuildStream(frames ...Frame) []byte {
	var out []byte
	for _, f := range frames {
		out = append(out, f.encode()...)
	}
	return out
}

// ID3v2 returns a well-formed ID3v2 tag with a zeroed body of bodySize
// bytes. The size field is syncsafe-encoded as in a real tag.
func ID3v2(bodySize int) []byte {
	tag := make([]byte, 10+bodySize)
	copy(tag, "ID3")
	tag[3] = 3 // version 2.3.0
	tag[6] = byte(bodySize >> 21 & 0x7F)
	tag[7] = byte(bodySize >> 14 & 0x7F)
	tag[8] = byte(bodySize >> 7 & 0x7F)
	tag[9] = byte(bodySize & 0x7F)
	return tag
}

// FrameSample is the deterministic sample value the mock decoder emits at
// interleaved index j of the frame with sequence byte seq.
func FrameSample(seq byte, j int) int16 {
	return int16(seq)<<6 + int16(j)
}

// ExpectedPCM returns the stereo-expanded output the front-end should
// deliver for the given frames.
func ExpectedPCM(frames ...Frame) []int16 {
	var out []int16
	for _, f := range frames {
		if f.Channels == 1 {
			for j := range f.Samples {
				v := FrameSample(f.Seq, j)
				out = append(out, v, v)
			}
		} else {
			for j := range f.Samples * f.Channels {
				out = append(out, FrameSample(f.Seq, j))
			}
		}
	}
	return out
}

// MockFrameDecoder is a codec.FrameDecoder over the synthetic stream
// format above. It generates deterministic PCM so tests can verify that
// the front-end loses or reorders nothing across its buffers.
type MockFrameDecoder struct {
	SampleRate int
	Bitrate    int

	// FailAfter, when positive, makes Decode return ErrInvalidData once
	// that many frames have been decoded.
	FailAfter int

	info    codec.FrameInfo
	decoded int
	closes  int
}

// NewMockFrameDecoder returns a mock reporting the given stream metadata.
func NewMockFrameDecoder(sampleRate, bitrate int) *MockFrameDecoder {
	return &MockFrameDecoder{SampleRate: sampleRate, Bitrate: bitrate}
}

func (m *MockFrameDecoder) FindSync(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == marker0 && buf[i+1] == marker1 {
			return i
		}
	}
	return -1
}

func (m *MockFrameDecoder) Decode(src []byte, pcm []int16) (int, error) {
	if m.FailAfter > 0 && m.decoded >= m.FailAfter {
		return 0, codec.ErrInvalidData
	}
	if len(src) < mockHeaderSize {
		return 0, codec.ErrUnderflow
	}
	if src[0] != marker0 || src[1] != marker1 {
		return 0, codec.ErrInvalidData
	}

	channels := int(src[2])
	seq := src[3]
	samples := int(binary.BigEndian.Uint16(src[4:6]))
	frameLength := mockHeaderSize + int(binary.BigEndian.Uint16(src[6:8]))

	if channels != 1 && channels != 2 {
		return 0, codec.ErrInvalidData
	}
	if frameLength > len(src) {
		return 0, codec.ErrUnderflow
	}

	total := samples * channels
	if total > len(pcm) {
		return 0, codec.ErrInvalidData
	}
	for j := range total {
		pcm[j] = FrameSample(seq, j)
	}

	m.info = codec.FrameInfo{
		SampleRate:    m.SampleRate,
		Bitrate:       m.Bitrate,
		OutputSamples: total,
		Channels:      channels,
	}
	m.decoded++
	return frameLength, nil
}

func (m *MockFrameDecoder) LastFrameInfo() codec.FrameInfo {
	return m.info
}

func (m *MockFrameDecoder) Close() error {
	m.closes++
	return nil
}

// Decoded reports how many frames Decode has produced.
func (m *MockFrameDecoder) Decoded() int { return m.decoded }

// Closed reports whether Close has been called at least once.
func (m *MockFrameDecoder) Closed() bool { return m.closes > 0 }
