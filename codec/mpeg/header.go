// SPDX-License-Identifier: EPL-2.0

package mpeg

// MPEG version, from the 2-bit version field.
const (
	Version2_5 = iota
	VersionReserved
	Version2
	Version1
)

// MPEG layer, from the 2-bit layer field.
const (
	LayerReserved = iota
	LayerIII
	LayerII
	LayerI
)

// Channel mode, from the 2-bit mode field.
const (
	Stereo = iota
	JointStereo
	DualChannel
	Mono
)

// HeaderSize is the length in bytes of an MPEG audio frame header.
const HeaderSize = 4

// Bitrates in kbit/s, indexed by the 4-bit bitrate field.
var (
	v1l1Bitrates = []int{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}
	v1l2Bitrates = []int{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384}
	v1l3Bitrates = []int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	v2l1Bitrates = []int{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256}
	v2l2Bitrates = []int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
	v2l3Bitrates = []int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

// Sampling rates in Hz, indexed by the 2-bit sampling rate field.
var (
	v1SampleRates  = []int{44100, 48000, 32000}
	v2SampleRates  = []int{22050, 24000, 16000}
	v25SampleRates = []int{11025, 12000, 8000}
)

// Header holds the fields of one parsed MPEG audio frame header.
type Header struct {
	Version       byte
	Layer         byte
	CrcProtection bool
	Bitrate       int // bits per second
	SampleRate    int // Hz
	Padding       bool
	ChannelMode   byte
	SampleCount   int // decoded samples per channel
	FrameLength   int // whole frame size in bytes, header included
}

// Channels returns the decoded channel count for the header's mode.
func (h Header) Channels() int {
	if h.ChannelMode == Mono {
		return 1
	}
	return 2
}

// ParseHeader parses the 4-byte MPEG audio frame header at the start of b.
// It returns ErrShortHeader when b holds fewer than HeaderSize bytes and
// ErrInvalidHeader when the bytes are not a valid header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}

	// 11-bit frame sync.
	if b[0] != 0xFF || (b[1]&0xE0) != 0xE0 {
		return Header{}, ErrInvalidHeader
	}

	var h Header

	h.Version = (b[1] & 0x18) >> 3
	if h.Version == VersionReserved {
		return Header{}, ErrInvalidHeader
	}

	h.Layer = (b[1] & 0x06) >> 1
	if h.Layer == LayerReserved {
		return Header{}, ErrInvalidHeader
	}

	h.CrcProtection = (b[1] & 0x01) == 0x00

	bitrateIndex := (b[2] & 0xF0) >> 4
	if bitrateIndex == 0 || bitrateIndex == 15 {
		// Free-format (0) and the reserved index are both rejected.
		return Header{}, ErrInvalidHeader
	}
	if h.Version == Version1 {
		switch h.Layer {
		case LayerI:
			h.Bitrate = v1l1Bitrates[bitrateIndex] * 1000
		case LayerII:
			h.Bitrate = v1l2Bitrates[bitrateIndex] * 1000
		case LayerIII:
			h.Bitrate = v1l3Bitrates[bitrateIndex] * 1000
		}
	} else {
		switch h.Layer {
		case LayerI:
			h.Bitrate = v2l1Bitrates[bitrateIndex] * 1000
		case LayerII:
			h.Bitrate = v2l2Bitrates[bitrateIndex] * 1000
		case LayerIII:
			h.Bitrate = v2l3Bitrates[bitrateIndex] * 1000
		}
	}

	sampleRateIndex := (b[2] & 0x0C) >> 2
	if sampleRateIndex == 3 {
		return Header{}, ErrInvalidHeader
	}
	switch h.Version {
	case Version1:
		h.SampleRate = v1SampleRates[sampleRateIndex]
	case Version2:
		h.SampleRate = v2SampleRates[sampleRateIndex]
	case Version2_5:
		h.SampleRate = v25SampleRates[sampleRateIndex]
	}

	h.Padding = (b[2] & 0x02) == 0x02

	h.ChannelMode = (b[3] & 0xC0) >> 6
	modeExtension := (b[3] & 0x30) >> 4
	if h.ChannelMode != JointStereo && modeExtension != 0 {
		return Header{}, ErrInvalidHeader
	}

	emphasis := b[3] & 0x03
	if emphasis == 2 {
		return Header{}, ErrInvalidHeader
	}

	if h.Version == Version1 {
		switch h.Layer {
		case LayerI:
			h.SampleCount = 384
		case LayerII, LayerIII:
			h.SampleCount = 1152
		}
	} else {
		switch h.Layer {
		case LayerI:
			h.SampleCount = 384
		case LayerII:
			h.SampleCount = 1152
		case LayerIII:
			h.SampleCount = 576
		}
	}

	// A padded frame carries one extra slot: 4 bytes for Layer I,
	// 1 byte for Layers II and III.
	padding := 0
	if h.Padding {
		if h.Layer == LayerI {
			padding = 4
		} else {
			padding = 1
		}
	}

	h.FrameLength = (h.SampleCount/8)*h.Bitrate/h.SampleRate + padding

	return h, nil
}

// FindSync scans buf for the next byte offset holding a fully valid frame
// header and returns it, or -1 when none exists. Validating the whole
// header (not just the 11 sync bits) lets the scan step over garbage that
// happens to contain a sync byte pattern.
func FindSync(buf []byte) int {
	for i := 0; i+HeaderSize <= len(buf); i++ {
		if buf[i] != 0xFF || (buf[i+1]&0xE0) != 0xE0 {
			continue
		}
		if _, err := ParseHeader(buf[i:]); err == nil {
			return i
		}
	}
	return -1
}
