// SPDX-License-Identifier: EPL-2.0

package mp3stream

import (
	"errors"
	"io"

	"github.com/ik5/mp3stream/codec"
)

// fill compacts the unread region to the start of the compressed-input
// buffer and tops it up from the byte source. The unfilled tail is zeroed
// so stale bytes from a previous fill cannot be mistaken for a sync word.
// Returns the number of fresh bytes read; 0 means the source is dry.
func (d *Decoder) fill() int {
	copy(d.mp3Buf, d.mp3Buf[d.readOff:d.readOff+d.bytesLeft])
	d.readOff = 0

	n, err := io.ReadFull(d.src, d.mp3Buf[d.bytesLeft:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		// A failing source reads like an exhausted one from here on.
		n = 0
	}
	clear(d.mp3Buf[d.bytesLeft+n:])
	d.bytesLeft += n
	return n
}

// decodeNextFrame drives the decode primitive until one whole frame's PCM
// is staged, refilling the input buffer as needed. The staged samples end
// up in the last samplesLeft slots of the PCM buffer. Returns the number
// of interleaved samples staged; 0 means the stream is exhausted.
func (d *Decoder) decodeNextFrame() int {
	for {
		if d.bytesLeft < minDataChunkSize {
			d.fill()
		}

		off := d.dec.FindSync(d.mp3Buf[d.readOff : d.readOff+d.bytesLeft])
		if off < 0 {
			return 0 // out of data
		}
		// Discard interframe garbage up to the sync word.
		d.readOff += off
		d.bytesLeft -= off

		consumed, err := d.dec.Decode(d.mp3Buf[d.readOff:d.readOff+d.bytesLeft], d.pcmBuf)
		switch {
		case err == nil:
			d.readOff += consumed
			d.bytesLeft -= consumed

			info := d.dec.LastFrameInfo()
			d.sampleRate = info.SampleRate
			d.bitrate = info.Bitrate
			d.samplesLeft = info.OutputSamples
			if info.Channels == 1 {
				d.monoToStereo()
			}
			d.stageAtTail()
			return d.samplesLeft

		case errors.Is(err, codec.ErrUnderflow):
			// The frame spans past the buffered bytes. Pull more input;
			// if none arrives the trailing partial frame is unplayable.
			if d.fill() == 0 {
				return 0
			}

		default:
			return 0 // unsynchronizable data, treated as end of stream
		}
	}
}

// monoToStereo expands samplesLeft mono samples at the start of the PCM
// buffer into interleaved stereo in place. Iteration runs backward so no
// source sample is overwritten before it has been duplicated.
func (d *Decoder) monoToStereo() {
	for i := d.samplesLeft - 1; i >= 0; i-- {
		d.pcmBuf[2*i] = d.pcmBuf[i]
		d.pcmBuf[2*i+1] = d.pcmBuf[i]
	}
	d.samplesLeft *= 2
}

// stageAtTail moves the freshly decoded samples to the end of the PCM
// buffer, keeping the invariant that unconsumed samples occupy the last
// samplesLeft slots even when a frame is shorter than the buffer.
func (d *Decoder) stageAtTail() {
	if n := d.samplesLeft; n < len(d.pcmBuf) {
		copy(d.pcmBuf[len(d.pcmBuf)-n:], d.pcmBuf[:n])
	}
}
