// SPDX-License-Identifier: EPL-2.0

package gomp3

import (
	"encoding/binary"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/mp3stream/codec"
	"github.com/ik5/mp3stream/codec/mpeg"
)

// outputChannels is fixed: go-mp3 always emits 16-bit LE stereo,
// upmixing mono sources internally.
const outputChannels = 2

type pcmChunk struct {
	data []byte
	err  error
}

// Decoder implements codec.FrameDecoder on top of hajimehoshi/go-mp3.
//
// go-mp3 only exposes a pull-style io.Reader API, so the frames handed to
// Decode are relayed through a pipe to a goroutine that owns the go-mp3
// decoder and streams its PCM back over a channel. Decode writes exactly
// one frame into the pipe and collects exactly that frame's samples, so
// each call stays aligned to a compressed frame boundary.
type Decoder struct {
	pw     *io.PipeWriter
	chunks chan pcmChunk

	info    codec.FrameInfo
	pending []byte // PCM bytes received but not yet claimed by a frame
	failed  error
	closed  bool
}

// New creates a go-mp3 backed frame decoder. It never blocks; the
// underlying decoder is constructed lazily once the first frame arrives.
func New() *Decoder {
	pr, pw := io.Pipe()
	d := &Decoder{
		pw:     pw,
		chunks: make(chan pcmChunk, 8),
	}
	go d.run(pr)
	return d
}

func (d *Decoder) run(pr *io.PipeReader) {
	defer pr.Close()

	dec, err := mp3.NewDecoder(pr)
	if err != nil {
		d.chunks <- pcmChunk{err: err}
		close(d.chunks)
		return
	}

	buf := make([]byte, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			d.chunks <- pcmChunk{data: out}
		}
		if err != nil {
			if err != io.EOF {
				d.chunks <- pcmChunk{err: err}
			}
			close(d.chunks)
			return
		}
	}
}

// FindSync locates the next valid MPEG frame header inside buf.
func (d *Decoder) FindSync(buf []byte) int {
	return mpeg.FindSync(buf)
}

// Decode decodes the frame at the start of src into pcm as interleaved
// stereo samples. Frame metadata comes from the header; the PCM itself
// comes from go-mp3.
func (d *Decoder) Decode(src []byte, pcm []int16) (int, error) {
	if d.failed != nil {
		return 0, d.failed
	}
	if d.closed {
		return 0, codec.ErrInvalidData
	}

	hdr, err := mpeg.ParseHeader(src)
	if err != nil {
		return 0, codec.ErrInvalidData
	}
	if hdr.FrameLength > len(src) {
		return 0, codec.ErrUnderflow
	}

	samples := hdr.SampleCount * outputChannels
	if samples > len(pcm) {
		return 0, d.fail(codec.ErrInvalidData)
	}

	if _, err := d.pw.Write(src[:hdr.FrameLength]); err != nil {
		return 0, d.fail(codec.ErrInvalidData)
	}

	// Collect this frame's PCM. go-mp3 emits the full frame before it
	// blocks waiting for the next one, so receiving until the byte count
	// is satisfied cannot stall.
	want := samples * 2
	for len(d.pending) < want {
		chunk, ok := <-d.chunks
		if !ok || chunk.err != nil {
			return 0, d.fail(codec.ErrInvalidData)
		}
		d.pending = append(d.pending, chunk.data...)
	}

	for i := range samples {
		pcm[i] = int16(binary.LittleEndian.Uint16(d.pending[2*i:]))
	}
	d.pending = d.pending[want:]

	d.info = codec.FrameInfo{
		SampleRate:    hdr.SampleRate,
		Bitrate:       hdr.Bitrate,
		OutputSamples: samples,
		Channels:      outputChannels,
	}
	return hdr.FrameLength, nil
}

// LastFrameInfo describes the most recently decoded frame.
func (d *Decoder) LastFrameInfo() codec.FrameInfo {
	return d.info
}

// Close shuts down the pipe and waits for the decode goroutine to drain.
// It is safe to call more than once.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	d.pw.Close()
	for range d.chunks {
	}
	return nil
}

func (d *Decoder) fail(err error) error {
	d.failed = err
	return err
}
