// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// WritePCM16 writes interleaved 16-bit PCM samples as a WAV file.
// channels must be positive and samples must hold whole frames
// (len(samples) divisible by channels). The writer needs seeking because
// the RIFF sizes are patched on Close.
func WritePCM16(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrInvalidChannelCount
	}
	if len(samples)%channels != 0 {
		return ErrPartialFrame
	}

	enc := gowav.NewEncoder(w, sampleRate, 16, channels, 1) // 1 = PCM

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
