// SPDX-License-Identifier: EPL-2.0

// Package wav exports decoded PCM as WAV files.
//
// The package wraps github.com/go-audio/wav with a single convenience
// entry point matched to mp3stream's output format:
//
//	d, _ := mp3stream.Open("song.mp3")
//	defer d.Close()
//
//	var samples []int16
//	buf := make([]int16, 4096*2)
//	for {
//	    n := d.ReadPCMFrames(buf, 4096)
//	    if n == 0 {
//	        break
//	    }
//	    samples = append(samples, buf[:n*2]...)
//	}
//
//	out, _ := os.Create("song.wav")
//	defer out.Close()
//	wav.WritePCM16(out, d.SampleRate(), 2, samples)
//
// Output is canonical PCM WAV: RIFF/WAVE with a 16-byte fmt chunk and a
// data chunk, sizes patched in on Close via the writer's Seek.
package wav
