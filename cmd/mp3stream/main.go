// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ebitengine/oto/v3"

	"github.com/ik5/mp3stream"
	"github.com/ik5/mp3stream/formats/wav"
)

// chunkFrames is how many stereo pairs each ReadPCMFrames call requests.
const chunkFrames = 4096

var CLI struct {
	Input  string `arg:"" name:"input" help:"Input MP3 file"`
	Output string `arg:"" name:"output" help:"Output WAV file" optional:""`
	Play   bool   `help:"Play through the default audio device"`
	Info   bool   `help:"Print stream information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("mp3stream"),
		kong.Description("Decode MPEG audio to interleaved stereo 16-bit PCM."),
		kong.UsageOnError(),
	)

	if CLI.Output == "" && !CLI.Play && !CLI.Info {
		fail("nothing to do: pass <output>, --play or --info")
	}

	d, err := mp3stream.Open(CLI.Input)
	if err != nil {
		fail(fmt.Sprintf("open %s: %v", CLI.Input, err))
	}
	defer d.Close()

	samples := decodeAll(d)

	if CLI.Info {
		frames := d.PCMFramesDecoded()
		fmt.Printf("sample rate: %d Hz\n", d.SampleRate())
		fmt.Printf("bitrate:     %d bit/s\n", d.Bitrate())
		fmt.Printf("pcm frames:  %d\n", frames)
		fmt.Printf("duration:    %s\n",
			(time.Duration(frames)*time.Second/time.Duration(d.SampleRate())).Round(time.Millisecond))
	}

	if CLI.Output != "" {
		if err := writeWAV(CLI.Output, d.SampleRate(), samples); err != nil {
			fail(fmt.Sprintf("write %s: %v", CLI.Output, err))
		}
	}

	if CLI.Play {
		if err := play(d.SampleRate(), samples); err != nil {
			fail(fmt.Sprintf("playback: %v", err))
		}
	}
}

func decodeAll(d *mp3stream.Decoder) []int16 {
	var samples []int16
	buf := make([]int16, chunkFrames*2)
	for {
		n := d.ReadPCMFrames(buf, chunkFrames)
		if n == 0 {
			return samples
		}
		samples = append(samples, buf[:n*2]...)
	}
}

func writeWAV(path string, sampleRate int, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.WritePCM16(f, sampleRate, 2, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func play(sampleRate int, samples []int16) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return err
	}
	<-ready

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}

	p := ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	for p.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	return p.Close()
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
