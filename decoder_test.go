// SPDX-License-Identifier: EPL-2.0

package mp3stream_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/mp3stream"
	"github.com/ik5/mp3stream/internal/codectest"
)

// leadIn stands in for the 10 bytes the tag probe consumes when no tag is
// present.
var leadIn = make([]byte, 10)

func newDecoder(t *testing.T, stream []byte) (*mp3stream.Decoder, *codectest.MockFrameDecoder) {
	t.Helper()

	mock := codectest.NewMockFrameDecoder(44100, 128000)
	d, err := mp3stream.New(bytes.NewReader(stream), mock)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d, mock
}

// readAll drains the decoder in chunkFrames-sized requests.
func readAll(d *mp3stream.Decoder, chunkFrames int) []int16 {
	var out []int16
	buf := make([]int16, chunkFrames*2)
	for {
		n := d.ReadPCMFrames(buf, chunkFrames)
		if n == 0 {
			return out
		}
		out = append(out, buf[:n*2]...)
	}
}

func TestReadPCMFrames_DeliversEveryFrame(t *testing.T) {
	t.Parallel()

	frames := []codectest.Frame{
		{Channels: 2, Samples: 100, Seq: 1, Pad: 16},
		{Channels: 2, Samples: 37, Seq: 2, Pad: 5},
		{Channels: 2, Samples: 250, Seq: 3, Pad: 128},
		{Channels: 2, Samples: 1152, Seq: 4, Pad: 400},
	}
	stream := append(append([]byte{}, leadIn...), codectest.BuildStream(frames...)...)

	d, _ := newDecoder(t, stream)
	defer d.Close()

	got := readAll(d, 33)
	want := codectest.ExpectedPCM(frames...)

	if len(got) != len(want) {
		t.Fatalf("total samples = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadPCMFrames_ShortFinalReadThenZero(t *testing.T) {
	t.Parallel()

	// 150 stereo pairs total.
	stream := append(append([]byte{}, leadIn...),
		codectest.BuildStream(codectest.Frame{Channels: 2, Samples: 150, Seq: 9})...)

	d, _ := newDecoder(t, stream)
	defer d.Close()

	buf := make([]int16, 100*2)
	if n := d.ReadPCMFrames(buf, 100); n != 100 {
		t.Fatalf("first read = %d frames, want 100", n)
	}
	if n := d.ReadPCMFrames(buf, 100); n != 50 {
		t.Fatalf("second read = %d frames, want short read of 50", n)
	}
	if n := d.ReadPCMFrames(buf, 100); n != 0 {
		t.Fatalf("read after exhaustion = %d frames, want 0", n)
	}
}

func TestReadPCMFrames_MonoExpandsToEqualPairs(t *testing.T) {
	t.Parallel()

	frames := []codectest.Frame{
		{Channels: 1, Samples: 57, Seq: 5},
		{Channels: 1, Samples: 1152, Seq: 6}, // fills the whole PCM buffer once doubled
	}
	stream := append(append([]byte{}, leadIn...), codectest.BuildStream(frames...)...)

	d, _ := newDecoder(t, stream)
	defer d.Close()

	got := readAll(d, 64)
	if want := (57 + 1152) * 2; len(got) != want {
		t.Fatalf("total samples = %d, want %d", len(got), want)
	}
	for i := 0; i < len(got); i += 2 {
		if got[i] != got[i+1] {
			t.Fatalf("pair %d = (%d, %d), want equal left/right", i/2, got[i], got[i+1])
		}
	}
}

func TestPCMFramesDecoded_TracksDeliveredPairs(t *testing.T) {
	t.Parallel()

	stream := append(append([]byte{}, leadIn...),
		codectest.BuildStream(codectest.Frame{Channels: 2, Samples: 200, Seq: 1})...)

	d, _ := newDecoder(t, stream)
	defer d.Close()

	if n := d.PCMFramesDecoded(); n != 0 {
		t.Fatalf("PCMFramesDecoded() after init = %d, want 0", n)
	}

	buf := make([]int16, 60*2)
	d.ReadPCMFrames(buf, 60)
	d.ReadPCMFrames(buf, 60)
	if n := d.PCMFramesDecoded(); n != 120 {
		t.Fatalf("PCMFramesDecoded() = %d, want 120", n)
	}

	// Drain the rest plus an extra exhausted read; the counter must
	// reflect only what was actually delivered.
	readAll(d, 60)
	if n := d.PCMFramesDecoded(); n != 200 {
		t.Fatalf("PCMFramesDecoded() after drain = %d, want 200", n)
	}
}

func TestTaggedAndUntaggedStreamsDecodeIdentically(t *testing.T) {
	t.Parallel()

	frames := []codectest.Frame{
		{Channels: 2, Samples: 80, Seq: 1, Pad: 9},
		{Channels: 1, Samples: 120, Seq: 2, Pad: 30},
		{Channels: 2, Samples: 44, Seq: 3},
	}
	body := codectest.BuildStream(frames...)

	tagged := append(codectest.ID3v2(300), body...)
	untagged := append(append([]byte{}, leadIn...), body...)

	dTagged, _ := newDecoder(t, tagged)
	defer dTagged.Close()
	dPlain, _ := newDecoder(t, untagged)
	defer dPlain.Close()

	a := readAll(dTagged, 25)
	b := readAll(dPlain, 25)

	if len(a) != len(b) {
		t.Fatalf("tagged stream yielded %d samples, untagged %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: tagged %d, untagged %d", i, a[i], b[i])
		}
	}
}

func TestFramesAtOffsetZero_ProbeConsumesLeadIn(t *testing.T) {
	t.Parallel()

	// With no tag, the 10-byte probe eats into the first frame; the sync
	// search recovers at the second frame.
	frames := []codectest.Frame{
		{Channels: 2, Samples: 30, Seq: 1, Pad: 40},
		{Channels: 2, Samples: 75, Seq: 2, Pad: 4},
		{Channels: 2, Samples: 12, Seq: 3},
	}
	d, _ := newDecoder(t, codectest.BuildStream(frames...))
	defer d.Close()

	got := readAll(d, 50)
	want := codectest.ExpectedPCM(frames[1:]...)

	if len(got) != len(want) {
		t.Fatalf("total samples = %d, want %d (frames after the probe)", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTruncatedFinalFrame_ShortReadNoError(t *testing.T) {
	t.Parallel()

	frames := []codectest.Frame{
		{Channels: 2, Samples: 90, Seq: 1, Pad: 50},
		{Channels: 2, Samples: 90, Seq: 2, Pad: 50},
	}
	stream := append(append([]byte{}, leadIn...), codectest.BuildStream(frames...)...)
	stream = stream[:len(stream)-20] // cut into the last frame's payload

	d, _ := newDecoder(t, stream)

	buf := make([]int16, 500*2)
	if n := d.ReadPCMFrames(buf, 500); n != 90 {
		t.Fatalf("read = %d frames, want 90 (second frame truncated)", n)
	}
	if n := d.ReadPCMFrames(buf, 500); n != 0 {
		t.Fatalf("read after truncation = %d frames, want 0", n)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() after truncated stream error = %v", err)
	}
}

func TestDecodeErrorTruncatesStream(t *testing.T) {
	t.Parallel()

	frames := []codectest.Frame{
		{Channels: 2, Samples: 40, Seq: 1},
		{Channels: 2, Samples: 40, Seq: 2},
		{Channels: 2, Samples: 40, Seq: 3},
		{Channels: 2, Samples: 40, Seq: 4},
	}
	stream := append(append([]byte{}, leadIn...), codectest.BuildStream(frames...)...)

	mock := codectest.NewMockFrameDecoder(44100, 128000)
	mock.FailAfter = 2
	d, err := mp3stream.New(bytes.NewReader(stream), mock)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	got := readAll(d, 64)
	if want := 2 * 40 * 2; len(got) != want {
		t.Fatalf("total samples = %d, want %d (decode error ends the stream)", len(got), want)
	}
}

func TestUnderflowAcrossRefills_LosesNothing(t *testing.T) {
	t.Parallel()

	// Frames larger than the refill threshold force the pump through its
	// underflow path at buffer boundaries.
	var frames []codectest.Frame
	for i := range 6 {
		frames = append(frames, codectest.Frame{Channels: 2, Samples: 300, Seq: byte(10 + i), Pad: 3000})
	}
	stream := append(append([]byte{}, leadIn...), codectest.BuildStream(frames...)...)

	d, _ := newDecoder(t, stream)
	defer d.Close()

	got := readAll(d, 111)
	want := codectest.ExpectedPCM(frames...)

	if len(got) != len(want) {
		t.Fatalf("total samples = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadPCMFrames_InvalidInputsReturnZero(t *testing.T) {
	t.Parallel()

	stream := append(append([]byte{}, leadIn...),
		codectest.BuildStream(codectest.Frame{Channels: 2, Samples: 50, Seq: 1})...)
	d, mock := newDecoder(t, stream)
	defer d.Close()

	decodedBefore := mock.Decoded()
	buf := make([]int16, 16)

	if n := d.ReadPCMFrames(nil, 8); n != 0 {
		t.Errorf("ReadPCMFrames(nil dst) = %d, want 0", n)
	}
	if n := d.ReadPCMFrames(buf, 0); n != 0 {
		t.Errorf("ReadPCMFrames(frames=0) = %d, want 0", n)
	}
	if n := d.ReadPCMFrames(buf, -3); n != 0 {
		t.Errorf("ReadPCMFrames(frames<0) = %d, want 0", n)
	}

	var nilDec *mp3stream.Decoder
	if n := nilDec.ReadPCMFrames(buf, 8); n != 0 {
		t.Errorf("nil decoder ReadPCMFrames = %d, want 0", n)
	}

	if d.PCMFramesDecoded() != 0 {
		t.Error("invalid reads mutated the delivered-frames counter")
	}
	if mock.Decoded() != decodedBefore {
		t.Error("invalid reads pumped the decode primitive")
	}
}

func TestReadPCMFrames_RequestClampedToDst(t *testing.T) {
	t.Parallel()

	stream := append(append([]byte{}, leadIn...),
		codectest.BuildStream(codectest.Frame{Channels: 2, Samples: 50, Seq: 1})...)
	d, _ := newDecoder(t, stream)
	defer d.Close()

	buf := make([]int16, 10) // room for 5 pairs
	if n := d.ReadPCMFrames(buf, 100); n != 5 {
		t.Fatalf("ReadPCMFrames clamped = %d frames, want 5", n)
	}
}

func TestQueries_ReportPrimedMetadata(t *testing.T) {
	t.Parallel()

	stream := append(append([]byte{}, leadIn...),
		codectest.BuildStream(codectest.Frame{Channels: 2, Samples: 50, Seq: 1})...)

	mock := codectest.NewMockFrameDecoder(22050, 64000)
	d, err := mp3stream.New(bytes.NewReader(stream), mock)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if got := d.SampleRate(); got != 22050 {
		t.Errorf("SampleRate() = %d, want 22050", got)
	}
	if got := d.Bitrate(); got != 64000 {
		t.Errorf("Bitrate() = %d, want 64000", got)
	}
}

func TestQueries_NilReceiver(t *testing.T) {
	t.Parallel()

	var d *mp3stream.Decoder
	if d.SampleRate() != 0 || d.Bitrate() != 0 || d.PCMFramesDecoded() != 0 {
		t.Error("nil decoder queries must all return 0")
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	t.Parallel()

	if _, err := mp3stream.New(nil, codectest.NewMockFrameDecoder(44100, 0)); !errors.Is(err, os.ErrInvalid) {
		t.Errorf("New(nil src) error = %v, want os.ErrInvalid", err)
	}
	if _, err := mp3stream.New(bytes.NewReader(nil), nil); !errors.Is(err, os.ErrInvalid) {
		t.Errorf("New(nil dec) error = %v, want os.ErrInvalid", err)
	}
}

func TestNew_NoDecodableFrames_RollsBack(t *testing.T) {
	t.Parallel()

	mock := codectest.NewMockFrameDecoder(44100, 128000)
	_, err := mp3stream.New(bytes.NewReader(bytes.Repeat([]byte{0x11}, 600)), mock)
	if !errors.Is(err, mp3stream.ErrNoValidFrames) {
		t.Fatalf("New() error = %v, want ErrNoValidFrames", err)
	}
	if !mock.Closed() {
		t.Error("decode primitive was not released on init failure")
	}
}

func TestNew_TagOnlyStream(t *testing.T) {
	t.Parallel()

	mock := codectest.NewMockFrameDecoder(44100, 128000)
	_, err := mp3stream.New(bytes.NewReader(codectest.ID3v2(100)), mock)
	if !errors.Is(err, mp3stream.ErrNoValidFrames) {
		t.Fatalf("New() error = %v, want ErrNoValidFrames", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := mp3stream.Open(filepath.Join(t.TempDir(), "nope.mp3"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Open() error = %v, want fs.ErrNotExist", err)
	}
}

func TestOpen_NotAnMPEGStream(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("this is definitely not music"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := mp3stream.Open(path)
	if !errors.Is(err, mp3stream.ErrNoValidFrames) {
		t.Fatalf("Open() error = %v, want ErrNoValidFrames", err)
	}
}

func TestClose_NilReceiver(t *testing.T) {
	t.Parallel()

	var d *mp3stream.Decoder
	if err := d.Close(); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("nil Close() error = %v, want os.ErrInvalid", err)
	}
}

func BenchmarkReadPCMFrames(b *testing.B) {
	frames := make([]codectest.Frame, 64)
	for i := range frames {
		frames[i] = codectest.Frame{Channels: 2, Samples: 1152, Seq: byte(i), Pad: 400}
	}
	stream := append(append([]byte{}, leadIn...), codectest.BuildStream(frames...)...)
	buf := make([]int16, 1024*2)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		d, err := mp3stream.New(bytes.NewReader(stream), codectest.NewMockFrameDecoder(44100, 128000))
		if err != nil {
			b.Fatal(err)
		}
		for d.ReadPCMFrames(buf, 1024) > 0 {
		}
		d.Close()
	}
}
