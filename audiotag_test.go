package audiotag_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/audiotag"
)

var fixtures = []struct {
	name   string
	data   func() []byte
	format audiotag.Format
}{
	{"mp3", mp3File, audiotag.FormatMP3},
	{"flac", func() []byte { return flacFile(true) }, audiotag.FormatFLAC},
	{"wav", wavFile, audiotag.FormatWAV},
	{"m4a", m4aFile, audiotag.FormatMP4},
}

func mustOpen(t *testing.T, data []byte, opts ...audiotag.Option) *audiotag.Handle {
	t.Helper()
	h, err := audiotag.Open(data, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = h.Release() })
	return h
}

func TestOpen_Formats(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			h := mustOpen(t, fx.data())
			if h.Format() != fx.format {
				t.Errorf("Format() = %v, want %v", h.Format(), fx.format)
			}
			if w := h.Warnings(); len(w) != 0 {
				t.Errorf("unexpected warnings %v", w)
			}
			if _, ok, _ := h.ReadText(audiotag.Title); ok {
				t.Error("untagged file reports a title")
			}
			layout, err := h.Layout()
			if err != nil || len(layout) == 0 {
				t.Errorf("Layout() = %v, %v", layout, err)
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	badFLAC := flacFile(true)
	badFLAC[7] = 16 // STREAMINFO length

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, audiotag.ErrUnsupportedFormat},
		{"text", []byte("not a valid audio file"), audiotag.ErrUnsupportedFormat},
		{"riff not wave", []byte("RIFF\x04\x00\x00\x00AVI "), audiotag.ErrUnsupportedFormat},
		{"corrupt flac", badFLAC, audiotag.ErrCorruptHeader},
		{"mp4 without moov", m4aFile()[:28], audiotag.ErrCorruptHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := audiotag.Open(tt.data)
			if h != nil {
				t.Error("expected no handle")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	_, err := audiotag.Open([]byte("not a valid audio file"))
	var unsupported *audiotag.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Errorf("expected *UnsupportedFormatError, got %T", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	pic := audiotag.Picture{MIMEType: "image/png", Type: audiotag.PictureFrontCover, Data: pngData}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			h := mustOpen(t, fx.data())
			if err := h.WriteText(audiotag.Title, "Round Trip"); err != nil {
				t.Fatal(err)
			}
			if err := h.WriteText(audiotag.Artist, "Ünïcode Artist"); err != nil {
				t.Fatal(err)
			}
			if err := h.WriteNumber(audiotag.Track, 5); err != nil {
				t.Fatal(err)
			}
			if err := h.WriteNumber(audiotag.Year, 1999); err != nil {
				t.Fatal(err)
			}
			if err := h.WritePictures([]audiotag.Picture{pic}); err != nil {
				t.Fatal(err)
			}

			out, err := h.Save()
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			re := mustOpen(t, out)

			if v, _, _ := re.ReadText(audiotag.Title); v != "Round Trip" {
				t.Errorf("Title = %q", v)
			}
			if v, _, _ := re.ReadText(audiotag.Artist); v != "Ünïcode Artist" {
				t.Errorf("Artist = %q", v)
			}
			if n, _, _ := re.ReadNumber(audiotag.Track); n != 5 {
				t.Errorf("Track = %d", n)
			}
			if n, _, _ := re.ReadNumber(audiotag.Year); n != 1999 {
				t.Errorf("Year = %d", n)
			}
			pics, err := re.ReadPictures()
			if err != nil || len(pics) != 1 || !bytes.Equal(pics[0].Data, pngData) {
				t.Errorf("ReadPictures() = %v, %v", pics, err)
			}

			before, _ := mustOpen(t, fx.data()).Payload()
			after, _ := re.Payload()
			if len(before) != len(after) {
				t.Fatalf("payload spans %v became %v", before, after)
			}
			orig := fx.data()
			for i := range before {
				if !bytes.Equal(before[i].Bytes(orig), after[i].Bytes(out)) {
					t.Errorf("payload span %d changed", i)
				}
			}
		})
	}
}

func TestSave_ShortYears(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			for _, year := range []int{0, 99, 999} {
				h := mustOpen(t, fx.data())
				if err := h.WriteNumber(audiotag.Year, year); err != nil {
					t.Fatal(err)
				}
				out, err := h.Save()
				if err != nil {
					t.Fatalf("Save() error = %v", err)
				}
				if n, ok, _ := mustOpen(t, out).ReadNumber(audiotag.Year); !ok || n != year {
					t.Errorf("Year = %d, %v; want %d", n, ok, year)
				}
			}
		})
	}
}

func TestSave_TotalWithoutNumber(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			h := mustOpen(t, fx.data())
			if err := h.WriteNumber(audiotag.TrackTotal, 10); err != nil {
				t.Fatal(err)
			}
			out, err := h.Save()
			if err != nil {
				t.Fatal(err)
			}
			re := mustOpen(t, out)
			if n, ok, _ := re.ReadNumber(audiotag.Track); ok {
				t.Errorf("Track = %d, want unset", n)
			}
			if n, _, _ := re.ReadNumber(audiotag.TrackTotal); n != 10 {
				t.Errorf("TrackTotal = %d, want 10", n)
			}
		})
	}
}

func TestSave_Rate(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			h := mustOpen(t, fx.data())
			if err := h.WriteNumber(audiotag.Rate, 196); err != nil {
				t.Fatal(err)
			}
			out, err := h.Save()
			if err != nil {
				t.Fatal(err)
			}
			if n, _, _ := mustOpen(t, out).ReadNumber(audiotag.Rate); n != 196 {
				t.Errorf("Rate = %d, want 196", n)
			}
		})
	}
}

func TestSave_NoChangesIsVerbatim(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			data := fx.data()
			out, err := mustOpen(t, data).Save()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(out, data) {
				t.Error("output differs from input")
			}
		})
	}
}

func TestSave_HandleStaysUsable(t *testing.T) {
	h := mustOpen(t, flacFile(true))
	_ = h.WriteText(audiotag.Album, "First")
	first, err := h.Save()
	if err != nil {
		t.Fatal(err)
	}
	_ = h.WriteText(audiotag.Album, "Second")
	second, err := h.Save()
	if err != nil {
		t.Fatal(err)
	}

	if v, _, _ := mustOpen(t, first).ReadText(audiotag.Album); v != "First" {
		t.Errorf("first save Album = %q", v)
	}
	if v, _, _ := mustOpen(t, second).ReadText(audiotag.Album); v != "Second" {
		t.Errorf("second save Album = %q", v)
	}
}

func TestWrite_Validation(t *testing.T) {
	h := mustOpen(t, m4aFile())
	_ = h.WriteNumber(audiotag.Disc, 2)

	tests := []struct {
		name  string
		write func() error
	}{
		{"negative", func() error { return h.WriteNumber(audiotag.Disc, -1) }},
		{"over native range", func() error { return h.WriteNumber(audiotag.Disc, 70000) }},
		{"year too large", func() error { return h.WriteNumber(audiotag.Year, 12345) }},
		{"track zero", func() error { return h.WriteNumber(audiotag.Track, 0) }},
		{"rate too large", func() error { return h.WriteNumber(audiotag.Rate, 256) }},
		{"picture without MIME", func() error {
			return h.WritePictures([]audiotag.Picture{{Data: pngData}})
		}},
		{"empty picture", func() error {
			return h.WritePictures([]audiotag.Picture{{MIMEType: "image/png"}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.write(); !errors.Is(err, audiotag.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if n, _, _ := h.ReadNumber(audiotag.Disc); n != 2 {
		t.Errorf("Disc = %d after rejected writes, want 2", n)
	}
	dirty, _ := h.Dirty()
	if len(dirty) != 1 || dirty[0] != audiotag.Field(audiotag.Disc) {
		t.Errorf("Dirty() = %v, want [disc]", dirty)
	}
}

func TestProperty(t *testing.T) {
	h := mustOpen(t, flacFile(true))
	want := map[audiotag.Property]int{
		audiotag.Duration:   1000,
		audiotag.SampleRate: 44100,
		audiotag.Channels:   2,
		audiotag.BitDepth:   16,
		audiotag.BitRate:    40,
	}
	for p, w := range want {
		v, ok, err := h.Property(p)
		if err != nil || !ok || v != w {
			t.Errorf("Property(%v) = %d, %v, %v; want %d", p, v, ok, err, w)
		}
	}

	mp3 := mustOpen(t, mp3File())
	if _, ok, _ := mp3.Property(audiotag.BitDepth); ok {
		t.Error("MP3 should not report a bit depth")
	}
	if v, _, _ := mp3.Property(audiotag.BitRate); v != 128 {
		t.Errorf("MP3 BitRate = %d, want 128", v)
	}
}

func TestRelease(t *testing.T) {
	h, err := audiotag.Open(flacFile(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	calls := map[string]func() error{
		"Release":      h.Release,
		"Save":         func() error { _, err := h.Save(); return err },
		"ReadText":     func() error { _, _, err := h.ReadText(audiotag.Title); return err },
		"ReadNumber":   func() error { _, _, err := h.ReadNumber(audiotag.Year); return err },
		"Property":     func() error { _, _, err := h.Property(audiotag.Duration); return err },
		"ReadPictures": func() error { _, err := h.ReadPictures(); return err },
		"WriteText":    func() error { return h.WriteText(audiotag.Title, "x") },
		"WriteNumber":  func() error { return h.WriteNumber(audiotag.Year, 1) },
		"Layout":       func() error { _, err := h.Layout(); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, audiotag.ErrReleased) {
			t.Errorf("%s after Release: expected ErrReleased, got %v", name, err)
		}
	}
	if h.Format() != audiotag.FormatUnknown {
		t.Errorf("Format() = %v after Release", h.Format())
	}
}

func TestWithStrictParsing(t *testing.T) {
	data := flacFile(false)

	h := mustOpen(t, data)
	if len(h.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %v", h.Warnings())
	}

	_, err := audiotag.Open(data, audiotag.WithStrictParsing())
	if !errors.Is(err, audiotag.ErrCorruptHeader) {
		t.Errorf("expected ErrCorruptHeader, got %v", err)
	}
}

func TestWithMaxPictureSize(t *testing.T) {
	h := mustOpen(t, flacFile(true))
	big := audiotag.Picture{MIMEType: "image/png", Data: bytes.Repeat([]byte{1}, 100)}
	_ = h.WritePictures([]audiotag.Picture{big})
	out, err := h.Save()
	if err != nil {
		t.Fatal(err)
	}

	limited := mustOpen(t, out, audiotag.WithMaxPictureSize(50))
	if pics, _ := limited.ReadPictures(); len(pics) != 0 {
		t.Errorf("expected oversized picture to be hidden, got %d", len(pics))
	}
	if len(limited.Warnings()) != 1 {
		t.Errorf("expected a warning, got %v", limited.Warnings())
	}
	if err := limited.WritePictures([]audiotag.Picture{big}); !errors.Is(err, audiotag.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestWithVendor(t *testing.T) {
	h := mustOpen(t, flacFile(true), audiotag.WithVendor("my encoder 1.0"))
	_ = h.WriteText(audiotag.Title, "x")
	out, err := h.Save()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("my encoder 1.0")) {
		t.Error("vendor string not written")
	}
}

func TestWithID3Version(t *testing.T) {
	for _, v := range []int{3, 4} {
		h := mustOpen(t, mp3File(), audiotag.WithID3Version(v), audiotag.WithPadding(0))
		_ = h.WriteText(audiotag.Title, "x")
		out, err := h.Save()
		if err != nil {
			t.Fatal(err)
		}
		if out[3] != byte(v) {
			t.Errorf("WithID3Version(%d): tag version %d", v, out[3])
		}
	}
}

func TestClearText(t *testing.T) {
	h := mustOpen(t, flacFile(true))
	_ = h.WriteText(audiotag.Title, "x")
	_ = h.WriteText(audiotag.Album, "y")
	out, _ := h.Save()

	re := mustOpen(t, out)
	if err := re.ClearText(audiotag.Title); err != nil {
		t.Fatal(err)
	}
	out, err := re.Save()
	if err != nil {
		t.Fatal(err)
	}

	final := mustOpen(t, out)
	if _, ok, _ := final.ReadText(audiotag.Title); ok {
		t.Error("Title should be cleared")
	}
	if v, _, _ := final.ReadText(audiotag.Album); v != "y" {
		t.Errorf("Album = %q", v)
	}
}

func TestParseField(t *testing.T) {
	f, ok := audiotag.ParseField("TrackTotal")
	if !ok || f != audiotag.Field(audiotag.TrackTotal) {
		t.Errorf("ParseField = %v, %v", f, ok)
	}
	if _, ok := audiotag.ParseField("bogus"); ok {
		t.Error("unexpected match")
	}
}
