package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// createBlock builds a comment block with the given vendor and records.
func createBlock(vendor string, comments ...string) []byte {
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		_ = binary.Write(buf, binary.LittleEndian, uint32(len(c)))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

func load(t *testing.T, comments ...string) (*types.File, *types.Metadata) {
	t.Helper()
	b, err := Parse(createBlock("test", comments...))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	file := &types.File{}
	md := types.NewMetadata(nil)
	b.Apply(file, md, 0)
	return file, md
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		check   func(*types.Metadata) bool
	}{
		{"title", "TITLE=Test Song", func(m *types.Metadata) bool { v, _ := m.Text(types.Title); return v == "Test Song" }},
		{"lowercase key", "artist=Test Artist", func(m *types.Metadata) bool { v, _ := m.Text(types.Artist); return v == "Test Artist" }},
		{"album artist alias", "ALBUM ARTIST=Various", func(m *types.Metadata) bool { v, _ := m.Text(types.AlbumArtist); return v == "Various" }},
		{"date full", "DATE=2024-05-15", func(m *types.Metadata) bool { v, _ := m.Number(types.Year); return v == 2024 }},
		{"track number", "TRACKNUMBER=5", func(m *types.Metadata) bool { v, _ := m.Number(types.Track); return v == 5 }},
		{"track with total", "TRACKNUMBER=5/12", func(m *types.Metadata) bool {
			n, _ := m.Number(types.Track)
			total, _ := m.Number(types.TrackTotal)
			return n == 5 && total == 12
		}},
		{"totaltracks", "TOTALTRACKS=15", func(m *types.Metadata) bool { v, _ := m.Number(types.TrackTotal); return v == 15 }},
		{"disc total", "DISCTOTAL=3", func(m *types.Metadata) bool { v, _ := m.Number(types.DiscTotal); return v == 3 }},
		{"comment with equals", "COMMENT=x=y=z", func(m *types.Metadata) bool { v, _ := m.Text(types.Comment); return v == "x=y=z" }},
		{"replaygain", "REPLAYGAIN_TRACK_GAIN=-6.50 dB", func(m *types.Metadata) bool {
			v, _ := m.Text(types.TrackReplayGain)
			return v == "-6.50 dB"
		}},
		{"rating", "RATING=80", func(m *types.Metadata) bool { v, _ := m.Number(types.Rate); return v == 80 }},
		{"year padded", "DATE=0099", func(m *types.Metadata) bool { v, ok := m.Number(types.Year); return ok && v == 99 }},
				{"empty value", "TITLE=", func(m *types.Metadata) bool { v, ok := m.Text(types.Title); return ok && v == "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, md := load(t, tc.comment)
			if !tc.check(md) {
				t.Errorf("Apply(%q) did not set expected field", tc.comment)
			}
		})
	}
}

func TestApply_FirstValueWins(t *testing.T) {
	_, md := load(t, "ARTIST=Artist One", "ARTIST=Artist Two")
	if v, _ := md.Text(types.Artist); v != "Artist One" {
		t.Errorf("Artist = %q, want %q", v, "Artist One")
	}
}

func TestApply_Warnings(t *testing.T) {
	file, md := load(t, "NOEQUALSIGN", "TRACKNUMBER=abc", "CUSTOMTAG=x")
	if len(file.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", file.Warnings)
	}
	if _, ok := md.Number(types.Track); ok {
		t.Error("invalid track number should not load")
	}
}

func TestParse_Errors(t *testing.T) {
	valid := createBlock("vendor", "TITLE=x")
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"vendor overrun", valid[:6]},
		{"missing count", valid[:10]},
		{"comment overrun", valid[:len(valid)-1]},
		{"huge count", append(createBlock("v")[:5], 0xFF, 0xFF, 0xFF, 0x7F)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Parse(valid[:6])
	var oob *binutil.OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Errorf("expected OutOfBoundsError, got %T", err)
	}
}

func TestMerge(t *testing.T) {
	b, err := Parse(createBlock("reference libFLAC 1.4.3",
		"TITLE=Old", "CUSTOM=keep", "ARTIST=Band", "TRACKNUMBER=2"))
	if err != nil {
		t.Fatal(err)
	}
	md := types.NewMetadata(nil)
	b.Apply(&types.File{}, md, 0)

	_ = md.SetText(types.Title, "New")
	_ = md.SetNumber(types.TrackTotal, 9)
	_ = md.ClearText(types.Artist)

	merged := b.Merge(md)
	if merged.Vendor != "reference libFLAC 1.4.3" {
		t.Errorf("vendor = %q", merged.Vendor)
	}

	var got []string
	for _, c := range merged.Comments {
		got = append(got, string(c.Raw))
	}
	want := []string{"TITLE=New", "CUSTOM=keep", "TRACKNUMBER=2", "TRACKTOTAL=9"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("comment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	data := createBlock("vendor", "TITLE=a", "ARTIST=b")
	b, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), data) {
		t.Error("re-encoded block differs from input")
	}

	empty := New("audiotag").Bytes()
	if !bytes.Equal(empty, createBlock("audiotag")) {
		t.Errorf("unexpected empty block % x", empty)
	}
}
