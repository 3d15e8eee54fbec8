package m4a

import (
	"bytes"
	"testing"
	"time"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

func TestParseHeaderDuration(t *testing.T) {
	tests := []struct {
		name string
		body [][]byte
		want time.Duration
	}{
		{"version 0", [][]byte{{0, 0, 0, 0}, make([]byte, 8), be32(1000), be32(10000)}, 10 * time.Second},
		{"version 1", [][]byte{{1, 0, 0, 0}, make([]byte, 16), be32(44100), {0, 0, 0, 0}, be32(242550)}, 5500 * time.Millisecond},
		{"zero timescale", [][]byte{{0, 0, 0, 0}, make([]byte, 8), be32(0), be32(10000)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := atom("mvhd", tt.body...)
			sr := binary.NewSafeReader(data, "test")
			a, err := readAtomHeader(sr, 0, sr.Size())
			if err != nil {
				t.Fatal(err)
			}
			got, err := parseHeaderDuration(sr, a)
			if err != nil {
				t.Fatalf("parseHeaderDuration() error = %v", err)
			}
			if diff := got - tt.want; diff < -time.Millisecond || diff > time.Millisecond {
				t.Errorf("duration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseHeaderDuration_Truncated(t *testing.T) {
	data := atom("mvhd", []byte{0, 0, 0, 0}, make([]byte, 8))
	sr := binary.NewSafeReader(data, "test")
	a, _ := readAtomHeader(sr, 0, sr.Size())
	if _, err := parseHeaderDuration(sr, a); err == nil {
		t.Error("expected error")
	}
}

func TestParseTechnicalInfo_NoSoundTrack(t *testing.T) {
	mvhd := fullAtom("mvhd", make([]byte, 8), be32(1000), be32(4000))
	video := atom("trak", atom("mdia",
		fullAtom("hdlr", make([]byte, 4), []byte("vide"), make([]byte, 13))))
	data := atom("moov", mvhd, video)

	sr := binary.NewSafeReader(data, "test")
	moov, _ := readAtomHeader(sr, 0, sr.Size())
	file := &types.File{Payload: []types.Span{{Offset: 0, Length: 64000}}}
	parseTechnicalInfo(sr, data, moov, file)

	if file.Audio.Duration != 4*time.Second {
		t.Errorf("Duration = %v, want 4s", file.Audio.Duration)
	}
	if file.Audio.Codec != "" {
		t.Errorf("Codec = %q, want empty", file.Audio.Codec)
	}
	if file.Audio.BitRate != 128 {
		t.Errorf("BitRate = %d, want 128 from payload", file.Audio.BitRate)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", file.Warnings)
	}
}

func TestParseTechnicalInfo_TrackDurationWins(t *testing.T) {
	tr := aacTrack()
	tr.duration = 3 * 44100
	data := createMoov(tr, 0, nil)
	// mvhd claims 2 s
	copy(data[bytes.Index(data, []byte("mvhd"))+20:], be32(2000))

	sr := binary.NewSafeReader(data, "test")
	moov, _ := readAtomHeader(sr, 0, sr.Size())
	file := &types.File{}
	parseTechnicalInfo(sr, data, moov, file)
	if file.Audio.Duration != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", file.Audio.Duration)
	}
}
