package fieldmap

import (
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

func TestTable_Lookup(t *testing.T) {
	tests := []struct {
		table *Table
		key   string
		want  types.Field
	}{
		{ID3v23, "TIT2", types.FieldTitle},
		{ID3v23, "TYER", types.FieldYear},
		{ID3v24, "TDRC", types.FieldYear},
		{ID3v24, "TYER", types.FieldYear},
		{ID3v23, "TRCK", types.FieldTrack},
		{ID3v23, KeyTrackGainTXXX, types.FieldTrackReplayGain},
		{Vorbis, "artist", types.FieldArtist},
		{Vorbis, "Album Artist", types.FieldAlbumArtist},
		{Vorbis, "totaltracks", types.FieldTrackTotal},
		{RIFFInfo, "IPRT", types.FieldTrack},
		{MP4, "\xa9nam", types.FieldTitle},
		{MP4, "gnre", types.FieldGenre},
		{MP4, "----:com.apple.iTunes:REPLAYGAIN_ALBUM_GAIN", types.FieldAlbumReplayGain},
	}

	for _, tt := range tests {
		e, ok := tt.table.Lookup(tt.key)
		if !ok {
			t.Errorf("%s: Lookup(%q) not found", tt.table.Name(), tt.key)
			continue
		}
		if e.Field() != tt.want {
			t.Errorf("%s: Lookup(%q) = %v, want %v", tt.table.Name(), tt.key, e.Field(), tt.want)
		}
	}

	if _, ok := ID3v23.Lookup("tit2"); ok {
		t.Error("ID3 keys are case-sensitive")
	}
	if _, ok := ID3v23.Lookup("PRIV"); ok {
		t.Error("PRIV should be unmapped")
	}
}

func TestTable_ForField(t *testing.T) {
	tests := []struct {
		table *Table
		field types.Field
		want  string
	}{
		{ID3v23, types.FieldYear, "TYER"},
		{ID3v24, types.FieldYear, "TDRC"},
		{ID3v23, types.FieldTrackTotal, "TRCK"},
		{Vorbis, types.FieldTrack, "TRACKNUMBER"},
		{Vorbis, types.FieldTrackTotal, "TRACKTOTAL"},
		{MP4, types.FieldGenre, "\xa9gen"},
		{MP4, types.FieldDiscTotal, "disk"},
		{ID3v24, types.FieldRate, "POPM"},
		{Vorbis, types.FieldRate, "RATING"},
		{MP4, types.FieldRate, KeyMP4Rating},
	}

	for _, tt := range tests {
		e, ok := tt.table.ForField(tt.field)
		if !ok || e.Key != tt.want {
			t.Errorf("%s: ForField(%v) = %v, want %q", tt.table.Name(), tt.field, e, tt.want)
		}
	}

	if RIFFInfo.Supports(types.FieldLyrics) || RIFFInfo.Supports(types.FieldTrackTotal) || RIFFInfo.Supports(types.FieldRate) {
		t.Error("RIFF INFO has no lyrics, track total or rating")
	}
	if !MP4.Supports(types.FieldPictures) {
		t.Error("MP4 should support pictures")
	}
}

func TestEntry_DecodeEncode(t *testing.T) {
	md := types.NewMetadata(nil)

	trck, _ := ID3v23.Lookup("TRCK")
	if !trck.Decode(md, "3/12") {
		t.Fatal("TRCK decode failed")
	}
	tcon, _ := ID3v23.Lookup("TCON")
	tcon.Decode(md, "(17)")
	date, _ := Vorbis.Lookup("DATE")
	date.Decode(md, "2021-06-01")

	if n, _ := md.Number(types.Track); n != 3 {
		t.Errorf("track = %d, want 3", n)
	}
	if n, _ := md.Number(types.TrackTotal); n != 12 {
		t.Errorf("track total = %d, want 12", n)
	}
	if g, _ := md.Text(types.Genre); g != "Rock" {
		t.Errorf("genre = %q, want Rock", g)
	}
	if y, _ := md.Number(types.Year); y != 2021 {
		t.Errorf("year = %d, want 2021", y)
	}

	if v, ok := trck.Encode(md); !ok || v != "3/12" {
		t.Errorf("TRCK encode = %q, %v", v, ok)
	}

	tracknumber, _ := Vorbis.Lookup("TRACKNUMBER")
	if v, ok := tracknumber.Encode(md); !ok || v != "3" {
		t.Errorf("TRACKNUMBER encode = %q, %v; want total left to TRACKTOTAL", v, ok)
	}

	if date.Decode(md, "June") {
		t.Error("non-numeric date should fail")
	}

	title, _ := Vorbis.Lookup("TITLE")
	_ = md.SetText(types.Title, "")
	if _, ok := title.Encode(md); ok {
		t.Error("empty text should encode to nothing")
	}
}

func keysOf(steps []Step, keys []string) []string {
	var out []string
	for _, s := range steps {
		if s.Entry != nil {
			out = append(out, "+"+s.Entry.Key)
		} else {
			out = append(out, keys[s.Keep])
		}
	}
	return out
}

func TestTable_Plan(t *testing.T) {
	keys := []string{"TIT2", "PRIV", "TPE1", "TRCK", "TPE1", "APIC"}

	tests := []struct {
		name  string
		dirty []types.Field
		want  []string
	}{
		{
			name: "clean keeps everything",
			want: keys,
		},
		{
			name:  "replace in place and drop duplicate",
			dirty: []types.Field{types.FieldArtist},
			want:  []string{"TIT2", "PRIV", "+TPE1", "TRCK", "APIC"},
		},
		{
			name:  "pair entry rewritten once",
			dirty: []types.Field{types.FieldTrack, types.FieldTrackTotal},
			want:  []string{"TIT2", "PRIV", "TPE1", "+TRCK", "TPE1", "APIC"},
		},
		{
			name:  "new field appended",
			dirty: []types.Field{types.FieldComposer},
			want:  []string{"TIT2", "PRIV", "TPE1", "TRCK", "TPE1", "APIC", "+TCOM"},
		},
		{
			name:  "pictures",
			dirty: []types.Field{types.FieldPictures},
			want:  []string{"TIT2", "PRIV", "TPE1", "TRCK", "TPE1", "+APIC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d types.DirtySet
			for _, f := range tt.dirty {
				d.Mark(f)
			}
			got := keysOf(ID3v23.Plan(keys, d), keys)
			if len(got) != len(tt.want) {
				t.Fatalf("Plan() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Plan() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTable_Plan_VorbisCollateral(t *testing.T) {
	keys := []string{"TRACKNUMBER", "ARTIST"}
	var d types.DirtySet
	d.Mark(types.FieldTrackTotal)

	got := keysOf(Vorbis.Plan(keys, d), keys)
	want := []string{"+TRACKNUMBER", "+TRACKTOTAL", "ARTIST"}
	if len(got) != len(want) {
		t.Fatalf("Plan() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Plan() = %v, want %v", got, want)
		}
	}
}

func TestLimit(t *testing.T) {
	if got := Limit(types.FormatMP4, types.Track); got != 65535 {
		t.Errorf("MP4 track limit = %d, want 65535", got)
	}
	if got := Limit(types.FormatMP3, types.Year); got != MaxYear {
		t.Errorf("MP3 year limit = %d, want %d", got, MaxYear)
	}
	if _, hi := BoundsFunc(types.FormatFLAC)(types.Disc); hi <= 65535 {
		t.Errorf("FLAC disc limit = %d, want text range", hi)
	}
	if got := Limit(types.FormatWAV, types.Rate); got != MaxRating {
		t.Errorf("rate limit = %d, want %d", got, MaxRating)
	}
}

func TestMinimum(t *testing.T) {
	tests := []struct {
		format types.Format
		field  types.NumberField
		want   int
	}{
		{types.FormatMP4, types.Track, 1},
		{types.FormatMP4, types.Disc, 1},
		{types.FormatMP4, types.TrackTotal, 0},
		{types.FormatMP3, types.Track, 0},
		{types.FormatFLAC, types.Disc, 0},
	}

	for _, tt := range tests {
		if got := Minimum(tt.format, tt.field); got != tt.want {
			t.Errorf("Minimum(%v, %v) = %d, want %d", tt.format, tt.field, got, tt.want)
		}
	}
}

func TestEntry_EncodeYear(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{0, "0000"},
		{99, "0099"},
		{999, "0999"},
		{2024, "2024"},
	}

	for _, tab := range []*Table{ID3v23, ID3v24, Vorbis, RIFFInfo, MP4} {
		e, ok := tab.ForField(types.FieldYear)
		if !ok {
			t.Fatalf("%s has no year entry", tab.Name())
		}
		for _, tt := range tests {
			md := types.NewMetadata(nil)
			_ = md.SetNumber(types.Year, tt.year)
			got, ok := e.Encode(md)
			if !ok || got != tt.want {
				t.Errorf("%s: Encode(%d) = %q, %v; want %q", tab.Name(), tt.year, got, ok, tt.want)
			}
			back := types.NewMetadata(nil)
			if !e.Decode(back, got) {
				t.Errorf("%s: Decode(%q) failed", tab.Name(), got)
			}
			if y, _ := back.Number(types.Year); y != tt.year {
				t.Errorf("%s: year %d read back as %d", tab.Name(), tt.year, y)
			}
		}
	}
}

func TestEntry_EncodeTotalOnly(t *testing.T) {
	md := types.NewMetadata(nil)
	_ = md.SetNumber(types.TrackTotal, 10)

	trck, _ := ID3v24.Lookup("TRCK")
	v, ok := trck.Encode(md)
	if !ok || v != "/10" {
		t.Fatalf("TRCK encode = %q, %v; want \"/10\"", v, ok)
	}
	back := types.NewMetadata(nil)
	trck.Decode(back, v)
	if _, ok := back.Number(types.Track); ok {
		t.Error("track should stay unset")
	}
	if n, _ := back.Number(types.TrackTotal); n != 10 {
		t.Errorf("track total = %d, want 10", n)
	}
}
