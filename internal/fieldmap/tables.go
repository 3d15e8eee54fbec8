package fieldmap

import (
	"math"

	"github.com/simonhull/audiotag/internal/types"
)

func text(key string, f types.TextField, aliases ...string) Entry {
	return Entry{Key: key, Aliases: aliases, Fields: []types.Field{f.Field()}, Kind: KindText}
}

func number(key string, f types.NumberField, aliases ...string) Entry {
	return Entry{Key: key, Aliases: aliases, Fields: []types.Field{f.Field()}, Kind: KindNumber}
}

// Record keys for ID3 frames that need a qualifier. Parsers build these from
// the frame description.
const (
	KeyComment         = "COMM"
	KeyLyrics          = "USLT"
	KeyPopularimeter   = "POPM"
	KeyTrackGainTXXX   = "TXXX:REPLAYGAIN_TRACK_GAIN"
	KeyAlbumGainTXXX   = "TXXX:REPLAYGAIN_ALBUM_GAIN"
	KeyMP4Lyricist     = "----:com.apple.iTunes:LYRICIST"
	KeyMP4TrackGain    = "----:com.apple.iTunes:replaygain_track_gain"
	KeyMP4AlbumGain    = "----:com.apple.iTunes:replaygain_album_gain"
	KeyMP4Rating       = "----:com.apple.iTunes:RATING"
	keyID3Pictures     = "APIC"
	keyMP4Pictures     = "covr"
	keyID3Genre        = "TCON"
	keyMP4Genre        = "\xa9gen"
	keyMP4GenreIndexed = "gnre"
)

func id3Common() []Entry {
	return []Entry{
		text("TIT2", types.Title),
		text("TPE1", types.Artist),
		text("TALB", types.Album),
		text("TPE2", types.AlbumArtist),
		{Key: keyID3Genre, Fields: []types.Field{types.FieldGenre}, Kind: KindGenre},
		text(KeyComment, types.Comment),
		text("TCOM", types.Composer),
		text("TEXT", types.Lyricist),
		text("TCOP", types.Copyright),
		text(KeyLyrics, types.Lyrics),
		text(KeyTrackGainTXXX, types.TrackReplayGain),
		text(KeyAlbumGainTXXX, types.AlbumReplayGain),
		{Key: "TRCK", Fields: []types.Field{types.FieldTrack, types.FieldTrackTotal}, Kind: KindPair},
		{Key: "TPOS", Fields: []types.Field{types.FieldDisc, types.FieldDiscTotal}, Kind: KindPair},
		number(KeyPopularimeter, types.Rate),
		{Key: keyID3Pictures, Fields: []types.Field{types.FieldPictures}, Kind: KindPicture},
	}
}

// ID3v23 is the ID3v2.3 frame vocabulary.
var ID3v23 = newTable("ID3v2.3", false, append(id3Common(),
	Entry{Key: "TYER", Aliases: []string{"TDRC"}, Fields: []types.Field{types.FieldYear}, Kind: KindYear},
)...)

// ID3v24 is the ID3v2.4 frame vocabulary.
var ID3v24 = newTable("ID3v2.4", false, append(id3Common(),
	Entry{Key: "TDRC", Aliases: []string{"TYER"}, Fields: []types.Field{types.FieldYear}, Kind: KindYear},
)...)

// ID3 returns the table for an ID3v2 major version.
func ID3(major uint8) *Table {
	if major == 4 {
		return ID3v24
	}
	return ID3v23
}

// Vorbis is the Vorbis comment vocabulary. Keys are case-insensitive.
var Vorbis = newTable("Vorbis", true,
	text("TITLE", types.Title),
	text("ARTIST", types.Artist),
	text("ALBUM", types.Album),
	text("ALBUMARTIST", types.AlbumArtist, "ALBUM ARTIST", "ALBUM_ARTIST"),
	Entry{Key: "GENRE", Fields: []types.Field{types.FieldGenre}, Kind: KindGenre},
	text("COMMENT", types.Comment, "DESCRIPTION"),
	text("COMPOSER", types.Composer),
	text("LYRICIST", types.Lyricist),
	text("COPYRIGHT", types.Copyright),
	text("LYRICS", types.Lyrics, "UNSYNCEDLYRICS"),
	text("REPLAYGAIN_TRACK_GAIN", types.TrackReplayGain),
	text("REPLAYGAIN_ALBUM_GAIN", types.AlbumReplayGain),
	Entry{Key: "DATE", Aliases: []string{"YEAR"}, Fields: []types.Field{types.FieldYear}, Kind: KindYear},
	Entry{Key: "TRACKNUMBER", Fields: []types.Field{types.FieldTrack, types.FieldTrackTotal}, Kind: KindNumber},
	number("TRACKTOTAL", types.TrackTotal, "TOTALTRACKS"),
	Entry{Key: "DISCNUMBER", Fields: []types.Field{types.FieldDisc, types.FieldDiscTotal}, Kind: KindNumber},
	number("DISCTOTAL", types.DiscTotal, "TOTALDISCS"),
	number("RATING", types.Rate),
)

// RIFFInfo is the RIFF LIST/INFO vocabulary.
var RIFFInfo = newTable("RIFF INFO", false,
	text("INAM", types.Title),
	text("IART", types.Artist),
	text("IPRD", types.Album),
	text("IAAR", types.AlbumArtist),
	Entry{Key: "IGNR", Fields: []types.Field{types.FieldGenre}, Kind: KindGenre},
	text("ICMT", types.Comment),
	text("IMUS", types.Composer),
	text("IWRI", types.Lyricist),
	text("ICOP", types.Copyright),
	Entry{Key: "ICRD", Fields: []types.Field{types.FieldYear}, Kind: KindYear},
	Entry{Key: "ITRK", Aliases: []string{"IPRT"}, Fields: []types.Field{types.FieldTrack, types.FieldTrackTotal}, Kind: KindNumber},
)

// MP4 is the iTunes ilst item vocabulary. Freeform items use
// "----:mean:name" keys.
//
// trkn and disk hold binary pairs and gnre a binary genre index; the MP4
// codec handles those encodings itself.
var MP4 = newTable("MP4", false,
	text("\xa9nam", types.Title),
	text("\xa9ART", types.Artist),
	text("\xa9alb", types.Album),
	text("aART", types.AlbumArtist),
	Entry{Key: keyMP4Genre, Fields: []types.Field{types.FieldGenre}, Kind: KindGenre},
	Entry{Key: keyMP4GenreIndexed, Fields: []types.Field{types.FieldGenre}, Kind: KindGenre},
	text("\xa9cmt", types.Comment),
	text("\xa9wrt", types.Composer),
	text(KeyMP4Lyricist, types.Lyricist, "----:com.apple.iTunes:Lyricist"),
	text("cprt", types.Copyright),
	text("\xa9lyr", types.Lyrics),
	text(KeyMP4TrackGain, types.TrackReplayGain, "----:com.apple.iTunes:REPLAYGAIN_TRACK_GAIN"),
	text(KeyMP4AlbumGain, types.AlbumReplayGain, "----:com.apple.iTunes:REPLAYGAIN_ALBUM_GAIN"),
	Entry{Key: "\xa9day", Fields: []types.Field{types.FieldYear}, Kind: KindYear},
	Entry{Key: "trkn", Fields: []types.Field{types.FieldTrack, types.FieldTrackTotal}, Kind: KindPair},
	Entry{Key: "disk", Fields: []types.Field{types.FieldDisc, types.FieldDiscTotal}, Kind: KindPair},
	number(KeyMP4Rating, types.Rate),
	Entry{Key: keyMP4Pictures, Fields: []types.Field{types.FieldPictures}, Kind: KindPicture},
)

// MaxYear is the largest year every vocabulary can hold as four digits.
const MaxYear = 9999

// MaxRating is the largest rating a POPM frame can hold.
const MaxRating = 255

// Limit returns the largest value a numeric field can hold in format.
func Limit(format types.Format, f types.NumberField) int {
	switch {
	case f == types.Year:
		return MaxYear
	case f == types.Rate:
		return MaxRating
	case format == types.FormatMP4:
		return math.MaxUint16
	}
	return math.MaxInt32
}

// Minimum returns the smallest value a numeric field can hold in format.
// MP4 trkn and disk items use 0 for "not set", so track and disc start at 1
// there.
func Minimum(format types.Format, f types.NumberField) int {
	if format == types.FormatMP4 && (f == types.Track || f == types.Disc) {
		return 1
	}
	return 0
}

// BoundsFunc binds Minimum and Limit to a format, for types.NewMetadata.
func BoundsFunc(format types.Format) types.Bounds {
	return func(f types.NumberField) (int, int) {
		return Minimum(format, f), Limit(format, f)
	}
}
