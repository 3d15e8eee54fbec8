package types

import "strings"

// Field identifies one writable slot of the unified model.
type Field uint8

const (
	FieldUnknown Field = iota
	FieldTitle
	FieldArtist
	FieldAlbum
	FieldAlbumArtist
	FieldGenre
	FieldComment
	FieldComposer
	FieldLyricist
	FieldCopyright
	FieldLyrics
	FieldTrackReplayGain
	FieldAlbumReplayGain
	FieldYear
	FieldTrack
	FieldTrackTotal
	FieldDisc
	FieldDiscTotal
	FieldRate
	FieldPictures

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldUnknown:         "unknown",
	FieldTitle:           "title",
	FieldArtist:          "artist",
	FieldAlbum:           "album",
	FieldAlbumArtist:     "albumArtist",
	FieldGenre:           "genre",
	FieldComment:         "comment",
	FieldComposer:        "composer",
	FieldLyricist:        "lyricist",
	FieldCopyright:       "copyright",
	FieldLyrics:          "lyrics",
	FieldTrackReplayGain: "trackReplayGain",
	FieldAlbumReplayGain: "albumReplayGain",
	FieldYear:            "year",
	FieldTrack:           "track",
	FieldTrackTotal:      "trackTotal",
	FieldDisc:            "disc",
	FieldDiscTotal:       "discTotal",
	FieldRate:            "rate",
	FieldPictures:        "pictures",
}

func (f Field) String() string {
	if f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// IsText reports whether f holds a string value.
func (f Field) IsText() bool { return f >= FieldTitle && f <= FieldAlbumReplayGain }

// IsNumber reports whether f holds an integer value.
func (f Field) IsNumber() bool { return f >= FieldYear && f <= FieldRate }

// ParseField resolves a field by name, ignoring case.
func ParseField(name string) (Field, bool) {
	for f := FieldTitle; f < fieldCount; f++ {
		if strings.EqualFold(fieldNames[f], name) {
			return f, true
		}
	}
	return FieldUnknown, false
}

// TextField is a Field that carries a string.
type TextField Field

const (
	Title           = TextField(FieldTitle)
	Artist          = TextField(FieldArtist)
	Album           = TextField(FieldAlbum)
	AlbumArtist     = TextField(FieldAlbumArtist)
	Genre           = TextField(FieldGenre)
	Comment         = TextField(FieldComment)
	Composer        = TextField(FieldComposer)
	Lyricist        = TextField(FieldLyricist)
	Copyright       = TextField(FieldCopyright)
	Lyrics          = TextField(FieldLyrics)
	TrackReplayGain = TextField(FieldTrackReplayGain)
	AlbumReplayGain = TextField(FieldAlbumReplayGain)
)

// Field returns the untyped field identifier.
func (f TextField) Field() Field { return Field(f) }

func (f TextField) String() string { return Field(f).String() }

// NumberField is a Field that carries a non-negative integer.
type NumberField Field

const (
	Year       = NumberField(FieldYear)
	Track      = NumberField(FieldTrack)
	TrackTotal = NumberField(FieldTrackTotal)
	Disc       = NumberField(FieldDisc)
	DiscTotal  = NumberField(FieldDiscTotal)
	// Rate is a popularity rating from 0 to 255, as in an ID3 POPM frame.
	Rate = NumberField(FieldRate)
)

// Field returns the untyped field identifier.
func (f NumberField) Field() Field { return Field(f) }

func (f NumberField) String() string { return Field(f).String() }

// TextFields lists every text field in declaration order.
func TextFields() []TextField {
	return []TextField{
		Title, Artist, Album, AlbumArtist, Genre, Comment, Composer, Lyricist,
		Copyright, Lyrics, TrackReplayGain, AlbumReplayGain,
	}
}

// NumberFields lists every numeric field in declaration order.
func NumberFields() []NumberField {
	return []NumberField{Year, Track, TrackTotal, Disc, DiscTotal, Rate}
}

// Property is a read-only audio property derived from stream headers.
type Property uint8

const (
	BitRate    Property = iota + 1 // kbps
	BitDepth                       // bits per sample
	Channels                       // channel count
	Duration                       // milliseconds
	SampleRate                     // Hz
)

func (p Property) String() string {
	switch p {
	case BitRate:
		return "bitRate"
	case BitDepth:
		return "bitDepth"
	case Channels:
		return "channels"
	case Duration:
		return "duration"
	case SampleRate:
		return "sampleRate"
	default:
		return "unknown"
	}
}

// Properties lists every property in declaration order.
func Properties() []Property {
	return []Property{BitRate, BitDepth, Channels, Duration, SampleRate}
}

// DirtySet records which fields were written since open.
type DirtySet uint32

// Mark adds f to the set.
func (d *DirtySet) Mark(f Field) { *d |= 1 << f }

// Has reports whether f is in the set.
func (d DirtySet) Has(f Field) bool { return d&(1<<f) != 0 }

// Empty reports whether no field was written.
func (d DirtySet) Empty() bool { return d == 0 }

// AnyText reports whether a text or numeric field is in the set.
func (d DirtySet) AnyText() bool {
	return d&^(1<<FieldPictures) != 0
}

// Fields lists the members of the set in declaration order.
func (d DirtySet) Fields() []Field {
	var out []Field
	for f := FieldTitle; f < fieldCount; f++ {
		if d.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
