package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Field is an alias to types.Field. It names any writable slot, including
// the picture list.
type Field = types.Field

// FieldPictures is the picture list as reported by Handle.Dirty.
const FieldPictures = types.FieldPictures

// TextField is an alias to types.TextField.
type TextField = types.TextField

// Re-export all text fields.
const (
	Title           = types.Title
	Artist          = types.Artist
	Album           = types.Album
	AlbumArtist     = types.AlbumArtist
	Genre           = types.Genre
	Comment         = types.Comment
	Composer        = types.Composer
	Lyricist        = types.Lyricist
	Copyright       = types.Copyright
	Lyrics          = types.Lyrics
	TrackReplayGain = types.TrackReplayGain
	AlbumReplayGain = types.AlbumReplayGain
)

// NumberField is an alias to types.NumberField.
type NumberField = types.NumberField

// Re-export all numeric fields.
const (
	Year       = types.Year
	Track      = types.Track
	TrackTotal = types.TrackTotal
	Disc       = types.Disc
	DiscTotal  = types.DiscTotal
	Rate       = types.Rate
)

// TextFields lists every text field.
func TextFields() []TextField { return types.TextFields() }

// NumberFields lists every numeric field.
func NumberFields() []NumberField { return types.NumberFields() }

// ParseField resolves a field by its name ("title", "trackTotal", ...),
// ignoring case.
func ParseField(name string) (Field, bool) { return types.ParseField(name) }
