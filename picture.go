package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is an alias to types.Picture.
type Picture = types.Picture

// PictureType is an alias to types.PictureType.
type PictureType = types.PictureType

// Re-export all picture type constants
const (
	PictureOther             = types.PictureOther
	PictureFileIcon          = types.PictureFileIcon
	PictureOtherIcon         = types.PictureOtherIcon
	PictureFrontCover        = types.PictureFrontCover
	PictureBackCover         = types.PictureBackCover
	PictureLeaflet           = types.PictureLeaflet
	PictureMedia             = types.PictureMedia
	PictureLeadArtist        = types.PictureLeadArtist
	PictureArtist            = types.PictureArtist
	PictureConductor         = types.PictureConductor
	PictureBand              = types.PictureBand
	PictureComposer          = types.PictureComposer
	PictureLyricist          = types.PictureLyricist
	PictureRecordingLocation = types.PictureRecordingLocation
	PictureDuringRecording   = types.PictureDuringRecording
	PictureDuringPerformance = types.PictureDuringPerformance
	PictureVideoCapture      = types.PictureVideoCapture
	PictureBrightFish        = types.PictureBrightFish
	PictureIllustration      = types.PictureIllustration
	PictureBandLogotype      = types.PictureBandLogotype
	PicturePublisherLogotype = types.PicturePublisherLogotype
)

// DetectMIMEType sniffs the image format of data. It returns "" when the
// signature is not recognised.
func DetectMIMEType(data []byte) string {
	return types.DetectMIMEType(data)
}
