package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatMP3     = types.FormatMP3
	FormatFLAC    = types.FormatFLAC
	FormatWAV     = types.FormatWAV
	FormatMP4     = types.FormatMP4
)

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(data []byte) (Format, error) {
	return types.DetectFormat(data)
}

// Span is an alias to types.Span.
type Span = types.Span

// Region is an alias to types.Region.
type Region = types.Region
