package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// AudioProperties is an alias to types.AudioProperties.
type AudioProperties = types.AudioProperties

// Quality is an alias to types.Quality.
type Quality = types.Quality

// Re-export quality classes.
const (
	QualityUnknown = types.QualityUnknown
	QualityHQ      = types.QualityHQ
	QualitySQ      = types.QualitySQ
	QualityHiRes   = types.QualityHiRes
)

// Property is an alias to types.Property.
type Property = types.Property

// Re-export all audio properties.
const (
	BitRate    = types.BitRate
	BitDepth   = types.BitDepth
	Channels   = types.Channels
	Duration   = types.Duration
	SampleRate = types.SampleRate
)

// Properties lists every audio property.
func Properties() []Property { return types.Properties() }
