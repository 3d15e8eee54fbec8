package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Sentinel errors for errors.Is. Every error struct below unwraps to one.
var (
	ErrUnsupportedFormat = types.ErrUnsupportedFormat
	ErrCorruptHeader     = types.ErrCorruptHeader
	ErrValidation        = types.ErrValidation
	ErrEncodingOverflow  = types.ErrEncodingOverflow
	ErrReleased          = types.ErrReleased
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Returned by Open when no container matches, or when a recognised
// container uses a variant the codec does not handle.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptHeaderError is an alias to types.CorruptHeaderError.
// Returned by Open when the container structure is inconsistent.
type CorruptHeaderError = types.CorruptHeaderError

// ValidationError is an alias to types.ValidationError.
// Returned by setters that reject a value.
type ValidationError = types.ValidationError

// EncodingOverflowError is an alias to types.EncodingOverflowError.
// Returned by Save when a value or size does not fit its native field.
type EncodingOverflowError = types.EncodingOverflowError

// Warning is an alias to types.Warning.
type Warning = types.Warning
