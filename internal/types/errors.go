package types

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Every error struct below unwraps to one.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorruptHeader     = errors.New("corrupt header")
	ErrValidation        = errors.New("invalid value")
	ErrEncodingOverflow  = errors.New("encoding overflow")
	ErrReleased          = errors.New("handle released")
)

// UnsupportedFormatError is returned when no detector rule matches, or when a
// recognised container uses a variant the codec does not handle.
type UnsupportedFormatError struct {
	Reason string
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format != FormatUnknown {
		return fmt.Sprintf("unsupported format: %s: %s", e.Format, e.Reason)
	}
	return "unsupported format: " + e.Reason
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// CorruptHeaderError is returned when container structure is inconsistent.
type CorruptHeaderError struct {
	Err    error
	Reason string
	Offset int64
	Format Format
}

func (e *CorruptHeaderError) Error() string {
	msg := fmt.Sprintf("%s: corrupt header at offset %d: %s", e.Format, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptHeaderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorruptHeader}
	}
	return []error{ErrCorruptHeader, e.Err}
}

// Corrupt builds a CorruptHeaderError. err may be nil.
func Corrupt(format Format, offset int64, reason string, err error) *CorruptHeaderError {
	return &CorruptHeaderError{Format: format, Offset: offset, Reason: reason, Err: err}
}

// ValidationError is returned by setters that reject a value.
// Staged state is unchanged when it is returned.
type ValidationError struct {
	Value  any
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// EncodingOverflowError is returned by writers when a value or size does not
// fit its native field.
type EncodingOverflowError struct {
	What   string
	Size   uint64
	Limit  uint64
	Format Format
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("%s: %s of %d exceeds limit %d", e.Format, e.What, e.Size, e.Limit)
}

func (e *EncodingOverflowError) Unwrap() error { return ErrEncodingOverflow }

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data, such as a frame with an unknown
// text encoding or a picture block that could not be decoded.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "tag", "audio", "picture", "layout"

	// Warning message
	Message string

	// Buffer offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
