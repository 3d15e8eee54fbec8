package audiotag

import (
	"log/slog"

	"github.com/simonhull/audiotag/internal/types"
)

// Option configures how a buffer is opened and later saved.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	h, err := audiotag.Open(data,
//	    audiotag.WithStrictParsing(),
//	    audiotag.WithID3Version(4),
//	)
type Option func(*openOptions)

// openOptions holds configuration for a handle.
type openOptions struct {
	logger         *slog.Logger
	vendor         string // Vorbis comment vendor for new blocks
	padding        int    // ID3v2 padding added when a tag grows
	maxPictureSize int    // bytes; 0 means no limit
	id3Version     uint8  // major version of newly created ID3v2 tags
	strictParsing  bool   // fail on any warning
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		logger:     slog.New(slog.DiscardHandler),
		vendor:     types.DefaultVendor,
		padding:    types.DefaultPadding,
		id3Version: types.DefaultID3Version,
	}
}

func (o *openOptions) writeOptions() types.WriteOptions {
	return types.WriteOptions{
		Logger:     o.logger,
		Vendor:     o.vendor,
		Padding:    o.padding,
		ID3Version: o.id3Version,
	}
}

// WithLogger routes debug output about parsing and saving to logger.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, parsing continues past issues like undecodable text frames or
// broken picture blocks, recording warnings alongside the parsed data.
// With strict parsing, Open fails with a *CorruptHeaderError describing the
// first warning instead.
//
// Example:
//
//	h, err := audiotag.Open(data, audiotag.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithID3Version selects the ID3v2 major version (3 or 4) used when Save
// has to create a tag. Existing tags keep their version. Other values are
// ignored.
func WithID3Version(major int) Option {
	return func(o *openOptions) {
		if major == 3 || major == 4 {
			o.id3Version = uint8(major)
		}
	}
}

// WithPadding sets how many zero bytes follow a grown ID3v2 tag, so later
// edits can be made without moving the audio. Default is 1024. Negative
// values mean no padding.
func WithPadding(n int) Option {
	return func(o *openOptions) {
		o.padding = max(n, 0)
	}
}

// WithVendor sets the vendor string of Vorbis comment blocks created by
// Save. Existing blocks keep their vendor.
func WithVendor(vendor string) Option {
	return func(o *openOptions) {
		if vendor != "" {
			o.vendor = vendor
		}
	}
}

// WithMaxPictureSize hides embedded pictures larger than n bytes from
// ReadPictures and makes WritePictures reject them. Hidden pictures are
// still saved unless the picture list is replaced.
//
// Default is 0 (no limit).
//
// Example:
//
//	// Limit pictures to 10MB
//	h, err := audiotag.Open(data,
//	    audiotag.WithMaxPictureSize(10*1024*1024),
//	)
func WithMaxPictureSize(n int) Option {
	return func(o *openOptions) {
		o.maxPictureSize = n
	}
}
