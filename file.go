package audiotag

import (
	"fmt"
	"log/slog"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"

	_ "github.com/simonhull/audiotag/internal/flac" // registers FLAC
	_ "github.com/simonhull/audiotag/internal/m4a"  // registers MP4
	_ "github.com/simonhull/audiotag/internal/mp3"  // registers MP3
	_ "github.com/simonhull/audiotag/internal/wav"  // registers WAV
)

// Handle is an opened audio buffer with its parsed metadata.
//
// Setters only stage changes in memory; Save renders a new buffer from the
// original bytes and the staged state. The handle stays usable after Save.
//
// A Handle must not be used from several goroutines at once. Call Release
// on every exit path once the handle is no longer needed:
//
//	h, err := audiotag.Open(data)
//	if err != nil {
//		return err
//	}
//	defer h.Release()
type Handle struct {
	file     *types.File
	opts     *openOptions
	released bool
}

// Open detects the container in data and parses its tags.
//
// The handle keeps a reference to data; the caller must not modify it until
// Release. Structural problems fail with *CorruptHeaderError, unknown
// containers with *UnsupportedFormatError. Recoverable oddities are kept as
// warnings, or fail the open under WithStrictParsing.
//
// Example:
//
//	h, err := audiotag.Open(data, audiotag.WithID3Version(4))
//	if err != nil {
//		return err
//	}
//	defer h.Release()
//	title, _, _ := h.ReadText(audiotag.Title)
func Open(data []byte, opts ...Option) (*Handle, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	format, err := types.DetectFormat(data)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Format: format,
			Reason: "no parser registered",
		}
	}

	file, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	h := &Handle{file: file, opts: options}
	if n := h.oversizedPictures(); n > 0 {
		file.Warn("picture", 0, "%d picture(s) exceed %d bytes and are hidden", n, options.maxPictureSize)
	}

	log := options.logger.With(slog.String("format", format.String()))
	for _, w := range file.Warnings {
		log.Debug("parse warning", slog.String("stage", w.Stage), slog.Int64("offset", w.Offset), slog.String("message", w.Message))
	}
	if options.strictParsing && len(file.Warnings) > 0 {
		w := file.Warnings[0]
		return nil, fmt.Errorf("strict parsing: %w", types.Corrupt(format, w.Offset, w.Message, nil))
	}

	log.Debug("opened",
		slog.Int("size", len(data)),
		slog.Int("warnings", len(file.Warnings)),
		slog.Int("pictures", file.Metadata.PictureCount()))
	return h, nil
}

func (h *Handle) check() error {
	if h == nil || h.released {
		return ErrReleased
	}
	return nil
}

// Format returns the detected container.
func (h *Handle) Format() Format {
	if h.check() != nil {
		return FormatUnknown
	}
	return h.file.Format
}

// ReadText returns the value of a text field. ok is false when the file
// does not carry the field.
func (h *Handle) ReadText(f TextField) (value string, ok bool, err error) {
	if err := h.check(); err != nil {
		return "", false, err
	}
	value, ok = h.file.Metadata.Text(f)
	return value, ok, nil
}

// ReadNumber returns the value of a numeric field. ok is false when the
// file does not carry the field.
func (h *Handle) ReadNumber(f NumberField) (value int, ok bool, err error) {
	if err := h.check(); err != nil {
		return 0, false, err
	}
	value, ok = h.file.Metadata.Number(f)
	return value, ok, nil
}

// Property returns a derived audio property. ok is false when the
// container does not expose it.
func (h *Handle) Property(p Property) (value int, ok bool, err error) {
	if err := h.check(); err != nil {
		return 0, false, err
	}
	value, ok = h.file.Audio.Value(p)
	return value, ok, nil
}

// Audio returns every derived audio property at once.
func (h *Handle) Audio() (AudioProperties, error) {
	if err := h.check(); err != nil {
		return AudioProperties{}, err
	}
	return h.file.Audio, nil
}

// ReadPictures returns copies of the embedded pictures in file order.
// Pictures larger than the WithMaxPictureSize limit are left out.
func (h *Handle) ReadPictures() ([]Picture, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	pics := h.file.Metadata.Pictures()
	if h.opts.maxPictureSize <= 0 {
		return pics, nil
	}
	out := pics[:0]
	for _, p := range pics {
		if len(p.Data) <= h.opts.maxPictureSize {
			out = append(out, p)
		}
	}
	return out, nil
}

func (h *Handle) oversizedPictures() int {
	if h.opts.maxPictureSize <= 0 {
		return 0
	}
	n := 0
	h.file.Metadata.EachPicture(func(_ int, p Picture) {
		if len(p.Data) > h.opts.maxPictureSize {
			n++
		}
	})
	return n
}

// WriteText stages a new value for a text field.
//
// An empty string is kept in memory but omitted from the saved tag, like
// ClearText.
func (h *Handle) WriteText(f TextField, v string) error {
	if err := h.check(); err != nil {
		return err
	}
	return h.file.Metadata.SetText(f, v)
}

// WriteNumber stages a new value for a numeric field. Negative values and
// values the container cannot encode fail with *ValidationError.
func (h *Handle) WriteNumber(f NumberField, v int) error {
	if err := h.check(); err != nil {
		return err
	}
	return h.file.Metadata.SetNumber(f, v)
}

// WritePictures replaces the embedded pictures. An empty list removes them
// all. Every picture needs a MIME type and data; the data is copied.
func (h *Handle) WritePictures(pics []Picture) error {
	if err := h.check(); err != nil {
		return err
	}
	if limit := h.opts.maxPictureSize; limit > 0 {
		for _, p := range pics {
			if len(p.Data) > limit {
				return &ValidationError{Field: "picture", Value: len(p.Data), Reason: fmt.Sprintf("exceeds %d bytes", limit)}
			}
		}
	}
	return h.file.Metadata.SetPictures(pics)
}

// ClearText stages removal of a text field.
func (h *Handle) ClearText(f TextField) error {
	if err := h.check(); err != nil {
		return err
	}
	return h.file.Metadata.ClearText(f)
}

// ClearNumber stages removal of a numeric field.
func (h *Handle) ClearNumber(f NumberField) error {
	if err := h.check(); err != nil {
		return err
	}
	return h.file.Metadata.ClearNumber(f)
}

// Dirty lists the fields written since Open.
func (h *Handle) Dirty() ([]Field, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return h.file.Metadata.Dirty().Fields(), nil
}

// Save renders a new buffer holding the original audio payload and the
// staged metadata. Without staged changes the result is a copy of the
// original bytes. On error nothing is returned and the staged state is
// unchanged, so the caller may adjust and retry.
func (h *Handle) Save() ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	writer := registry.GetWriter(h.file.Format)
	if writer == nil {
		return nil, &UnsupportedFormatError{Format: h.file.Format, Reason: "no writer registered"}
	}

	out, err := writer.Write(h.file, h.file.Metadata, h.opts.writeOptions())
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", h.file.Format, err)
	}
	h.opts.logger.Debug("saved",
		slog.String("format", h.file.Format.String()),
		slog.Any("dirty", h.file.Metadata.Dirty().Fields()),
		slog.Int("old_size", len(h.file.Data)),
		slog.Int("new_size", len(out)))
	return out, nil
}

// Warnings returns the non-fatal problems found while parsing.
func (h *Handle) Warnings() []Warning {
	if h.check() != nil {
		return nil
	}
	return append([]Warning(nil), h.file.Warnings...)
}

// Layout lists the structural units of the original buffer in file order:
// tag headers and frames, metadata blocks, chunks or boxes, and the audio
// payload.
func (h *Handle) Layout() ([]Region, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return append([]Region(nil), h.file.Layout...), nil
}

// Payload returns the spans of the original buffer that hold audio data.
func (h *Handle) Payload() ([]Span, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return append([]Span(nil), h.file.Payload...), nil
}

// Release drops the buffer and staged state. Every later call, including a
// second Release, fails with ErrReleased.
func (h *Handle) Release() error {
	if err := h.check(); err != nil {
		return err
	}
	h.released = true
	h.file = nil
	return nil
}
