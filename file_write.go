package audiotag

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// OpenFile reads the file at path into memory and opens it.
//
// The whole file is read; tag editing needs the audio payload to rebuild
// the container.
func OpenFile(path string, opts ...Option) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	h, err := Open(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// SaveFile renders the handle with Save and writes the result to path.
//
// The bytes go to a temporary file in the same directory, which is synced
// and then renamed over path. On failure the temporary file is removed and
// an existing file at path is left unchanged. A replaced file's permissions
// carry over to the new one.
//
//	err := h.SaveFile("song.mp3",
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
func (h *Handle) SaveFile(path string, opts ...SaveOption) error {
	out, err := h.Save()
	if err != nil {
		return err
	}
	return replaceFile(path, out, collectSaveOptions(opts), h.validate)
}

// WriteFile replaces the file at path with data the way SaveFile does. It
// is meant for bytes already rendered by Save or SaveMany.
//
// WithValidation only checks that data opens; comparing fields needs the
// handle, which SaveFile has.
func WriteFile(path string, data []byte, opts ...SaveOption) error {
	return replaceFile(path, data, collectSaveOptions(opts), func(out []byte) error {
		h, err := Open(out)
		if err != nil {
			return fmt.Errorf("re-open: %w", err)
		}
		return h.Release()
	})
}

func collectSaveOptions(opts []SaveOption) *saveOptions {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// replaceFile writes out to a temporary file next to path and renames it
// into place. check runs before the rename when validation is on.
func replaceFile(path string, out []byte, options *saveOptions, check func([]byte) error) error { //nolint:gocyclo // atomic replace is a fixed sequence of steps
	// An existing file lends its permissions and, optionally, its mod time
	var orig os.FileInfo
	if info, err := os.Stat(path); err == nil {
		orig = info
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tempFile.Write(out); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	mode := options.mode
	if orig != nil {
		mode = orig.Mode().Perm()
	}
	if err := tempFile.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.validate {
		if err := check(out); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	if options.backupSuffix != "" && orig != nil {
		if err := os.Rename(path, path+options.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if orig != nil && options.preserveModTime {
		_ = os.Chtimes(path, orig.ModTime(), orig.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}
	return nil
}

// validate re-opens rendered bytes and compares every field with the
// handle's staged state.
func (h *Handle) validate(out []byte) error {
	written, err := Open(out)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Release() //nolint:errcheck // first release of a live handle cannot fail

	want, got := h.file.Metadata, written.file.Metadata
	for _, f := range TextFields() {
		w, wok := want.Text(f)
		g, gok := got.Text(f)
		if w == "" {
			wok = false // empty text is not saved
		}
		if wok != gok || w != g && wok {
			return fmt.Errorf("%s mismatch: got %s, want %s", f, describe(strconv.Quote(g), gok), describe(strconv.Quote(w), wok))
		}
	}
	for _, f := range NumberFields() {
		w, wok := want.Number(f)
		g, gok := got.Number(f)
		if wok != gok || w != g {
			return fmt.Errorf("%s mismatch: got %s, want %s", f, describe(strconv.Itoa(g), gok), describe(strconv.Itoa(w), wok))
		}
	}
	if want.PictureCount() != got.PictureCount() {
		return fmt.Errorf("picture count mismatch: got %d, want %d", got.PictureCount(), want.PictureCount())
	}
	wantPics := want.Pictures()
	for i, p := range got.Pictures() {
		if !bytes.Equal(p.Data, wantPics[i].Data) {
			return fmt.Errorf("picture %d data mismatch", i)
		}
	}
	return nil
}

// describe renders a field value for mismatch errors; unset fields have no
// value to show.
func describe(v string, ok bool) string {
	if !ok {
		return "unset"
	}
	return v
}
