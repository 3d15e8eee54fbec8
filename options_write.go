package audiotag

import "os"

// SaveOption configures how SaveFile replaces a file on disk.
//
//	err := h.SaveFile(path,
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

type saveOptions struct {
	backupSuffix    string      // rename target for the old file, "" for none
	mode            os.FileMode // for new files; existing files keep theirs
	validate        bool        // re-open rendered bytes before the rename
	preserveModTime bool        // copy the old mod time onto the new file
}

func defaultSaveOptions() *saveOptions {
	return &saveOptions{mode: 0o644}
}

// WithBackup keeps the replaced file as path+suffix, e.g. "song.flac.bak".
// An older backup with that name is overwritten. Nothing is backed up when
// path does not exist yet.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-opens the rendered bytes and compares every field and
// picture with the staged state before the file is replaced. On mismatch
// SaveFile fails and the file on disk is left as it was.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime gives the new file the modification time of the file
// it replaces, so tag edits do not look like content changes to sync tools.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithFileMode sets the permissions of a file SaveFile creates. A file that
// already exists keeps its own permissions. Default is 0644.
func WithFileMode(mode os.FileMode) SaveOption {
	return func(o *saveOptions) {
		o.mode = mode.Perm()
	}
}
