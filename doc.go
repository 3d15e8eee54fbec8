// Package audiotag reads and rewrites the tags of audio files held in memory.
//
// It detects the container (MP3, FLAC, WAV, MP4 family), parses its native
// tag records into one field model, lets callers stage changes, and renders
// a new buffer. Audio payload bytes pass through unchanged; only the tag
// region and the container size fields that depend on it are rewritten.
//
// # Quick Start
//
//	data, err := os.ReadFile("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	h, err := audiotag.Open(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer h.Release()
//
//	title, _, _ := h.ReadText(audiotag.Title)
//	ms, _, _ := h.Property(audiotag.Duration)
//	fmt.Printf("%s (%d ms)\n", title, ms)
//
//	_ = h.WriteText(audiotag.Title, "New Title")
//	_ = h.WriteNumber(audiotag.Track, 3)
//	out, err := h.Save()
//
// # Supported Formats
//
//   - MP3: ID3v2.3 and ID3v2.4 tags, MPEG frame scan with Xing/Info/VBRI headers
//   - FLAC: Vorbis comments and PICTURE blocks
//   - WAV: LIST/INFO chunks and embedded "id3 " chunks
//   - MP4 (M4A, M4B): iTunes ilst items under moov/udta/meta
//
// # Fields
//
// Text fields (Title, Artist, Album, AlbumArtist, Genre, Comment, Composer,
// Lyricist, Copyright, Lyrics, TrackReplayGain, AlbumReplayGain) and numeric
// fields (Year, Track, TrackTotal, Disc, DiscTotal, Rate) are distinct types,
// so a string cannot be written to a numeric field. Audio properties (BitRate,
// BitDepth, Channels, Duration, SampleRate) are read-only.
//
// Native records the model does not know, such as private ID3 frames or
// unrelated MP4 items, are kept byte for byte on save.
//
// # Error Handling
//
// Errors unwrap to sentinels for errors.Is:
//
//   - ErrUnsupportedFormat: no container matched (Open)
//   - ErrCorruptHeader: inconsistent structure (Open)
//   - ErrValidation: a setter rejected a value; nothing was staged
//   - ErrEncodingOverflow: a value does not fit its native field (Save)
//   - ErrReleased: the handle was released
//
// Recoverable problems found while parsing are kept as warnings:
//
//	for _, w := range h.Warnings() {
//		log.Printf("warning: %s", w)
//	}
//
// # Concurrency
//
// A Handle is not safe for concurrent use. Independent handles share no
// state; SaveMany processes many buffers in parallel.
package audiotag
