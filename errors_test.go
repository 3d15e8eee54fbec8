package audiotag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unsupported", &UnsupportedFormatError{Reason: "no known signature"}, ErrUnsupportedFormat},
		{"corrupt", &CorruptHeaderError{Format: FormatFLAC, Reason: "bad block"}, ErrCorruptHeader},
		{"validation", &ValidationError{Field: "Track", Value: -1, Reason: "negative"}, ErrValidation},
		{"overflow", &EncodingOverflowError{Format: FormatWAV, What: "RIFF size", Size: 1 << 33, Limit: 1<<32 - 1}, ErrEncodingOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.want)
			}
		})
	}
}

func TestCorruptHeaderError_Cause(t *testing.T) {
	cause := errors.New("short read")
	err := error(&CorruptHeaderError{Format: FormatMP4, Offset: 32, Reason: "truncated atom", Err: cause})

	if !errors.Is(err, ErrCorruptHeader) || !errors.Is(err, cause) {
		t.Error("CorruptHeaderError should match both the sentinel and its cause")
	}
	if msg := err.Error(); !strings.Contains(msg, "offset 32") || !strings.Contains(msg, "short read") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestOpen_CorruptHeaderOffset(t *testing.T) {
	data := []byte("fLaC\x80\x00\x00\x22") // STREAMINFO header with no body

	_, err := Open(data)
	var che *CorruptHeaderError
	if !errors.As(err, &che) {
		t.Fatalf("expected CorruptHeaderError, got %T: %v", err, err)
	}
	if che.Format != FormatFLAC || che.Offset != 4 {
		t.Errorf("got format %v offset %d, want FLAC at 4", che.Format, che.Offset)
	}
}

func TestValidationError_Message(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{Field: "Year", Value: 10000, Reason: "exceeds 9999"}, "invalid Year 10000: exceeds 9999"},
		{&ValidationError{Field: "picture", Reason: "missing MIME type"}, "invalid picture: missing MIME type"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestReleasedHandle(t *testing.T) {
	var h *Handle
	if _, _, err := h.ReadText(Title); !errors.Is(err, ErrReleased) {
		t.Errorf("nil handle: expected ErrReleased, got %v", err)
	}
	if h.Format() != FormatUnknown {
		t.Error("nil handle should report FormatUnknown")
	}
}

func TestValidate_PresenceMismatch(t *testing.T) {
	data := append([]byte("fLaC\x80\x00\x00\x22"), make([]byte, 34)...)
	h, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	_ = h.WriteNumber(Track, 0)

	err = h.validate(data)
	if err == nil || err.Error() != "track mismatch: got unset, want 0" {
		t.Errorf("validate() = %v", err)
	}

	_ = h.ClearNumber(Track)
	_ = h.WriteText(Title, "x")
	err = h.validate(data)
	if err == nil || err.Error() != `title mismatch: got unset, want "x"` {
		t.Errorf("validate() = %v", err)
	}
}
