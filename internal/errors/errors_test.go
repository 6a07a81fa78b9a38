package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown error"},
		{KindNotAnImage, "not an image"},
		{KindDecode, "decode error"},
		{KindRasterize, "rasterize error"},
		{KindClipboard, "clipboard error"},
		{KindFocusTimeout, "focus timeout"},
		{KindNotFound, "not found"},
		{KindInvalid, "invalid"},
		{KindIO, "I/O error"},
		{KindConfig, "configuration error"},
		{KindTimeout, "timeout"},
		{Kind(999), "unknown error"}, // Unknown kind
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with op and context",
			err:      &Error{Op: "test.Op", Context: "some context", Err: errors.New("underlying error")},
			expected: "test.Op: some context: underlying error",
		},
		{
			name:     "with op only",
			err:      &Error{Op: "test.Op", Err: errors.New("underlying error")},
			expected: "test.Op: underlying error",
		},
		{
			name:     "without op",
			err:      &Error{Err: errors.New("underlying error")},
			expected: "underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{Op: "test.Op", Err: underlying}

	if got := err.Unwrap(); got != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", got, underlying)
	}
}

func TestE(t *testing.T) {
	tests := []struct {
		name       string
		args       []interface{}
		wantOp     Op
		wantKind   Kind
		wantHasErr bool
	}{
		{
			name:       "with all args",
			args:       []interface{}{Op("test.Op"), KindNotFound, "context", errors.New("error")},
			wantOp:     "test.Op",
			wantKind:   KindNotFound,
			wantHasErr: true,
		},
		{
			name:       "with op and kind",
			args:       []interface{}{Op("test.Op"), KindInvalid, "just a message"},
			wantOp:     "test.Op",
			wantKind:   KindInvalid,
			wantHasErr: true, // Context becomes the error when no error is provided
		},
		{
			name:       "with just error",
			args:       []interface{}{errors.New("simple error")},
			wantOp:     "",
			wantKind:   KindUnknown,
			wantHasErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := E(tt.args...)
			e, ok := err.(*Error)
			if !ok {
				t.Fatalf("E() returned %T, want *Error", err)
			}

			if e.Op != tt.wantOp {
				t.Errorf("E().Op = %q, want %q", e.Op, tt.wantOp)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("E().Kind = %v, want %v", e.Kind, tt.wantKind)
			}
			if (e.Err != nil) != tt.wantHasErr {
				t.Errorf("E().Err nil = %v, want nil = %v", e.Err == nil, !tt.wantHasErr)
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "matching kind",
			err:      E(Op("test"), KindNotAnImage, "unsupported extension"),
			kind:     KindNotAnImage,
			expected: true,
		},
		{
			name:     "non-matching kind",
			err:      E(Op("test"), KindNotAnImage, "unsupported extension"),
			kind:     KindDecode,
			expected: false,
		},
		{
			name:     "unstructured error",
			err:      errors.New("regular error"),
			kind:     KindNotFound,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			kind:     KindNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("wrapped: %w", E(Op("test"), KindFocusTimeout, "focus")),
			kind:     KindFocusTimeout,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.kind); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{
			name:     "structured error",
			err:      E(Op("test"), KindRasterize, "bad svg"),
			expected: KindRasterize,
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			expected: KindUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetKind(tt.err); got != tt.expected {
				t.Errorf("GetKind() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNotice(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "structured with context",
			err:      E(Op("resolver.Resolve"), KindNotAnImage, "unsupported extension .webp"),
			expected: "not an image: unsupported extension .webp",
		},
		{
			name:     "structured without context",
			err:      E(Op("dispatch.waitForFocus"), KindFocusTimeout, errors.New("gave up")),
			expected: "focus timeout",
		},
		{
			name:     "unstructured",
			err:      errors.New("plain failure"),
			expected: "plain failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notice(tt.err); got != tt.expected {
				t.Errorf("Notice() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNotAnImage(t *testing.T) {
	err := NotAnImage("no embed on line")

	if !Is(err, KindNotAnImage) {
		t.Error("NotAnImage should return KindNotAnImage error")
	}

	if e, ok := err.(*Error); ok {
		if e.Op != "resolver.Resolve" {
			t.Errorf("Op = %q, want %q", e.Op, "resolver.Resolve")
		}
	} else {
		t.Error("NotAnImage should return *Error")
	}
}

func TestFileNotFound(t *testing.T) {
	err := FileNotFound("diagram.png")

	if !Is(err, KindNotAnImage) {
		t.Error("FileNotFound should resolve to KindNotAnImage")
	}
}

func TestDecodeFailed(t *testing.T) {
	underlying := errors.New("unknown format")
	err := DecodeFailed("image/bmp", underlying)

	if !Is(err, KindDecode) {
		t.Error("DecodeFailed should return KindDecode error")
	}

	if !errors.Is(err, underlying) {
		t.Error("DecodeFailed should wrap the underlying error")
	}
}

func TestRasterizeFailed(t *testing.T) {
	underlying := errors.New("bad xml")
	err := RasterizeFailed(underlying)

	if !Is(err, KindRasterize) {
		t.Error("RasterizeFailed should return KindRasterize error")
	}
}

func TestClipboardWriteFailed(t *testing.T) {
	underlying := errors.New("permission denied")
	err := ClipboardWriteFailed(underlying)

	if !Is(err, KindClipboard) {
		t.Error("ClipboardWriteFailed should return KindClipboard error")
	}
}

func TestFocusTimeout(t *testing.T) {
	err := FocusTimeout()

	if !Is(err, KindFocusTimeout) {
		t.Error("FocusTimeout should return KindFocusTimeout error")
	}
}

func TestFetchFailed(t *testing.T) {
	underlying := errors.New("no such file")
	err := FetchFailed("attachments/a.png", underlying)

	if !Is(err, KindIO) {
		t.Error("FetchFailed should return KindIO error")
	}
}

func TestConfigLoadFailed(t *testing.T) {
	underlying := errors.New("file not found")
	err := ConfigLoadFailed("/path/to/config", underlying)

	if !Is(err, KindConfig) {
		t.Error("ConfigLoadFailed should return KindConfig error")
	}
}

func TestConfigSaveFailed(t *testing.T) {
	underlying := errors.New("permission denied")
	err := ConfigSaveFailed("/path/to/config", underlying)

	if !Is(err, KindConfig) {
		t.Error("ConfigSaveFailed should return KindConfig error")
	}
}

func TestConfigInvalid(t *testing.T) {
	err := ConfigInvalid("scale out of range")

	if !Is(err, KindInvalid) {
		t.Error("ConfigInvalid should return KindInvalid error")
	}
}

func TestErrorChaining(t *testing.T) {
	// Test that errors can be properly chained and unwrapped
	innerErr := errors.New("original error")
	middleErr := E(Op("middle.Op"), KindIO, innerErr)
	outerErr := E(Op("outer.Op"), KindConfig, middleErr)

	// Should be able to unwrap to find inner error
	if !errors.Is(outerErr, innerErr) {
		t.Error("Should be able to find inner error through chain")
	}

	// Kind should be from the outer error
	if GetKind(outerErr) != KindConfig {
		t.Error("GetKind should return outer error's kind")
	}
}
