// Package errors provides structured error types for VaultClip.
// These errors carry what operation failed and which pipeline stage it
// belongs to, so the outermost boundary can turn them into short notices.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAnImage
	KindDecode
	KindRasterize
	KindClipboard
	KindFocusTimeout
	KindNotFound
	KindInvalid
	KindIO
	KindConfig
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotAnImage:
		return "not an image"
	case KindDecode:
		return "decode error"
	case KindRasterize:
		return "rasterize error"
	case KindClipboard:
		return "clipboard error"
	case KindFocusTimeout:
		return "focus timeout"
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for VaultClip.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Notice returns the short user-facing message for an error. Structured
// errors collapse to their kind plus context; anything else is passed
// through verbatim.
func Notice(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return e.Kind.String()
}

// Resolver errors
func NotAnImage(reason string) error {
	return E(Op("resolver.Resolve"), KindNotAnImage, reason)
}

func FileNotFound(name string) error {
	return E(Op("vault.FindFileByName"), KindNotAnImage, fmt.Sprintf("no vault file named %s", name))
}

// Normalizer errors
func DecodeFailed(mediaType string, err error) error {
	return E(Op("normalize.Raster"), KindDecode, fmt.Sprintf("cannot decode %s image", mediaType), err)
}

func RasterizeFailed(err error) error {
	return E(Op("normalize.Rasterize"), KindRasterize, "cannot rasterize SVG", err)
}

// Clipboard errors
func ClipboardInitFailed(err error) error {
	return E(Op("clipboard.Init"), KindClipboard, "clipboard unavailable", err)
}

func ClipboardWriteFailed(err error) error {
	return E(Op("clipboard.WriteImage"), KindClipboard, "clipboard write rejected", err)
}

// Dispatcher errors
func FocusTimeout() error {
	return E(Op("dispatch.waitForFocus"), KindFocusTimeout, "window did not regain focus")
}

// Fetch errors
func FetchFailed(source string, err error) error {
	return E(Op("vault.Fetch"), KindIO, fmt.Sprintf("failed to read %s", source), err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
