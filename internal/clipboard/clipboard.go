// Package clipboard places PNG image payloads on the system clipboard.
package clipboard

import (
	"bytes"
	"fmt"

	"golang.design/x/clipboard"

	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
)

// pngSignature is the 8-byte header every PNG stream starts with.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// initialized tracks whether the clipboard has been initialized
var initialized bool

// initFn and writeFn wrap the golang.design clipboard calls so tests can
// swap them without touching a real clipboard.
var (
	initFn  = clipboard.Init
	writeFn = func(data []byte) {
		clipboard.Write(clipboard.FmtImage, data)
	}
)

// SetBackend replaces the clipboard init and write functions. Used by tests.
func SetBackend(init func() error, write func([]byte)) {
	initFn = init
	writeFn = write
	initialized = false
}

// ResetBackend restores the real clipboard backend.
func ResetBackend() {
	initFn = clipboard.Init
	writeFn = func(data []byte) {
		clipboard.Write(clipboard.FmtImage, data)
	}
	initialized = false
}

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times.
func Init() error {
	if initialized {
		return nil
	}

	if err := initFn(); err != nil {
		logger.Log("Clipboard: Failed to initialize: %v", err)
		return errors.ClipboardInitFailed(err)
	}

	initialized = true
	logger.Log("Clipboard: Initialized successfully")
	return nil
}

// WriteImage writes a PNG-encoded buffer to the system clipboard as an
// image payload. The write is terminal and non-idempotent: calling it
// twice overwrites the clipboard twice.
func WriteImage(png []byte) error {
	if !initialized {
		if err := Init(); err != nil {
			return err
		}
	}

	if len(png) < len(pngSignature) || !bytes.Equal(png[:len(pngSignature)], pngSignature) {
		return errors.ClipboardWriteFailed(fmt.Errorf("payload is not PNG-encoded"))
	}

	writeFn(png)
	logger.Log("Clipboard: Wrote %d bytes of PNG data", len(png))
	return nil
}
