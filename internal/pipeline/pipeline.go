// Package pipeline runs the copy flow every gesture converges on:
// fetch bytes from the resolved source, normalize to PNG, write to the
// system clipboard. Errors stop here: each invocation's failure becomes
// one short user notice and nothing else.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/rfenwick/vaultclip/internal/clipboard"
	"github.com/rfenwick/vaultclip/internal/config"
	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/normalize"
	"github.com/rfenwick/vaultclip/internal/notification"
	"github.com/rfenwick/vaultclip/internal/resolver"
)

// Fetcher reads the raw bytes behind an image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref *resolver.ImageRef) (normalize.ImageBytes, error)
}

// Copier composes the pipeline stages. At most one reference is in flight
// per Run call; overlapping invocations run independently and the last
// clipboard write wins.
type Copier struct {
	fetcher    Fetcher
	scale      func() int
	write      func([]byte) error
	notifyOK   func() error
	notifyFail func(string) error
}

// New creates a Copier wired to the real clipboard and notifier.
func New(f Fetcher, cfg *config.Config) *Copier {
	return &Copier{
		fetcher:    f,
		scale:      cfg.Scale,
		write:      clipboard.WriteImage,
		notifyOK:   notification.Copied,
		notifyFail: notification.Failed,
	}
}

// NewWithSinks creates a Copier with explicit write and notify sinks (for testing).
func NewWithSinks(f Fetcher, scale func() int, write func([]byte) error, notifyOK func() error, notifyFail func(string) error) *Copier {
	return &Copier{
		fetcher:    f,
		scale:      scale,
		write:      write,
		notifyOK:   notifyOK,
		notifyFail: notifyFail,
	}
}

// Run executes the full pipeline for one reference. A failure at any stage
// aborts the invocation with a user notice and no partial clipboard write.
// The returned error carries the structured kind for callers that need it.
func (c *Copier) Run(ctx context.Context, ref *resolver.ImageRef) error {
	id := uuid.New().String()[:8]
	logger.Log("Pipeline[%s]: Copying %s (%s)", id, ref.Source(), ref.Kind)

	img, err := c.fetcher.Fetch(ctx, ref)
	if err != nil {
		return c.fail(id, err)
	}

	png, err := normalize.Normalize(img, c.scale())
	if err != nil {
		return c.fail(id, err)
	}

	if err := c.write(png); err != nil {
		return c.fail(id, err)
	}

	logger.Log("Pipeline[%s]: Wrote %d PNG bytes to clipboard", id, len(png))
	if err := c.notifyOK(); err != nil {
		// A notice failure never fails a completed copy.
		logger.Warn("Pipeline[%s]: Success notification failed: %v", id, err)
	}
	return nil
}

func (c *Copier) fail(id string, err error) error {
	logger.Error("Pipeline[%s]: %v", id, err)
	if nerr := c.notifyFail(errors.Notice(err)); nerr != nil {
		logger.Warn("Pipeline[%s]: Failure notification failed: %v", id, nerr)
	}
	return err
}
