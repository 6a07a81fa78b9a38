// Package dispatch binds platform input gestures to the copy pipeline.
// One Dispatcher instance lives for the whole process lifetime and is the
// only owner of the gesture-tracking state: the currently targeted image
// (desktop context menus) and the touch-start timestamp (long press).
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/resolver"
)

const (
	// longPressDelay is how long a touch must rest on an image before it
	// counts as a long press.
	longPressDelay = 1000 * time.Millisecond
	// focusPollInterval and focusPollTimeout bound the focus wait before
	// a menu-invoked clipboard write. Clipboard writes require window
	// focus on this platform.
	focusPollInterval = 50 * time.Millisecond
	focusPollTimeout  = 2 * time.Second
)

// Regime selects the input binding, chosen once at startup per platform.
type Regime int

const (
	// RegimeDesktop listens for context-menu events.
	RegimeDesktop Regime = iota
	// RegimeTouch listens for touch long presses.
	RegimeTouch
)

// Runner is the pipeline entry point every regime converges on.
type Runner interface {
	Run(ctx context.Context, ref *resolver.ImageRef) error
}

// Host is the window surface the desktop regime needs for focus handling.
type Host interface {
	HasFocus() bool
	// RequestFocus asks the platform to bring the host window forward,
	// typically via an open-URL affordance.
	RequestFocus() error
}

// ContextMenuEvent is a context-menu-open event. Target is nil when the
// event fired over something that is not an image element.
type ContextMenuEvent struct {
	Target *resolver.Element
}

// TouchEvent is a touch-start or touch-move over the editing surface.
// Target is nil when the touch is not over an image element.
type TouchEvent struct {
	Target *resolver.Element
	Time   time.Time
}

// MenuItem is an entry contributed to the host's context menu.
type MenuItem struct {
	Title string
	Run   func(ctx context.Context) error
}

// Dispatcher routes gestures to the pipeline. All mutable gesture state
// lives here and nowhere else.
type Dispatcher struct {
	regime Regime
	runner Runner
	host   Host

	mu          sync.Mutex
	targetImage *resolver.Element // desktop: last context-menu image target
	touchTime   time.Time         // touch: long-press start, zero = cancelled

	// Injection points for tests.
	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer
	sleep     func(d time.Duration)
}

// New creates a Dispatcher for the given regime.
func New(regime Regime, runner Runner, host Host) *Dispatcher {
	return &Dispatcher{
		regime:    regime,
		runner:    runner,
		host:      host,
		now:       time.Now,
		afterFunc: time.AfterFunc,
		sleep:     time.Sleep,
	}
}

// SetClock replaces the time sources. Used by tests.
func (d *Dispatcher) SetClock(now func() time.Time, afterFunc func(time.Duration, func()) *time.Timer, sleep func(time.Duration)) {
	d.now = now
	d.afterFunc = afterFunc
	d.sleep = sleep
}

// Regime returns the input regime selected at startup.
func (d *Dispatcher) Regime() Regime {
	return d.regime
}

// HandleContextMenu observes a context-menu-open event (capturing phase:
// it sees the event before the host's own handling). An image target is
// recorded; any other target clears the previous one.
func (d *Dispatcher) HandleContextMenu(ev ContextMenuEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ev.Target != nil {
		d.targetImage = ev.Target
		logger.Log("Dispatch: Targeted image %s", ev.Target.SourceURL)
		return
	}
	if d.targetImage != nil {
		logger.Log("Dispatch: Cleared targeted image")
	}
	d.targetImage = nil
}

// TargetImage returns the currently targeted image, or nil.
func (d *Dispatcher) TargetImage() *resolver.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.targetImage
}

// MenuItems returns the entries this dispatcher contributes to the host's
// editing-surface context menu. Empty when no image is targeted.
func (d *Dispatcher) MenuItems() []MenuItem {
	target := d.TargetImage()
	if target == nil {
		return nil
	}

	el := *target
	return []MenuItem{{
		Title: "Copy image to clipboard",
		Run: func(ctx context.Context) error {
			return d.copyElement(ctx, el)
		},
	}}
}

// copyElement ensures the host window is focused, then runs the pipeline
// with the element as target.
func (d *Dispatcher) copyElement(ctx context.Context, el resolver.Element) error {
	if err := d.waitForFocus(); err != nil {
		return err
	}
	return d.runner.Run(ctx, resolver.FromElement(el))
}

// waitForFocus brings the host window forward and polls focus state in
// 50ms increments for up to 2 seconds. No external cancellation: the poll
// simply times out and fails.
func (d *Dispatcher) waitForFocus() error {
	if d.host == nil || d.host.HasFocus() {
		return nil
	}

	if err := d.host.RequestFocus(); err != nil {
		logger.Warn("Dispatch: Focus request failed: %v", err)
	}

	deadline := d.now().Add(focusPollTimeout)
	for d.now().Before(deadline) {
		if d.host.HasFocus() {
			return nil
		}
		d.sleep(focusPollInterval)
	}
	return errors.FocusTimeout()
}

// HandleTouchStart records the touch timestamp and schedules the
// long-press check. Touches outside an image element reset the tracker.
func (d *Dispatcher) HandleTouchStart(ctx context.Context, ev TouchEvent) {
	d.mu.Lock()
	if ev.Target == nil {
		d.touchTime = time.Time{}
		d.mu.Unlock()
		return
	}

	started := ev.Time
	if started.IsZero() {
		started = d.now()
	}
	d.touchTime = started
	el := *ev.Target
	d.mu.Unlock()

	d.afterFunc(longPressDelay, func() {
		d.mu.Lock()
		fired := d.touchTime.Equal(started) && !d.touchTime.IsZero()
		if fired {
			// One-shot: consume the tracker before running.
			d.touchTime = time.Time{}
		}
		d.mu.Unlock()

		if !fired {
			logger.Log("Dispatch: Long press suppressed by touch move")
			return
		}
		logger.Log("Dispatch: Long press on %s", el.SourceURL)
		// Pipeline errors surface as notices inside the runner.
		_ = d.runner.Run(ctx, resolver.FromElement(el))
	})
}

// HandleTouchMove cancels a pending long press: a move over an image
// signals a drag or scroll, not a press. The timestamp reset is what the
// scheduled check observes.
func (d *Dispatcher) HandleTouchMove(ev TouchEvent) {
	if ev.Target == nil {
		return
	}
	d.mu.Lock()
	d.touchTime = time.Time{}
	d.mu.Unlock()
}

// TouchTime returns the pending long-press timestamp (zero when none).
func (d *Dispatcher) TouchTime() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touchTime
}

// CopyFromLine is the command regime: resolve the editor's current line
// against the file index and run the pipeline with the result.
func (d *Dispatcher) CopyFromLine(ctx context.Context, line string, idx resolver.FileIndex) error {
	ref, err := resolver.ResolveLine(line, idx)
	if err != nil {
		return err
	}
	return d.runner.Run(ctx, ref)
}
