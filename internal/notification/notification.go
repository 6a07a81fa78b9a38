// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/rfenwick/vaultclip/internal/logger"
)

// notifierFunc is the function used to deliver notifications.
// It matches beeep.Notify and can be swapped for testing.
type notifierFunc func(title, message string, icon any) error

var notifier notifierFunc = beeep.Notify

// SetNotifier replaces the notification delivery function. Used by tests.
func SetNotifier(fn notifierFunc) {
	notifier = fn
}

// ResetNotifier restores the default beeep-backed notifier.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	logger.Log("Notification: Sending notification - title=%q, message=%q", title, message)
	// Use empty string for icon - beeep handles platform defaults
	err := notifier(title, message, "")
	if err != nil {
		logger.Log("Notification: Failed to send notification: %v", err)
	}
	return err
}

// Copied sends the success notice after a clipboard write.
func Copied() error {
	return Send("VaultClip", "Image copied to clipboard")
}

// Failed sends a short failure notice for a pipeline error.
func Failed(reason string) error {
	return Send("VaultClip", "Copy failed: "+reason)
}
