// Package desktop exposes the desktop notification and clipboard
// capabilities used to report a run's outcome.
package desktop

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/atotto/clipboard"

	"github.com/ironsheep/scope/internal/process"
)

// Notification titles.
const (
	TitleMissingTools  = "MISSING TOOLS"
	TitleCaptureFailed = "UNABLE TO TAKE SCREENSHOT"
	TitleCopyFailed    = "UNABLE TO COPY TEXT TO CLIPBOARD"
)

// NotifyDuration is how long a notification stays on screen.
const NotifyDuration = 3 * time.Second

// Notifier shows a desktop notification. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

// SendNotifier notifies through notify-send.
type SendNotifier struct {
	runner  process.Runner
	binary  string
	appName string
	timeout time.Duration
	log     *slog.Logger
}

// NewSendNotifier creates a SendNotifier. A zero timeout leaves the call
// bounded only by ctx.
func NewSendNotifier(runner process.Runner, binary, appName string, timeout time.Duration, log *slog.Logger) *SendNotifier {
	return &SendNotifier{
		runner:  runner,
		binary:  binary,
		appName: appName,
		timeout: timeout,
		log:     log,
	}
}

// Command returns the notify-send invocation for title and message.
func (n *SendNotifier) Command(title, message string) process.Command {
	return process.Command{
		Name: n.binary,
		Args: []string{
			"-a", n.appName,
			"-t", strconv.FormatInt(NotifyDuration.Milliseconds(), 10),
			title, message,
		},
	}
}

// Notify implements Notifier. Failures are logged and dropped.
func (n *SendNotifier) Notify(ctx context.Context, title, message string) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	res, err := n.runner.Run(ctx, n.Command(title, message))
	switch {
	case err != nil:
		n.log.Warn("notification not shown", "title", title, "error", err)
	case !res.Success():
		n.log.Warn("notification not shown", "title", title, "exit_code", res.ExitCode, "stderr", string(res.Stderr))
	}
}

// Clipboard receives delivered text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the system clipboard through xclip, xsel or
// wl-copy, whichever is installed.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
