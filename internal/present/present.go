// Package present reports a finished run to the user: stdout, clipboard and
// desktop notifications.
package present

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/scope/internal/deps"
	"github.com/ironsheep/scope/internal/desktop"
	"github.com/ironsheep/scope/internal/pipeline"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// MsgNoSelection explains an aborted selection.
const MsgNoSelection = "No region was selected."

// Presenter renders a pipeline.Result.
type Presenter struct {
	Out       io.Writer
	Notifier  desktop.Notifier
	Clipboard desktop.Clipboard

	// JSON switches stdout to a single JSON document.
	JSON bool

	// Copy places delivered text on the clipboard. Placeholders are never
	// copied.
	Copy bool

	Log *slog.Logger
}

// Report is the JSON form of a run.
type Report struct {
	pipeline.Result
	Error  string `json:"error,omitempty"`
	Copied bool   `json:"copied"`
}

// Present reports res and returns the process exit code.
func (p *Presenter) Present(ctx context.Context, res pipeline.Result) int {
	report := Report{Result: res}
	if res.Err != nil {
		report.Error = res.Err.Error()
	}

	if res.Delivered() {
		if res.Reason == pipeline.OcrDegraded {
			p.Log.Warn("recognition degraded", "error", res.Err)
		}
		report.Copied = p.copy(ctx, res)
	} else {
		p.notifyAbort(ctx, res)
	}

	if err := p.write(report); err != nil {
		p.Log.Error("failed to write result", "error", err)
		return ExitFailed
	}
	return ExitCode(res)
}

func (p *Presenter) copy(ctx context.Context, res pipeline.Result) bool {
	if !p.Copy || res.Placeholder || p.Clipboard == nil {
		return false
	}
	if err := p.Clipboard.WriteAll(res.Text); err != nil {
		p.Log.Warn("clipboard copy failed", "error", err)
		p.Notifier.Notify(ctx, desktop.TitleCopyFailed, err.Error())
		return false
	}
	return true
}

func (p *Presenter) notifyAbort(ctx context.Context, res pipeline.Result) {
	switch res.Reason {
	case pipeline.DependencyMissing:
		p.Log.Error("missing tools", "missing", deps.Capabilities(res.Missing))
		p.Notifier.Notify(ctx, desktop.TitleMissingTools, deps.Describe(res.Missing))
	case pipeline.SelectionAborted:
		p.Log.Info("selection aborted", "error", res.Err)
		p.Notifier.Notify(ctx, desktop.TitleCaptureFailed, MsgNoSelection)
	default:
		p.Log.Error("capture failed", "reason", res.Reason, "error", res.Err)
		p.Notifier.Notify(ctx, desktop.TitleCaptureFailed, causeOf(res))
	}
}

func (p *Presenter) write(report Report) error {
	if p.JSON {
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if !report.Delivered() {
		return nil
	}
	_, err := fmt.Fprintln(p.Out, report.Text)
	return err
}

// causeOf returns the message behind a run's failure reason.
func causeOf(res pipeline.Result) string {
	if f := res.Failure(); f != nil && f.Err != nil {
		return f.Err.Error()
	}
	return string(res.Reason)
}

// ExitCode maps a run to the process exit code. Aborted selections and
// degraded deliveries exit cleanly.
func ExitCode(res pipeline.Result) int {
	if res.State == pipeline.Aborted && res.Reason.Fatal() {
		return ExitFailed
	}
	return ExitOK
}
