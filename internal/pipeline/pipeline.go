// Package pipeline sequences one capture-to-text run.
//
// A run moves through a fixed state machine:
//
//	Idle -> CheckingDependencies -> SelectingRegion -> Capturing
//	     -> [Enhancing] -> Recognizing -> Delivered
//
// Dependency, selection and capture failures short-circuit to Aborted.
// Enhancement and recognition failures never abort; the run degrades and
// still reaches Delivered, with placeholder text if needed. Nothing is
// retried. The capture artifact is released before Run returns, whatever the
// terminal state.
//
// Stages run strictly one after another and each blocks on a single external
// process. Every non-interactive stage runs under the configured step
// timeout; region selection waits for the user indefinitely.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironsheep/scope/internal/artifact"
	"github.com/ironsheep/scope/internal/deps"
	"github.com/ironsheep/scope/internal/imaging"
	"github.com/ironsheep/scope/internal/ocr"
	"github.com/ironsheep/scope/internal/process"
	"github.com/ironsheep/scope/internal/region"
)

// Selector yields the region to capture.
type Selector interface {
	Select(ctx context.Context) (region.Region, error)
}

// Capturer renders a region into the artifact.
type Capturer interface {
	Capture(ctx context.Context, r region.Region, a *artifact.Artifact) error
}

// Discoverer lists OCR languages. It never fails.
type Discoverer interface {
	Discover(ctx context.Context) ocr.LanguageSet
}

// EnhanceFunc turns the artifact at path into OCR-ready PNG bytes.
type EnhanceFunc func(path string) ([]byte, imaging.Report, error)

// Stages are the collaborators a Pipeline drives.
type Stages struct {
	Requirements []deps.Requirement
	Prober       process.Prober
	Selector     Selector
	Store        *artifact.Store
	Capturer     Capturer
	Discoverer   Discoverer
	Recognizer   ocr.Recognizer

	// Enhance is optional; nil skips the Enhancing state.
	Enhance EnhanceFunc
}

// Pipeline runs the capture-to-text flow.
type Pipeline struct {
	stages      Stages
	stepTimeout time.Duration
	placeholder string
	log         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStepTimeout bounds each non-interactive stage. Zero means no limit.
func WithStepTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.stepTimeout = d
	}
}

// WithPlaceholder sets the text delivered when recognition yields nothing.
func WithPlaceholder(text string) Option {
	return func(p *Pipeline) {
		p.placeholder = text
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// DefaultPlaceholder is delivered when no text was recognized.
const DefaultPlaceholder = "No text found."

// New creates a Pipeline over stages.
func New(stages Stages, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages:      stages,
		placeholder: DefaultPlaceholder,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run tracks the state machine for one Run call.
type run struct {
	log    *slog.Logger
	state  State
	result Result
	start  time.Time
}

func (r *run) to(next State) {
	if !CanTransition(r.state, next) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", r.state, next))
	}
	r.log.Debug("pipeline transition", "from", r.state, "to", next)
	r.state = next
	r.result.Trace = append(r.result.Trace, next)
}

func (r *run) abort(reason Reason, err error) Result {
	r.to(Aborted)
	r.result.State = Aborted
	r.result.Reason = reason
	r.result.Err = &Failure{Reason: reason, Err: err}
	return r.result
}

// Run executes one pass of the pipeline and returns its terminal Result.
func (p *Pipeline) Run(ctx context.Context) Result {
	r := &run{
		log:    p.log,
		state:  Idle,
		result: Result{Trace: []State{Idle}},
		start:  time.Now(),
	}
	defer func() {
		p.log.Info("pipeline finished",
			"state", r.result.State,
			"reason", r.result.Reason,
			"elapsed", time.Since(r.start).Round(time.Millisecond))
	}()

	r.to(CheckingDependencies)
	if missing := deps.Check(p.stages.Requirements, p.stages.Prober); len(missing) > 0 {
		r.result.Missing = missing
		return r.abort(DependencyMissing, errors.New(deps.Describe(missing)))
	}

	r.to(SelectingRegion)
	sel, err := p.stages.Selector.Select(ctx)
	if err != nil {
		p.log.Info("no region selected", "error", err)
		return r.abort(SelectionAborted, err)
	}
	r.result.Region = &sel
	p.log.Debug("region selected", "region", sel.String())

	// No capture has started if the artifact cannot be claimed.
	a, err := p.stages.Store.Create()
	if err != nil {
		reason := CaptureFailed
		if errors.Is(err, artifact.ErrBusy) {
			reason = ArtifactBusy
		}
		return r.abort(reason, err)
	}
	defer func() {
		if err := a.Release(); err != nil {
			p.log.Warn("failed to release capture artifact", "path", a.Path(), "error", err)
		}
	}()

	r.to(Capturing)
	if err := p.step(ctx, func(ctx context.Context) error {
		return p.stages.Capturer.Capture(ctx, sel, a)
	}); err != nil {
		p.log.Warn("capture failed", "region", sel.String(), "error", err)
		return r.abort(CaptureFailed, err)
	}
	if info, err := imaging.Inspect(a.Path()); err == nil {
		p.log.Debug("captured",
			"format", info.Format, "width", info.Width, "height", info.Height,
			"alpha", info.HasAlpha, "bytes", info.FileSizeBytes)
	}

	input := ocr.Input{Path: a.Path()}
	if p.stages.Enhance != nil {
		r.to(Enhancing)
		data, report, err := p.stages.Enhance(a.Path())
		if err != nil {
			p.log.Warn("enhancement failed, recognizing raw capture", "error", err)
		} else {
			input.PNG = data
			r.result.Enhanced = true
			p.log.Debug("enhanced capture",
				"width", report.Width, "height", report.Height,
				"upscaled", report.Upscaled, "inverted", report.Inverted, "binary", report.Binary)
		}
	}

	r.to(Recognizing)
	var langs ocr.LanguageSet
	_ = p.step(ctx, func(ctx context.Context) error {
		langs = p.stages.Discoverer.Discover(ctx)
		return nil
	})
	r.result.Languages = langs.Codes()

	var text string
	err = p.step(ctx, func(ctx context.Context) error {
		var err error
		text, err = p.stages.Recognizer.Recognize(ctx, input, langs)
		return err
	})
	switch {
	case err != nil:
		p.log.Warn("recognition failed, delivering placeholder", "error", err)
		r.result.Recognition = TextFailed
		r.result.Reason = OcrDegraded
		r.result.Err = &Failure{Reason: OcrDegraded, Err: err}
		r.result.Text = p.placeholder
		r.result.Placeholder = true
	case text == "":
		r.result.Recognition = TextEmpty
		r.result.Text = p.placeholder
		r.result.Placeholder = true
	default:
		r.result.Recognition = TextFound
		r.result.Text = text
	}

	r.to(Delivered)
	r.result.State = Delivered
	return r.result
}

// step runs fn under the step timeout.
func (p *Pipeline) step(ctx context.Context, fn func(context.Context) error) error {
	if p.stepTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()
	return fn(ctx)
}
