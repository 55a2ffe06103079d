package pipeline

import (
	"log/slog"

	"github.com/ironsheep/scope/internal/artifact"
	"github.com/ironsheep/scope/internal/capture"
	"github.com/ironsheep/scope/internal/config"
	"github.com/ironsheep/scope/internal/deps"
	"github.com/ironsheep/scope/internal/imaging"
	"github.com/ironsheep/scope/internal/ocr"
	"github.com/ironsheep/scope/internal/process"
	"github.com/ironsheep/scope/internal/region"
)

// FromConfig wires the real stages described by cfg.
func FromConfig(cfg *config.Config, runner process.Runner, prober process.Prober, store *artifact.Store, log *slog.Logger) (*Pipeline, error) {
	recognizer, err := ocr.NewRecognizer(cfg, runner)
	if err != nil {
		return nil, err
	}

	stages := Stages{
		Requirements: deps.Requirements(cfg.Tools),
		Prober:       prober,
		Selector:     region.NewSelector(runner, cfg.Tools.RegionSelect),
		Store:        store,
		Capturer:     capture.New(runner, cfg.Tools.Capture),
		Discoverer:   ocr.NewDiscoverer(runner, cfg.Tools.Recognize, cfg.OCR.FallbackLanguage, log),
		Recognizer:   recognizer,
	}
	if cfg.OCR.Enhance.Enabled {
		stages.Enhance = EnhanceWith(imaging.Options{
			MinHeight:  cfg.OCR.Enhance.MinHeight,
			InvertDark: cfg.OCR.Enhance.InvertDark,
			Threshold:  cfg.OCR.Enhance.Threshold,
		})
	}

	return New(stages,
		WithStepTimeout(cfg.StepTimeout),
		WithPlaceholder(cfg.OCR.Placeholder),
		WithLogger(log),
	), nil
}

// EnhanceWith adapts imaging.EnhanceFile to an EnhanceFunc.
func EnhanceWith(opts imaging.Options) EnhanceFunc {
	return func(path string) ([]byte, imaging.Report, error) {
		return imaging.EnhanceFile(path, opts)
	}
}
