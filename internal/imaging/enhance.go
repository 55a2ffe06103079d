package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Options controls Enhance.
type Options struct {
	// MinHeight upscales images shorter than this, keeping the aspect ratio.
	// Zero disables upscaling.
	MinHeight int

	// InvertDark inverts images whose mean lightness is below 50%.
	InvertDark bool

	// Threshold binarizes at this gray level. Zero disables binarization.
	Threshold uint8
}

// Report describes what Enhance did, for logging.
type Report struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Upscaled bool `json:"upscaled"`
	Inverted bool `json:"inverted"`
	Binary   bool `json:"binary"`
}

// Enhance returns a copy of img prepared for OCR. See the package doc for the
// order of operations.
func Enhance(img image.Image, opts Options) (image.Image, Report) {
	var report Report
	var out image.Image = imaging.Grayscale(img)

	if h := out.Bounds().Dy(); opts.MinHeight > 0 && h > 0 && h < opts.MinHeight {
		out = imaging.Resize(out, 0, opts.MinHeight, imaging.Lanczos)
		report.Upscaled = true
	}

	if opts.InvertDark && IsDark(out) {
		out = effect.Invert(out)
		report.Inverted = true
	}

	if opts.Threshold > 0 {
		out = segment.Threshold(out, opts.Threshold)
		report.Binary = true
	}

	report.Width = out.Bounds().Dx()
	report.Height = out.Bounds().Dy()
	return out, report
}

// EnhanceFile loads the image at path, enhances it and returns it as PNG.
func EnhanceFile(path string, opts Options) ([]byte, Report, error) {
	img, err := Load(path)
	if err != nil {
		return nil, Report{}, err
	}

	out, report := Enhance(img, opts)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, Report{}, fmt.Errorf("failed to encode enhanced image: %w", err)
	}
	return buf.Bytes(), report, nil
}
