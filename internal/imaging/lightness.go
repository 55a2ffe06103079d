package imaging

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// maxLightnessSamples bounds the work MeanLightness does on large captures.
const maxLightnessSamples = 64 * 1024

// MeanLightness returns the average CIE L* lightness of img in [0, 1].
//
// L* tracks perceived brightness far better than an RGB average: a saturated
// blue background is dark to a reader (and to tesseract) even though its blue
// channel is at full intensity. Large images are sampled on a regular grid.
// Fully transparent pixels are skipped. An image with no opaque pixels
// reports 1 (treated as a light background).
func MeanLightness(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 1
	}

	step := 1
	for (w/step)*(h/step) > maxLightnessSamples {
		step++
	}

	var sum float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}

	if n == 0 {
		return 1
	}
	// Lab can drift just outside [0, 1] through float rounding.
	lightness := sum / float64(n)
	switch {
	case lightness < 0:
		return 0
	case lightness > 1:
		return 1
	}
	return lightness
}

// IsDark reports whether img has a dark background: mean lightness below 50%.
func IsDark(img image.Image) bool {
	return MeanLightness(img) < 0.5
}
