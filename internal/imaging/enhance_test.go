package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBar draws a horizontal bar of fg across the middle of a bg canvas.
func withBar(width, height int, bg, fg color.Color) *image.RGBA {
	img := solid(width, height, bg)
	for y := height/2 - 2; y < height/2+2; y++ {
		for x := 4; x < width-4; x++ {
			img.Set(x, y, fg)
		}
	}
	return img
}

func gray(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

func TestMeanLightness(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		lo   float64
		hi   float64
		dark bool
	}{
		{"White", solid(20, 20, color.White), 0.99, 1.0, false},
		{"Black", solid(20, 20, color.Black), 0.0, 0.01, true},
		{"Dark Theme", withBar(60, 20, color.RGBA{30, 30, 30, 255}, color.RGBA{220, 220, 220, 255}), 0.1, 0.45, true},
		{"Saturated Blue Is Dark", solid(20, 20, color.RGBA{0, 0, 255, 255}), 0.25, 0.35, true},
		{"Transparent", solid(20, 20, color.Transparent), 1.0, 1.0, false},
		{"Empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), 1.0, 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := MeanLightness(tt.img)
			assert.GreaterOrEqual(t, l, tt.lo)
			assert.LessOrEqual(t, l, tt.hi)
			assert.Equal(t, tt.dark, IsDark(tt.img))
		})
	}
}

func TestMeanLightness_SamplesLargeImages(t *testing.T) {
	img := solid(1200, 900, color.White)
	assert.InDelta(t, 1.0, MeanLightness(img), 0.01)
}

func TestMeanLightness_StaysInRange(t *testing.T) {
	assert.Equal(t, 0.0, MeanLightness(solid(8, 8, color.Black)), "pure black is exactly 0")
	assert.InDelta(t, 1.0, MeanLightness(solid(8, 8, color.White)), 1e-9)
}

func TestEnhance(t *testing.T) {
	t.Run("Light Image Is Only Grayscaled", func(t *testing.T) {
		src := withBar(100, 80, color.White, color.Black)
		out, report := Enhance(src, Options{MinHeight: 64, InvertDark: true})

		assert.False(t, report.Upscaled)
		assert.False(t, report.Inverted)
		assert.False(t, report.Binary)
		assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())
		assert.Equal(t, uint8(255), gray(out, 0, 0))
	})

	t.Run("Small Image Is Upscaled", func(t *testing.T) {
		src := withBar(50, 16, color.White, color.Black)
		out, report := Enhance(src, Options{MinHeight: 64})

		assert.True(t, report.Upscaled)
		assert.Equal(t, 64, out.Bounds().Dy())
		assert.Equal(t, 200, out.Bounds().Dx(), "aspect ratio is kept")
		assert.Equal(t, 64, report.Height)
	})

	t.Run("Dark Theme Is Inverted", func(t *testing.T) {
		src := withBar(100, 80, color.RGBA{20, 20, 20, 255}, color.White)
		out, report := Enhance(src, Options{InvertDark: true})

		assert.True(t, report.Inverted)
		assert.Greater(t, gray(out, 0, 0), uint8(200), "background becomes light")
		assert.Less(t, gray(out, 50, 40), uint8(50), "text becomes dark")
	})

	t.Run("Dark Theme Untouched Without InvertDark", func(t *testing.T) {
		src := withBar(100, 80, color.RGBA{20, 20, 20, 255}, color.White)
		_, report := Enhance(src, Options{})
		assert.False(t, report.Inverted)
	})

	t.Run("Threshold Binarizes", func(t *testing.T) {
		src := withBar(100, 80, color.RGBA{200, 200, 200, 255}, color.RGBA{90, 90, 90, 255})
		out, report := Enhance(src, Options{Threshold: 128})

		require.True(t, report.Binary)
		b := out.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				v := gray(out, x, y)
				if v != 0 && v != 255 {
					t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, v)
				}
			}
		}
	})

	t.Run("Source Is Not Modified", func(t *testing.T) {
		src := withBar(100, 80, color.Black, color.White)
		before := src.RGBAAt(0, 0)
		Enhance(src, Options{InvertDark: true, Threshold: 100})
		assert.Equal(t, before, src.RGBAAt(0, 0))
	})
}

func TestEnhanceFile(t *testing.T) {
	path := writePNG(t, withBar(40, 20, color.Black, color.White))

	data, report, err := EnhanceFile(path, Options{MinHeight: 40, InvertDark: true})
	require.NoError(t, err)
	assert.True(t, report.Upscaled)
	assert.True(t, report.Inverted)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	_, _, err = EnhanceFile("/nonexistent/path/image.png", Options{})
	assert.Error(t, err)
}
