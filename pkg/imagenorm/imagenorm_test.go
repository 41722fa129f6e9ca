package imagenorm

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisyPNG builds a deterministic image that compresses poorly.
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// gradientPNG builds a smooth image that stays small as PNG at large sizes.
func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{800, 600, 800, 600},
		{1024, 1024, 1024, 1024},
		{2048, 1024, 1024, 512},
		{1000, 3000, 341, 1024},
		{5000, 1, 1024, 1},
	}
	for _, tt := range tests {
		gotW, gotH := FitDimensions(tt.w, tt.h, 1024)
		assert.Equal(t, tt.wantW, gotW, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, gotH, "%dx%d", tt.w, tt.h)
	}
}

func TestNormalizeDownscalesAndPreservesAspect(t *testing.T) {
	src := gradientPNG(t, 1600, 1200)
	require.Less(t, len(src), MaxSourceBytes)

	res, err := Normalize(src, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1024, res.Width)
	assert.Equal(t, 768, res.Height)
	assert.LessOrEqual(t, res.EstimatedBytes, DefaultBudget)
	assert.Equal(t, EstimateDataURLBytes(res.DataURL), res.EstimatedBytes)

	raw, err := DecodeDataURL(res.DataURL)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 768, cfg.Height)
}

func TestNormalizeStepsQualityDown(t *testing.T) {
	src := noisyPNG(t, 256, 256)

	first, err := Normalize(src, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 90, first.Quality)

	opts := DefaultOptions()
	opts.Budget = first.EstimatedBytes - 1
	res, err := Normalize(src, opts)
	require.NoError(t, err)

	assert.Less(t, res.Quality, 90)
	assert.GreaterOrEqual(t, res.Quality, opts.MinQuality)
	assert.LessOrEqual(t, res.EstimatedBytes, opts.Budget)
}

func TestNormalizeFailsAtQualityFloor(t *testing.T) {
	src := noisyPNG(t, 256, 256)
	opts := DefaultOptions()
	opts.Budget = 512

	res, err := Normalize(src, opts)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrOverBudget)
}

func TestNormalizeSourceSizeBoundary(t *testing.T) {
	_, err := Normalize(make([]byte, MaxSourceBytes), DefaultOptions())
	assert.NotErrorIs(t, err, ErrSourceTooLarge)
	assert.ErrorIs(t, err, ErrUndecodable)

	_, err = Normalize(make([]byte, MaxSourceBytes+1), DefaultOptions())
	assert.ErrorIs(t, err, ErrSourceTooLarge)
}

func TestNormalizePortraitKeepsAspect(t *testing.T) {
	res, err := Normalize(gradientPNG(t, 900, 2400), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 384, res.Width)
	assert.Equal(t, 1024, res.Height)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("not an image"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	src := noisyPNG(t, 300, 200)
	a, err := Normalize(src, DefaultOptions())
	require.NoError(t, err)
	b, err := Normalize(src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDataURLHelpers(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello world!"))
	url := "data:image/png;base64," + payload

	raw, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", string(raw))
	assert.Equal(t, 12, EstimateDataURLBytes(url))

	_, err = DecodeDataURL("https://example.com/a.png")
	assert.ErrorIs(t, err, ErrNotDataURL)
	_, err = NormalizeDataURL("data:image/png;base64,@@@", DefaultOptions())
	assert.ErrorIs(t, err, ErrNotDataURL)
}
