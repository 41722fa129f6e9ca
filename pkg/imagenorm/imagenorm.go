// Package imagenorm downsizes and recompresses member photos so that the
// encoded payload stays under a byte budget.
package imagenorm

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxSourceBytes is the hard limit on the file picked by the user.
	MaxSourceBytes = 5 * 1024 * 1024
	// DefaultBudget is the target for the encoded photo.
	DefaultBudget = 2 * 1024 * 1024
	DefaultMaxDim = 1024

	dataURLPrefix = "data:image/jpeg;base64,"
)

var (
	ErrSourceTooLarge = errors.New("image is larger than 5MB")
	ErrUndecodable    = errors.New("could not read image")
	ErrOverBudget     = errors.New("photo is too large even after compression")
	ErrNotDataURL     = errors.New("photo is not a base64 data URL")
)

// Options controls the resize and the quality ladder. Qualities are JPEG
// qualities in 1..100.
type Options struct {
	Budget       int
	MaxDim       int
	StartQuality int
	MinQuality   int
	Step         int
}

// DefaultOptions mirrors the browser form: 2MB, 1024px, quality 90 down to 30 by 10.
func DefaultOptions() Options {
	return Options{
		Budget:       DefaultBudget,
		MaxDim:       DefaultMaxDim,
		StartQuality: 90,
		MinQuality:   30,
		Step:         10,
	}
}

// Result is a normalized photo.
type Result struct {
	DataURL        string
	Width          int
	Height         int
	Quality        int
	EstimatedBytes int
}

// Normalize decodes src, fits it within MaxDim and re-encodes it as JPEG at
// the highest quality on the ladder whose estimated size fits Budget.
func Normalize(src []byte, opts Options) (*Result, error) {
	if len(src) > MaxSourceBytes {
		return nil, ErrSourceTooLarge
	}
	opts = withDefaults(opts)

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	w, h := FitDimensions(img.Bounds().Dx(), img.Bounds().Dy(), opts.MaxDim)
	var scaled image.Image = img
	if w != img.Bounds().Dx() || h != img.Bounds().Dy() {
		scaled = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	quality := opts.StartQuality
	encoded, err := encodeJPEG(scaled, quality)
	if err != nil {
		return nil, err
	}
	for EstimateBytes(encoded) > opts.Budget && quality > opts.MinQuality {
		quality -= opts.Step
		if quality < opts.MinQuality {
			quality = opts.MinQuality
		}
		if encoded, err = encodeJPEG(scaled, quality); err != nil {
			return nil, err
		}
	}

	size := EstimateBytes(encoded)
	if size > opts.Budget {
		return nil, ErrOverBudget
	}
	return &Result{
		DataURL:        dataURLPrefix + encoded,
		Width:          w,
		Height:         h,
		Quality:        quality,
		EstimatedBytes: size,
	}, nil
}

// NormalizeDataURL runs Normalize over the payload of a base64 data URL.
func NormalizeDataURL(dataURL string, opts Options) (*Result, error) {
	raw, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return Normalize(raw, opts)
}

// FitDimensions scales (w, h) down so the larger side equals maxDim,
// preserving aspect ratio. Smaller images are returned unchanged.
func FitDimensions(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	ratio := math.Min(float64(maxDim)/float64(w), float64(maxDim)/float64(h))
	nw := int(math.Round(float64(w) * ratio))
	nh := int(math.Round(float64(h) * ratio))
	return max(nw, 1), max(nh, 1)
}

// EstimateBytes approximates the decoded size of a base64 payload.
func EstimateBytes(b64 string) int {
	return int(math.Ceil(float64(len(b64)) * 3 / 4))
}

// EstimateDataURLBytes is EstimateBytes over the part after the comma.
func EstimateDataURLBytes(dataURL string) int {
	if i := strings.IndexByte(dataURL, ','); i >= 0 {
		return EstimateBytes(dataURL[i+1:])
	}
	return EstimateBytes(dataURL)
}

// DecodeDataURL returns the raw bytes of a "data:<mime>;base64,<payload>" string.
func DecodeDataURL(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	return raw, nil
}

func encodeJPEG(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func withDefaults(o Options) Options {
	d := DefaultOptions()
	if o.Budget <= 0 {
		o.Budget = d.Budget
	}
	if o.MaxDim <= 0 {
		o.MaxDim = d.MaxDim
	}
	if o.StartQuality <= 0 || o.StartQuality > 100 {
		o.StartQuality = d.StartQuality
	}
	if o.MinQuality <= 0 || o.MinQuality > o.StartQuality {
		o.MinQuality = min(d.MinQuality, o.StartQuality)
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	return o
}
