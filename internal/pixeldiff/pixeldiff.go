// Package pixeldiff adapts github.com/orisano/pixelmatch to keyframe.Differ.
// Colour distance is measured in YIQ space and pixels that look like
// anti-aliasing on an edge are not counted.
package pixeldiff

import (
	"errors"
	"fmt"
	"image"

	"github.com/orisano/pixelmatch"
)

var ErrSizeMismatch = errors.New("image sizes do not match")

// Differ implements keyframe.Differ.
type Differ struct {
	// IncludeAA counts anti-aliased pixels as differences.
	IncludeAA bool
}

// Diff returns how many pixels of a and b differ by more than threshold
// (0 strictest, 1 most lenient).
func (d Differ) Diff(a, b *image.NRGBA, threshold float64) (int, error) {
	if a == nil || b == nil {
		return 0, errors.New("nil image")
	}
	if a.Bounds().Size() != b.Bounds().Size() {
		return 0, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, a.Bounds().Size(), b.Bounds().Size())
	}
	if threshold < 0 || threshold > 1 {
		return 0, fmt.Errorf("threshold %v out of range [0,1]", threshold)
	}

	opts := []pixelmatch.MatchOption{pixelmatch.Threshold(threshold)}
	if d.IncludeAA {
		opts = append(opts, pixelmatch.IncludeAntiAlias)
	}
	n, err := pixelmatch.MatchPixel(compact(a), compact(b), opts...)
	if errors.Is(err, pixelmatch.ErrImageSizesNotMatch) {
		return 0, fmt.Errorf("%w: %v", ErrSizeMismatch, err)
	}
	return n, err
}

// compact returns img with a zero origin and no row padding. pixelmatch
// compares bounds, not sizes, and reads whole strides when checking for
// identical buffers, so sub-images have to be copied.
func compact(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	rowLen := 4 * b.Dx()
	if b.Min == (image.Point{}) && img.Stride == rowLen && len(img.Pix) == rowLen*b.Dy() {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], img.Pix[src:src+rowLen])
	}
	return out
}
