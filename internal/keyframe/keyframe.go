// Package keyframe decodes, normalizes and compares still frames sampled from
// videos.
package keyframe

import (
	"crypto/sha256"
	"errors"
	"image"
	"image/draw"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// ErrComparisonToolUnavailable is reported when no perceptual differ is wired.
var ErrComparisonToolUnavailable = errors.New("perceptual diff unavailable")

// Options bounds the normalized frame size and the perceptual tolerance.
type Options struct {
	MaxWidth           int     `json:"max_width"`
	MaxHeight          int     `json:"max_height"`
	AntiAliasThreshold float64 `json:"anti_alias_threshold"`
	PixelDiffThreshold int     `json:"pixel_diff_threshold"`
}

// DefaultOptions returns the comparison settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxWidth:           800,
		MaxHeight:          533,
		AntiAliasThreshold: 0.1,
		PixelDiffThreshold: 200,
	}
}

// Differ counts perceptually differing pixels between two same-sized images.
type Differ interface {
	Diff(a, b *image.NRGBA, threshold float64) (int, error)
}

// Normalize fits img inside maxW x maxH keeping its aspect ratio (it never
// upscales) and returns a zero-origin NRGBA copy.
func Normalize(img image.Image, maxW, maxH int) *image.NRGBA {
	if maxW > 0 && maxH > 0 {
		img = resize.Thumbnail(uint(maxW), uint(maxH), img, resize.Bilinear)
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Digest hashes the raw pixel buffer of img.
func Digest(img *image.NRGBA) [sha256.Size]byte {
	b := img.Bounds()
	if img.Stride == 4*b.Dx() && b.Min == (image.Point{}) {
		return sha256.Sum256(img.Pix[:4*b.Dx()*b.Dy()])
	}
	h := sha256.New()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[off : off+4*b.Dx()])
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// Comparator decides whether two frames show the same picture.
type Comparator struct {
	opts   Options
	differ Differ
	logger *zap.Logger
}

func NewComparator(opts Options, differ Differ, logger *zap.Logger) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{opts: opts, differ: differ, logger: logger}
}

func (c *Comparator) Options() Options {
	return c.opts
}

// Equal normalizes both frames, accepts identical pixel buffers outright and
// otherwise requires fewer than PixelDiffThreshold perceptually differing
// pixels. Any failure counts as not equal.
func (c *Comparator) Equal(a, b image.Image) bool {
	na := Normalize(a, c.opts.MaxWidth, c.opts.MaxHeight)
	nb := Normalize(b, c.opts.MaxWidth, c.opts.MaxHeight)

	if na.Bounds() != nb.Bounds() {
		c.logger.Debug("frame dimensions differ",
			zap.Stringer("a", na.Bounds().Size()),
			zap.Stringer("b", nb.Bounds().Size()),
		)
		return false
	}

	if Digest(na) == Digest(nb) {
		return true
	}

	if c.differ == nil {
		c.logger.Error("cannot compare frames", zap.Error(ErrComparisonToolUnavailable))
		return false
	}

	n, err := c.differ.Diff(na, nb, c.opts.AntiAliasThreshold)
	if err != nil {
		c.logger.Error("perceptual diff failed", zap.Error(err))
		return false
	}
	c.logger.Debug("perceptual diff", zap.Int("differing_pixels", n), zap.Int("threshold", c.opts.PixelDiffThreshold))
	return n < c.opts.PixelDiffThreshold
}
