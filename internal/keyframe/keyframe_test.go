package keyframe

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyDiffer struct {
	calls int
	count int
	err   error
}

func (s *spyDiffer) Diff(a, b *image.NRGBA, threshold float64) (int, error) {
	s.calls++
	return s.count, s.err
}

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNormalizeFitsBox(t *testing.T) {
	out := Normalize(filled(1600, 900, color.White), 800, 533)
	assert.LessOrEqual(t, out.Bounds().Dx(), 800)
	assert.LessOrEqual(t, out.Bounds().Dy(), 533)
	assert.Equal(t, image.Point{}, out.Bounds().Min)
}

func TestNormalizeNeverUpscales(t *testing.T) {
	out := Normalize(filled(100, 50, color.Black), 800, 533)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
}

func TestNormalizeForcesAlpha(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	out := Normalize(gray, 800, 533)
	assert.Equal(t, uint8(255), out.Pix[3])
	assert.Len(t, out.Pix, 4*4*4)
}

func TestDigestIgnoresSubImageOrigin(t *testing.T) {
	whole := Normalize(filled(8, 8, color.White), 0, 0)
	sub := whole.SubImage(image.Rect(4, 4, 8, 8)).(*image.NRGBA)
	small := Normalize(filled(4, 4, color.White), 0, 0)
	assert.Equal(t, Digest(small), Digest(sub))
}

func TestEqualIdenticalSkipsDiffer(t *testing.T) {
	spy := &spyDiffer{count: 10_000}
	c := NewComparator(DefaultOptions(), spy, nil)

	assert.True(t, c.Equal(filled(64, 36, color.White), filled(64, 36, color.White)))
	assert.Zero(t, spy.calls)
}

func TestEqualUsesPixelThreshold(t *testing.T) {
	a := filled(64, 36, color.White)
	b := filled(64, 36, color.Black)

	below := &spyDiffer{count: 199}
	assert.True(t, NewComparator(DefaultOptions(), below, nil).Equal(a, b))
	assert.Equal(t, 1, below.calls)

	at := &spyDiffer{count: 200}
	assert.False(t, NewComparator(DefaultOptions(), at, nil).Equal(a, b))
}

func TestEqualRejectsDimensionMismatch(t *testing.T) {
	spy := &spyDiffer{}
	c := NewComparator(DefaultOptions(), spy, nil)

	assert.False(t, c.Equal(filled(64, 36, color.White), filled(36, 64, color.White)))
	assert.Zero(t, spy.calls)
}

func TestEqualWithoutDifferIsConservative(t *testing.T) {
	c := NewComparator(DefaultOptions(), nil, nil)
	assert.False(t, c.Equal(filled(8, 8, color.White), filled(8, 8, color.Black)))
	assert.True(t, c.Equal(filled(8, 8, color.White), filled(8, 8, color.White)))
}

func TestEqualDifferErrorIsConservative(t *testing.T) {
	c := NewComparator(DefaultOptions(), &spyDiffer{err: errors.New("boom")}, nil)
	assert.False(t, c.Equal(filled(8, 8, color.White), filled(8, 8, color.Black)))
}

func TestDecodePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, filled(12, 6, color.White)))
	require.NoError(t, f.Close())

	img, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 6), img.Bounds())
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
