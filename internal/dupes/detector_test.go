package dupes

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"sort"
	"strings"
	"testing"

	"videodupes/internal/keyframe"
	"videodupes/internal/pixeldiff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool renders solid-colour frames instead of calling ffmpeg.
type fakeTool struct {
	durations   map[string]float64
	colors      map[string]color.NRGBA
	lateColors  map[string]color.NRGBA // used for frames past 70% of the clip
	failExtract map[string]bool

	probeCalls   map[string]int
	extractCalls int
}

func newFakeTool() *fakeTool {
	return &fakeTool{
		durations:   map[string]float64{},
		colors:      map[string]color.NRGBA{},
		lateColors:  map[string]color.NRGBA{},
		failExtract: map[string]bool{},
		probeCalls:  map[string]int{},
	}
}

func (f *fakeTool) add(path string, seconds float64, c color.NRGBA) {
	f.durations[path] = seconds
	f.colors[path] = c
}

func (f *fakeTool) ProbeDuration(ctx context.Context, path string) (float64, error) {
	f.probeCalls[path]++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d, ok := f.durations[path]
	if !ok {
		return 0, errors.New("moov atom not found")
	}
	return d, nil
}

func (f *fakeTool) ExtractFrame(ctx context.Context, path string, at float64, outPath string) error {
	f.extractCalls++
	if f.failExtract[path] {
		return errors.New("exit status 1")
	}
	c := f.colors[path]
	if late, ok := f.lateColors[path]; ok && at > f.durations[path]*0.7 {
		c = late
	}
	img := image.NewNRGBA(image.Rect(0, 0, 32, 18))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

var (
	red  = color.NRGBA{200, 30, 30, 255}
	blue = color.NRGBA{20, 40, 220, 255}
	// red after a lossy re-encode
	redNoisy = color.NRGBA{201, 31, 29, 255}
)

func newDetector(t *testing.T, tool VideoTool, opts Options) *Detector {
	t.Helper()
	cmp := keyframe.NewComparator(keyframe.DefaultOptions(), pixeldiff.Differ{}, nil)
	return New(tool, cmp, t.TempDir(), opts, nil)
}

func TestEquivalentIdenticalCopies(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 12.5, red)
	tool.add("copy.mp4", 12.5, red)

	d := newDetector(t, tool, DefaultOptions())
	assert.True(t, d.Equivalent(context.Background(), "a.mp4", "copy.mp4"))
	assert.Equal(t, 6, tool.extractCalls)
}

func TestEquivalentToleratesEncodingNoise(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 12.5, red)
	tool.add("b.mp4", 12.505, redNoisy)

	d := newDetector(t, tool, DefaultOptions())
	assert.True(t, d.Equivalent(context.Background(), "a.mp4", "b.mp4"))
}

func TestEquivalentDurationGateSkipsExtraction(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 10, red)
	tool.add("b.mp4", 10.02, red)

	d := newDetector(t, tool, DefaultOptions())
	assert.False(t, d.Equivalent(context.Background(), "a.mp4", "b.mp4"))
	assert.Zero(t, tool.extractCalls)
}

func TestEquivalentRequiresEveryKeyframe(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 30, red)
	tool.add("b.mp4", 30, red)
	tool.lateColors["b.mp4"] = blue

	d := newDetector(t, tool, DefaultOptions())
	assert.False(t, d.Equivalent(context.Background(), "a.mp4", "b.mp4"))
}

func TestEquivalentDifferentContent(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 2, red)
	tool.add("b.mp4", 2, blue)

	d := newDetector(t, tool, DefaultOptions())
	assert.False(t, d.Equivalent(context.Background(), "a.mp4", "b.mp4"))
	// short clips sample a single frame each
	assert.Equal(t, 2, tool.extractCalls)
}

func TestEquivalentExtractionFailureIsNotDuplicate(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 8, red)
	tool.add("b.mp4", 8, red)
	tool.failExtract["b.mp4"] = true

	d := newDetector(t, tool, DefaultOptions())
	assert.False(t, d.Equivalent(context.Background(), "a.mp4", "b.mp4"))

	entries, err := os.ReadDir(d.workDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp frames must be released")
}

func TestSamplePositions(t *testing.T) {
	assert.Equal(t, []float64{1, 5, 9}, SamplePositions(10, 3))
	assert.Equal(t, []float64{1.5}, SamplePositions(3, 3))
	assert.Equal(t, []float64{0.25}, SamplePositions(0.5, 3))
}

func TestDurationIsProbedOnce(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 5, red)
	tool.add("b.mp4", 5, red)
	tool.add("c.mp4", 5, blue)

	d := newDetector(t, tool, DefaultOptions())
	_, err := d.Group(context.Background(), []string{"a.mp4", "b.mp4", "c.mp4", "broken.mp4"})
	require.NoError(t, err)

	for _, p := range []string{"a.mp4", "b.mp4", "c.mp4", "broken.mp4"} {
		assert.Equal(t, 1, tool.probeCalls[p], p)
	}
}

func TestGroupExtractsSeedKeyframesOnce(t *testing.T) {
	tool := newFakeTool()
	files := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"}
	for _, f := range files {
		tool.add(f, 10, red)
	}

	d := newDetector(t, tool, DefaultOptions())
	groups, err := d.Group(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, [][]string{files}, groups)
	// three frames for the seed, three for each candidate
	assert.Equal(t, 12, tool.extractCalls)
}

func TestGroupReusesFailedSeedExtraction(t *testing.T) {
	tool := newFakeTool()
	files := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"}
	for _, f := range files {
		tool.add(f, 10, red)
	}
	tool.failExtract["a.mp4"] = true

	d := newDetector(t, tool, DefaultOptions())
	groups, err := d.Group(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"b.mp4", "c.mp4", "d.mp4"}}, groups)
	// one failed attempt for a, then b seeds: 3 + 2*3
	assert.Equal(t, 10, tool.extractCalls)
}

func TestDurationProbeErrorIsTyped(t *testing.T) {
	d := newDetector(t, newFakeTool(), DefaultOptions())
	_, err := d.Duration(context.Background(), "broken.mp4")

	var pe *ProbeError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "broken.mp4", pe.Path)
}

func TestGroupPartitionsDuplicates(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 20, red)
	tool.add("b.mp4", 20, red)
	tool.add("c.mp4", 40, blue)
	tool.add("d.mp4", 20, red)
	tool.add("e.mp4", 40, blue)
	tool.add("f.mp4", 7, red)

	d := newDetector(t, tool, DefaultOptions())
	groups, err := d.Group(context.Background(), []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a.mp4", "b.mp4", "d.mp4"}, {"c.mp4", "e.mp4"}}, groups)
}

func TestGroupNoDuplicates(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 20, red)
	tool.add("b.mp4", 21, red)

	d := newDetector(t, tool, DefaultOptions())
	groups, err := d.Group(context.Background(), []string{"a.mp4", "b.mp4"})
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupExcludesUnprobeableFiles(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 20, red)
	tool.add("b.mp4", 20, red)
	tool.colors["broken.mp4"] = red

	d := newDetector(t, tool, DefaultOptions())
	groups, err := d.Group(context.Background(), []string{"broken.mp4", "a.mp4", "b.mp4"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a.mp4", "b.mp4"}}, groups)
}

func TestGroupIsOrderIndependent(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 20, red)
	tool.add("b.mp4", 20, red)
	tool.add("c.mp4", 40, blue)
	tool.add("d.mp4", 40, blue)
	tool.add("e.mp4", 9, red)

	orders := [][]string{
		{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"},
		{"e.mp4", "d.mp4", "c.mp4", "b.mp4", "a.mp4"},
		{"c.mp4", "a.mp4", "e.mp4", "d.mp4", "b.mp4"},
	}

	var want []string
	for i, order := range orders {
		d := newDetector(t, tool, DefaultOptions())
		groups, err := d.Group(context.Background(), order)
		require.NoError(t, err)
		got := canonical(groups)
		if i == 0 {
			want = got
			continue
		}
		assert.Equal(t, want, got, "order %v", order)
	}
}

func canonical(groups [][]string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		members := append([]string(nil), g...)
		sort.Strings(members)
		out = append(out, strings.Join(members, ","))
	}
	sort.Strings(out)
	return out
}

// redShade compares only the red channel, within a fixed distance.
type redShade struct{ within int }

func (r redShade) Equal(a, b image.Image) bool {
	ra, _, _, _ := a.At(0, 0).RGBA()
	rb, _, _, _ := b.At(0, 0).RGBA()
	diff := int(ra>>8) - int(rb>>8)
	if diff < 0 {
		diff = -diff
	}
	return diff <= r.within
}

func TestGroupStrictRequiresClique(t *testing.T) {
	tool := newFakeTool()
	tool.add("seed.mp4", 10, color.NRGBA{100, 0, 0, 255})
	tool.add("darker.mp4", 10, color.NRGBA{92, 0, 0, 255})
	tool.add("lighter.mp4", 10, color.NRGBA{108, 0, 0, 255})
	files := []string{"seed.mp4", "darker.mp4", "lighter.mp4"}

	loose := New(tool, redShade{within: 10}, t.TempDir(), DefaultOptions(), nil)
	groups, err := loose.Group(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, [][]string{files}, groups)

	opts := DefaultOptions()
	opts.StrictGroups = true
	strict := New(tool, redShade{within: 10}, t.TempDir(), opts, nil)
	groups, err = strict.Group(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"seed.mp4", "darker.mp4"}}, groups)
}

func TestGroupReportsProgress(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 5, red)
	tool.add("b.mp4", 5, red)
	tool.add("c.mp4", 5, blue)

	d := newDetector(t, tool, DefaultOptions())
	var calls []int
	d.Progress = func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	}
	_, err := d.Group(context.Background(), []string{"a.mp4", "b.mp4", "c.mp4"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestGroupStopsOnCancel(t *testing.T) {
	tool := newFakeTool()
	tool.add("a.mp4", 5, red)
	tool.add("b.mp4", 5, red)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDetector(t, tool, DefaultOptions())
	_, err := d.Group(ctx, []string{"a.mp4", "b.mp4"})
	assert.ErrorIs(t, err, context.Canceled)
}
