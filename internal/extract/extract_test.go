package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationFromFormat(t *testing.T) {
	d, err := parseDuration(`{"format":{"duration":"12.480000"},"streams":[]}`)
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 1e-9)
}

func TestParseDurationFallsBackToStreams(t *testing.T) {
	raw := `{"format":{},"streams":[{"codec_type":"audio","duration":"4.1"},{"codec_type":"video","duration":"4.25"}]}`
	d, err := parseDuration(raw)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, d, 1e-9)
}

func TestParseDurationMissing(t *testing.T) {
	_, err := parseDuration(`{"format":{"duration":"N/A"},"streams":[{"codec_type":"video"}]}`)
	assert.Error(t, err)

	_, err = parseDuration(`not json`)
	assert.Error(t, err)
}

func TestProbeDurationUsesProbe(t *testing.T) {
	orig := runProbe
	t.Cleanup(func() { runProbe = orig })

	var gotBin string
	var gotArgs []string
	runProbe = func(_ context.Context, bin string, args []string) (string, error) {
		gotBin, gotArgs = bin, args
		return `{"format":{"duration":"3.5"}}`, nil
	}

	d, err := NewTool(DefaultConfig(), nil).ProbeDuration(context.Background(), "/videos/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "ffprobe", gotBin)
	assert.Equal(t, "/videos/a.mp4", gotArgs[len(gotArgs)-1])
	assert.Subset(t, gotArgs, []string{"-show_format", "-show_streams", "-of", "json"})
	assert.InDelta(t, 3.5, d, 1e-9)
}

func TestProbeDurationWrapsFailure(t *testing.T) {
	orig := runProbe
	t.Cleanup(func() { runProbe = orig })

	boom := errors.New("exit status 1")
	runProbe = func(context.Context, string, []string) (string, error) { return "", boom }

	_, err := NewTool(DefaultConfig(), nil).ProbeDuration(context.Background(), "x.mp4")
	assert.ErrorIs(t, err, boom)
}

func TestProbeDurationAppliesTimeout(t *testing.T) {
	orig := runProbe
	t.Cleanup(func() { runProbe = orig })

	runProbe = func(ctx context.Context, _ string, _ []string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	cfg := DefaultConfig()
	cfg.ProbeTimeout = 20 * time.Millisecond
	_, err := NewTool(cfg, nil).ProbeDuration(context.Background(), "x.mp4")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProbeDurationStopsOnCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell script standing in for ffprobe")
	}
	fake := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))

	cfg := DefaultConfig()
	cfg.FFprobePath = fake
	tool := NewTool(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := tool.ProbeDuration(ctx, "x.mp4")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestProbeDurationHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTool(DefaultConfig(), nil).ProbeDuration(ctx, "x.mp4")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrameArgs(t *testing.T) {
	args := frameArgs("in.mp4", 1.25, "/tmp/out.png")

	assert.Contains(t, args, "-ss")
	assert.Contains(t, args, "1.250")
	assert.Contains(t, args, "-frames:v")
	assert.Contains(t, args, "-y")
	assert.Equal(t, "/tmp/out.png", args[len(args)-2])

	// seek must come before the input for fast seeking
	var ss, in int
	for i, a := range args {
		switch a {
		case "-ss":
			ss = i
		case "-i":
			in = i
		}
	}
	assert.Less(t, ss, in)
}
