package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/your-org/acai-demand-study/internal/synth"
)

func smallOptions() Options {
	return Options{Width: 6 * vg.Inch, Height: 5 * vg.Inch, DPI: 50}
}

func dataset(t *testing.T, n int) synth.Dataset {
	t.Helper()
	g, err := synth.NewGenerator(42, synth.DefaultParams())
	require.NoError(t, err)
	ds, err := g.History(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), n)
	require.NoError(t, err)
	return ds
}

func TestRender_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, dataset(t, 60), smallOptions()))

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.InDelta(t, 300, cfg.Width, 1)
	assert.InDelta(t, 250, cfg.Height, 1)
}

func TestRender_Deterministic(t *testing.T) {
	ds := dataset(t, 60)
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, ds, smallOptions()))
	require.NoError(t, Render(&b, ds, smallOptions()))
	assert.True(t, bytes.Equal(a.Bytes(), b.Bytes()))
}

func TestRender_WeekdaysOnly(t *testing.T) {
	var buf bytes.Buffer
	// 2024-01-01..03 are Monday to Wednesday; the weekend box is skipped.
	assert.NoError(t, Render(&buf, dataset(t, 3), smallOptions()))
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, nil, smallOptions()), ErrNoData)
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analise_exploratoria.png")
	require.NoError(t, SaveFile(path, dataset(t, 60), smallOptions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	err = SaveFile(filepath.Join(t.TempDir(), "missing", "x.png"), dataset(t, 5), smallOptions())
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 300, opts.DPI)
	assert.Equal(t, 12*vg.Inch, opts.Width)
	assert.Equal(t, 10*vg.Inch, opts.Height)
}
