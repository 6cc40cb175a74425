package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader() *Loader {
	logger, _ := test.NewNullLogger()
	return New(logger)
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 80, 40)

	src, err := newLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 80, src.NaturalWidth)
	assert.Equal(t, 40, src.NaturalHeight)
	assert.Equal(t, 2.0, src.AspectRatio)
	assert.Equal(t, "png", src.Format)
	assert.Equal(t, path, src.Path)
	assert.Positive(t, src.Size)
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 90)), imaging.JPEG))

	src, err := newLoader().Decode(context.Background(), "photo.jpg", &buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", src.Format)
	assert.Equal(t, 30, src.NaturalWidth)
	assert.Equal(t, 90, src.NaturalHeight)
	assert.InDelta(t, 1.0/3.0, src.AspectRatio, 1e-9)
}

func TestLoadNoFile(t *testing.T) {
	_, err := newLoader().Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestLoadUndecodable(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	text := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(text, []byte("definitely not an image"), 0o644))
	truncated := filepath.Join(dir, "truncated.png")
	full, err := os.ReadFile(writePNG(t, t.TempDir(), 20, 20))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(truncated, full[:40], 0o644))

	for _, path := range []string{empty, text, truncated} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := newLoader().Load(context.Background(), path)
			assert.ErrorIs(t, err, ErrUndecodable)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := newLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newLoader().Decode(ctx, "x.png", bytes.NewReader([]byte("data")))
	assert.ErrorIs(t, err, context.Canceled)
}
