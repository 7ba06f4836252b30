package system

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestImage(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	for i, name := range []string{"a.jpg", "b.PNG", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		mtime := old.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "z.png"), 0o755))

	latest, err := FindLatestImage(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.PNG"), latest)
}

func TestFindLatestEmpty(t *testing.T) {
	_, err := FindLatestImage(t.TempDir())
	assert.ErrorContains(t, err, "no .jpg/.jpeg/.png files found")

	_, err = FindLatest(filepath.Join(t.TempDir(), "missing"), ".png")
	assert.Error(t, err)
}

func TestFramePool(t *testing.T) {
	pool := NewFramePool()
	rect := image.Rect(0, 0, 8, 6)
	red := image.NewUniform(color.RGBA{R: 0xff, A: 0xff})
	blue := image.NewUniform(color.RGBA{B: 0xff, A: 0xff})

	img := pool.Frame(rect, red)
	require.NotNil(t, img)
	assert.Equal(t, rect, img.Rect)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(7, 5))
	pool.Release(img)

	again := pool.Frame(rect, blue)
	assert.Equal(t, rect, again.Rect)
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, again.RGBAAt(0, 0), "recycled frames are repainted")
	pool.Release(again)

	moved := pool.Frame(image.Rect(10, 10, 18, 16), red)
	assert.Equal(t, image.Rect(10, 10, 18, 16), moved.Rect)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, moved.RGBAAt(17, 15))

	pool.Release(nil)
	pool.Release(&image.RGBA{})
}

func TestResources(t *testing.T) {
	r, err := Resources()
	if err != nil {
		t.Skipf("memory stats unavailable here: %v", err)
	}
	assert.Positive(t, r.SystemTotal)
	assert.Contains(t, r.String(), "RSS:")
}
