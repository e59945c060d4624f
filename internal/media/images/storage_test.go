package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

// testPNG returns a small valid PNG image.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 7), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStorage_SaveGetDelete(t *testing.T) {
	storage := setupTestStorage(t)
	data := testPNG(t, 10, 10)

	require.NoError(t, storage.Save("book-1", data))
	assert.True(t, storage.Exists("book-1"))

	got, err := storage.Get("book-1")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, storage.Delete("book-1"))
	assert.False(t, storage.Exists("book-1"))

	// Deleting again is not an error
	assert.NoError(t, storage.Delete("book-1"))
}

func TestStorage_GetMissing(t *testing.T) {
	storage := setupTestStorage(t)

	_, err := storage.Get("book-missing")
	assert.Error(t, err)
}

func TestStorage_SaveEmpty(t *testing.T) {
	storage := setupTestStorage(t)

	assert.Error(t, storage.Save("book-1", nil))
	assert.Error(t, storage.Save("", []byte("data")))
}

func TestStorage_Hash(t *testing.T) {
	storage := setupTestStorage(t)

	require.NoError(t, storage.Save("book-1", testPNG(t, 10, 10)))

	hash, err := storage.Hash("book-1")
	require.NoError(t, err)
	assert.Len(t, hash, 64) // SHA256 hex
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testPNG(t, 200, 300))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_InvalidData(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}
