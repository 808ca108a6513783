package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirPut(t *testing.T) {
	root := filepath.Join(t.TempDir(), "previous_maps")
	d := NewDir(root, "/maps/")

	url, err := d.Put(context.Background(), "parking_map_41.00000_28.85000_d0.010.html", "text/html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "/maps/parking_map_41.00000_28.85000_d0.010.html", url)

	got, err := os.ReadFile(filepath.Join(root, "parking_map_41.00000_28.85000_d0.010.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))
}

func TestDirPut_Overwrites(t *testing.T) {
	d := NewDir(t.TempDir(), "/maps")
	ctx := context.Background()

	_, err := d.Put(ctx, "a.json", "application/json", []byte("1"))
	require.NoError(t, err)
	_, err = d.Put(ctx, "a.json", "application/json", []byte("2"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(d.Root, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}

func TestDirPut_InvalidName(t *testing.T) {
	d := NewDir(t.TempDir(), "/maps")
	for _, name := range []string{"", ".", "../escape.html", "sub/file.html", `sub\file.html`, "a..b"} {
		_, err := d.Put(context.Background(), name, "text/html", nil)
		assert.True(t, errors.Is(err, ErrInvalidName), "name %q: err = %v", name, err)
	}
}

func TestDirPut_CancelledContext(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "never"), "/maps")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Put(ctx, "x.html", "text/html", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(d.Root)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewMinio_MissingConfig(t *testing.T) {
	_, err := NewMinio(context.Background(), MinioConfig{Endpoint: "localhost:9000", Bucket: "parking-maps"})
	assert.ErrorIs(t, err, ErrMissingConfig)
}
