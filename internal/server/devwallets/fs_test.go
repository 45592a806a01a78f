package devwallets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "wallets")
	b := NewFileBackend(dir)

	ok, err := b.Exists(ctx, "k.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Write(ctx, "k.json", []byte(`{"a":1}`)))

	ok, err = b.Exists(ctx, "k.json")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := b.Read(ctx, "k.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, b.Remove(ctx, "k.json"))
	_, err = b.Read(ctx, "k.json")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileBackend_RemoveMissing(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	require.ErrorIs(t, b.Remove(context.Background(), "none.json"), common.ErrorNotFound)
}

func TestFileBackend_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewFileBackend(dir)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Write(ctx, "k.json", []byte(`[1,2,3]`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}
