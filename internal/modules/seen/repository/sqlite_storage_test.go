package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_AdmitOnce(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	seen, err := store.Admit(ctx, "tg:123:1")
	require.NoError(t, err)
	assert.False(t, seen, "first admission")

	for range 3 {
		seen, err = store.Admit(ctx, "tg:123:1")
		require.NoError(t, err)
		assert.True(t, seen, "repeat admission")
	}

	seen, err = store.Admit(ctx, "tg:123:2")
	require.NoError(t, err)
	assert.False(t, seen, "different key")
}

func TestSQLiteStorage_DurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	_, err = store.Admit(context.Background(), "tg:123:1")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	seen, err := reopened.Admit(context.Background(), "tg:123:1")
	require.NoError(t, err)
	assert.True(t, seen, "key survives restart")
}
