package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	data, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Put(ctx, "k", []byte("v1")))
	data, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	data[0] = 'X'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "v1", string(again), "Get must return a copy")

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	data, _ = s.Get(ctx, "k")
	assert.Nil(t, data)
}

func TestNewFromDirSeeds(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.json"),
		[]byte("# seed\n[{\"id\":\"1\"}]\n"), 0o644))

	s := NewFromDir(dir, "expenses", "expense-export-history")

	data, err := s.Get(context.Background(), "expenses")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))

	data, _ = s.Get(context.Background(), "expense-export-history")
	assert.Nil(t, data)
}

func TestKeysSorted(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Put(ctx, "schedules", []byte("[]")))
	require.NoError(t, s.Put(ctx, "history", []byte("[]")))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"history", "schedules"}, keys)

	require.NoError(t, s.Delete(ctx, "history"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"schedules"}, keys)
}
