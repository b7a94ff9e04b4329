package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Truncate(time.Second)
	for i, hub := range []string{"ai-learning", "backend-learning", "ai-learning"} {
		require.NoError(t, store.Append(ctx, Record{
			BuildID:   "build-" + hub,
			Hub:       hub,
			Status:    "success",
			Modules:   i + 1,
			Output:    "public/" + hub + ".html",
			Duration:  150 * time.Millisecond,
			Timestamp: base,
		}))
	}

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "ai-learning", records[0].Hub)
	assert.Equal(t, 3, records[0].Modules)
	assert.Equal(t, "backend-learning", records[1].Hub)

	// Round-trip of fields.
	assert.Equal(t, "build-ai-learning", records[0].BuildID)
	assert.Equal(t, "success", records[0].Status)
	assert.Equal(t, 150*time.Millisecond, records[0].Duration)
	assert.Equal(t, base.Unix(), records[0].Timestamp.Unix())
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, Record{
			BuildID: "b", Hub: "demo", Status: "success", Timestamp: time.Now(),
		}))
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), Record{
		BuildID: "b", Hub: "demo", Status: "success", Timestamp: time.Now(),
	}))
	require.NoError(t, store.Close())
}
