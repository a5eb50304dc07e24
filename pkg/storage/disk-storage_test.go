package storage

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-storefront/pkg/types"
)

func TestPatternsRoundTrip(t *testing.T) {
	ds := NewDiskStorage("se", t.TempDir())
	ctx := context.Background()

	records, err := ds.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, records)

	saved := []types.PatternRecord{
		{Query: "/products/*", PageId: "A"},
		{Query: "/summer", PageId: "S", Type: types.PatternTypeLanding},
	}
	require.NoError(t, ds.Save(ctx, saved))

	loaded, err := ds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	entries, err := os.ReadDir(path.Join(ds.RootFolder, "se"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "patterns.json", entries[0].Name())
}

func TestLoadCorruptFile(t *testing.T) {
	ds := NewDiskStorage("se", t.TempDir())
	fileName, _ := ds.GetFileName(patternsFile)
	require.NoError(t, os.MkdirAll(path.Dir(fileName), 0o755))
	require.NoError(t, os.WriteFile(fileName, []byte("{broken"), 0o644))

	_, err := ds.Load(context.Background())
	assert.Error(t, err)
}
