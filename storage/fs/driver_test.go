package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
)

var ctx = context.Background()

func TestPlainDriver(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, nil)

	require.NoError(t, d.Put(ctx, "a/b doc", []byte("hello")))
	require.NoError(t, d.Put(ctx, "other", []byte("world")))

	ba, err := d.Get(ctx, "a/b doc")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(ba))

	names, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b doc", "other"}, names)

	require.NoError(t, d.Remove(ctx, "other"))
	require.NoError(t, d.Remove(ctx, "other"))
	_, err = d.Get(ctx, "other")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.True(t, ocaf.IsCode(err, ocaf.StorageNotFound))
}

func TestListMissingFolder(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "none"), nil)
	names, err := d.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func erasureDriver(t *testing.T, repair bool) (*Driver, []string) {
	t.Helper()
	base := t.TempDir()
	folders := []string{
		filepath.Join(base, "disk1"),
		filepath.Join(base, "disk2"),
		filepath.Join(base, "disk3"),
	}
	d, err := NewWithErasure(ocaf.ErasureCodingConfig{
		DataShardsCount:             2,
		ParityShardsCount:           1,
		BaseFolderPathsAcrossDrives: folders,
		RepairCorruptedShards:       repair,
	}, nil)
	require.NoError(t, err)
	return d, folders
}

func TestErasureDriverRoundTrip(t *testing.T) {
	d, folders := erasureDriver(t, false)
	payload := []byte("a document snapshot spread over three drives")
	require.NoError(t, d.Put(ctx, "doc", payload))

	for i, f := range folders {
		_, err := os.Stat(d.shardName("doc", i))
		require.NoError(t, err, f)
	}

	ba, err := d.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, payload, ba)

	names, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, names)
}

func TestErasureDriverRepairsLostShard(t *testing.T) {
	d, _ := erasureDriver(t, true)
	payload := []byte("repair me please")
	require.NoError(t, d.Put(ctx, "doc", payload))

	lost := d.shardName("doc", 1)
	require.NoError(t, os.Remove(lost))

	ba, err := d.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, payload, ba)

	_, err = os.Stat(lost)
	assert.NoError(t, err, "lost shard should be rewritten")
}

func TestErasureDriverTooManyLosses(t *testing.T) {
	d, _ := erasureDriver(t, false)
	require.NoError(t, d.Put(ctx, "doc", []byte("payload")))
	require.NoError(t, os.Remove(d.shardName("doc", 0)))
	require.NoError(t, os.Remove(d.shardName("doc", 2)))

	_, err := d.Get(ctx, "doc")
	require.Error(t, err)
	assert.True(t, ocaf.IsCode(err, ocaf.ShardReconstructionFailure))
}

func TestErasureDriverMissingDocument(t *testing.T) {
	d, _ := erasureDriver(t, false)
	_, err := d.Get(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewFromOptions(t *testing.T) {
	_, err := NewFromOptions(ocaf.StorageOptions{Driver: ocaf.DriverFS}, nil)
	assert.Error(t, err)

	d, err := NewFromOptions(ocaf.StorageOptions{Driver: ocaf.DriverFS, Folders: []string{t.TempDir()}}, nil)
	require.NoError(t, err)
	assert.Nil(t, d.coder)
}
