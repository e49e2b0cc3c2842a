// Package fs stores document snapshots as files, optionally erasure coded across several
// folders (drives).
package fs

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
	"github.com/sharedcode/ocaf/storage/fs/erasure"
)

const (
	fileExtension  = ".ocaf"
	maxThreadCount = 7
)

// Driver is a storage.Driver over the filesystem.
type Driver struct {
	fileIO  FileIO
	folders []string
	coder   *erasure.Coder
	repair  bool
}

// New returns a driver writing one file per document under folder.
func New(folder string, fileIO FileIO) *Driver {
	if fileIO == nil {
		fileIO = NewFileIO()
	}
	return &Driver{fileIO: fileIO, folders: []string{folder}}
}

// NewWithErasure returns a driver splitting each document into data and parity shards, one
// per folder in cfg.BaseFolderPathsAcrossDrives.
func NewWithErasure(cfg ocaf.ErasureCodingConfig, fileIO FileIO) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := erasure.New(cfg.DataShardsCount, cfg.ParityShardsCount)
	if err != nil {
		return nil, err
	}
	if fileIO == nil {
		fileIO = NewFileIO()
	}
	return &Driver{
		fileIO:  fileIO,
		folders: slices.Clone(cfg.BaseFolderPathsAcrossDrives),
		coder:   c,
		repair:  cfg.RepairCorruptedShards,
	}, nil
}

// NewFromOptions returns the driver described by storage options.
func NewFromOptions(opts ocaf.StorageOptions, fileIO FileIO) (*Driver, error) {
	if opts.ErasureConfig != nil {
		return NewWithErasure(*opts.ErasureConfig, fileIO)
	}
	if len(opts.Folders) == 0 {
		return nil, fmt.Errorf("fs driver needs a folder")
	}
	return New(opts.Folders[0], fileIO), nil
}

func (d *Driver) fileName(name string) string {
	return filepath.Join(d.folders[0], url.PathEscape(name)+fileExtension)
}

func (d *Driver) shardName(name string, i int) string {
	return filepath.Join(d.folders[i], fmt.Sprintf("%s%s_%d", url.PathEscape(name), fileExtension, i))
}

// Put stores data. With erasure coding, up to ParityShards shard writes may fail.
func (d *Driver) Put(ctx context.Context, name string, data []byte) error {
	if d.coder == nil {
		return d.fileIO.WriteFile(ctx, d.fileName(name), data, permission)
	}
	shards, err := d.coder.Encode(data)
	if err != nil {
		return err
	}
	var failed atomic.Int32
	var lastErr atomic.Pointer[error]
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(maxThreadCount)
	for i := range shards {
		i := i
		eg.Go(func() error {
			fn := d.shardName(name, i)
			if err := d.fileIO.WriteFile(ectx, fn, shards[i], permission); err != nil {
				log.Warn("failed writing shard", "file", fn, "error", err)
				failed.Add(1)
				lastErr.Store(&err)
			}
			return nil
		})
	}
	eg.Wait()
	if n := int(failed.Load()); n > d.coder.ParityShards {
		return ocaf.Error{
			Code:     ocaf.FileIOError,
			Err:      fmt.Errorf("%d shard writes failed, tolerance is %d, last error: %w", n, d.coder.ParityShards, *lastErr.Load()),
			UserData: name,
		}
	}
	return nil
}

// Get reads data. With erasure coding, missing or corrupted shards are reconstructed and,
// when repair is on, rewritten.
func (d *Driver) Get(ctx context.Context, name string) ([]byte, error) {
	if d.coder == nil {
		fn := d.fileName(name)
		ba, err := d.fileIO.ReadFile(ctx, fn)
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.NotFound(name)
		}
		return ba, err
	}
	shards := make([][]byte, len(d.folders))
	var missing atomic.Int32
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(maxThreadCount)
	for i := range shards {
		i := i
		eg.Go(func() error {
			fn := d.shardName(name, i)
			ba, err := d.fileIO.ReadFile(ectx, fn)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					missing.Add(1)
				} else {
					log.Warn("failed reading shard, will try to reconstruct it", "file", fn, "error", err)
				}
				return nil
			}
			shards[i] = ba
			return nil
		})
	}
	eg.Wait()
	if int(missing.Load()) == len(shards) {
		return nil, storage.NotFound(name)
	}
	r, err := d.coder.Decode(shards)
	if err != nil {
		return nil, ocaf.Error{Code: ocaf.ShardReconstructionFailure, Err: err, UserData: name}
	}
	if d.repair && len(r.Reconstructed) > 0 {
		d.repairShards(ctx, name, r)
	}
	return r.Data, nil
}

func (d *Driver) repairShards(ctx context.Context, name string, r *erasure.Result) {
	shards, err := d.coder.Encode(r.Data)
	if err != nil {
		log.Warn("re-encoding for shard repair failed", "document", name, "error", err)
		return
	}
	// Damaged shards are typically one, residing in a drive that failed.
	for _, i := range r.Reconstructed {
		fn := d.shardName(name, i)
		log.Debug("repairing shard", "file", fn)
		if err := d.fileIO.WriteFile(ctx, fn, shards[i], permission); err != nil {
			log.Warn("error encountered repairing a damaged shard", "file", fn, "error", err)
		}
	}
}

// Remove deletes the document's file or shards.
func (d *Driver) Remove(ctx context.Context, name string) error {
	if d.coder == nil {
		return d.fileIO.Remove(ctx, d.fileName(name))
	}
	var lastErr error
	for i := range d.folders {
		if err := d.fileIO.Remove(ctx, d.shardName(name, i)); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// List returns the names of the stored documents.
func (d *Driver) List(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for i, folder := range d.folders {
		if !d.fileIO.Exists(ctx, folder) {
			continue
		}
		entries, err := d.fileIO.ReadDir(ctx, folder)
		if err != nil {
			return nil, err
		}
		suffix := fileExtension
		if d.coder != nil {
			suffix = fmt.Sprintf("%s_%d", fileExtension, i)
		}
		for _, e := range entries {
			base, ok := strings.CutSuffix(e.Name(), suffix)
			if e.IsDir() || !ok {
				continue
			}
			if n, err := url.PathUnescape(base); err == nil {
				seen[n] = struct{}{}
			}
		}
		if d.coder == nil {
			break
		}
	}
	r := make([]string, 0, len(seen))
	for n := range seen {
		r = append(r, n)
	}
	slices.Sort(r)
	return r, nil
}
