// Package redis stores document snapshots as Redis values.
package redis

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
)

const defaultKeyPrefix = "ocaf:doc:"

// Driver is a storage.Driver keeping each document under a prefixed key.
type Driver struct {
	cache      Cache
	prefix     string
	expiration time.Duration
}

// New returns a driver over cache. Empty prefix uses "ocaf:doc:", zero expiration keeps
// documents forever.
func New(cache Cache, prefix string, expiration time.Duration) *Driver {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Driver{cache: cache, prefix: prefix, expiration: expiration}
}

// NewFromOptions connects to the configured Redis server.
func NewFromOptions(opts ocaf.StorageOptions) *Driver {
	var cfg ocaf.RedisCacheConfig
	if opts.Redis != nil {
		cfg = *opts.Redis
	}
	return New(NewClient(OptionsFrom(cfg)), opts.KeyPrefix, cfg.Expiration)
}

func (d *Driver) Put(ctx context.Context, name string, data []byte) error {
	return d.cache.Set(ctx, d.prefix+name, data, d.expiration)
}

func (d *Driver) Get(ctx context.Context, name string) ([]byte, error) {
	found, ba, err := d.cache.Get(ctx, d.prefix+name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, storage.NotFound(name)
	}
	return ba, nil
}

func (d *Driver) Remove(ctx context.Context, name string) error {
	return d.cache.Delete(ctx, d.prefix+name)
}

func (d *Driver) List(ctx context.Context) ([]string, error) {
	keys, err := d.cache.Keys(ctx, d.prefix+"*")
	if err != nil {
		return nil, err
	}
	r := make([]string, 0, len(keys))
	for _, k := range keys {
		r = append(r, strings.TrimPrefix(k, d.prefix))
	}
	slices.Sort(r)
	return r, nil
}
