package application

import (
	"context"
	"fmt"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
	"github.com/sharedcode/ocaf/storage/cassandra"
	"github.com/sharedcode/ocaf/storage/fs"
	"github.com/sharedcode/ocaf/storage/redis"
	"github.com/sharedcode/ocaf/storage/s3"
)

// NewDriver returns the storage driver selected by opts.Driver, wrapped in a read cache
// when opts.ReadCacheMaxCost is positive.
func NewDriver(ctx context.Context, opts ocaf.StorageOptions) (storage.Driver, error) {
	var d storage.Driver
	var err error
	switch opts.Driver {
	case "", ocaf.DriverMemory:
		d = storage.NewMemoryDriver()
	case ocaf.DriverFS:
		d, err = fs.NewFromOptions(opts, nil)
	case ocaf.DriverRedis:
		d = redis.NewFromOptions(opts)
	case ocaf.DriverS3:
		d, err = s3.NewFromOptions(opts)
	case ocaf.DriverCassandra:
		d, err = cassandra.NewFromOptions(opts)
	default:
		err = fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if opts.ReadCacheMaxCost > 0 {
		return storage.NewCachedDriver(d, opts.ReadCacheMaxCost)
	}
	return d, nil
}
