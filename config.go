package ocaf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Abort policies accepted in DataOptions.AbortPolicy.
const (
	// AbortRollback undoes the aborted transaction's changes.
	AbortRollback = "rollback"
	// AbortLogOnly stops recording and keeps the changes in place.
	AbortLogOnly = "log_only"
)

// Storage driver names accepted in StorageOptions.Driver.
const (
	DriverMemory    = "memory"
	DriverFS        = "fs"
	DriverRedis     = "redis"
	DriverS3        = "s3"
	DriverCassandra = "cassandra"
)

// Snapshot encodings accepted in StorageOptions.Format.
const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// ArenaOptions tunes the label-node arena of a document.
type ArenaOptions struct {
	// BlockCapacity is the number of label nodes per arena block. Zero picks the default.
	BlockCapacity int `json:"block_capacity,omitempty" yaml:"block_capacity,omitempty" toml:"block_capacity,omitempty"`
	// MaxBlocks caps the number of arena blocks. Zero means unbounded.
	MaxBlocks int `json:"max_blocks,omitempty" yaml:"max_blocks,omitempty" toml:"max_blocks,omitempty"`
}

// DataOptions holds the configuration of a label-tree store.
type DataOptions struct {
	Arena ArenaOptions `json:"arena" yaml:"arena" toml:"arena"`
	// AccessByEntries enables the entry-string index from creation.
	AccessByEntries bool `json:"access_by_entries" yaml:"access_by_entries" toml:"access_by_entries"`
	// AbortPolicy is AbortRollback (default) or AbortLogOnly.
	AbortPolicy string `json:"abort_policy,omitempty" yaml:"abort_policy,omitempty" toml:"abort_policy,omitempty"`
}

// DocumentOptions holds the configuration of a document.
type DocumentOptions struct {
	Data DataOptions `json:"data" yaml:"data" toml:"data"`
	// UndoLimit is the maximum number of undo records kept. Zero disables undo.
	UndoLimit int `json:"undo_limit" yaml:"undo_limit" toml:"undo_limit"`
	// NestedMode allows commands to be opened inside open commands.
	NestedMode bool `json:"nested_mode" yaml:"nested_mode" toml:"nested_mode"`
}

// RedisCacheConfig holds configuration for connecting to a Redis server or cluster.
type RedisCacheConfig struct {
	// Address is the host:port of the Redis server/cluster.
	Address string `json:"address" yaml:"address" toml:"address"`
	// Password is the password used to authenticate.
	Password string `json:"password" yaml:"password" toml:"password"`
	// DB is the database index to select.
	DB int `json:"db" yaml:"db" toml:"db"`
	// Expiration of stored snapshots. Zero keeps them forever.
	Expiration time.Duration `json:"expiration,omitempty" yaml:"expiration,omitempty" toml:"expiration,omitempty"`
}

// S3Config holds configuration for an S3 compatible object store.
type S3Config struct {
	// HostEndpointURL, e.g. "http://127.0.0.1:9000" for minio.
	HostEndpointURL string `json:"host_endpoint_url" yaml:"host_endpoint_url" toml:"host_endpoint_url"`
	Region          string `json:"region" yaml:"region" toml:"region"`
	Username        string `json:"username" yaml:"username" toml:"username"`
	Password        string `json:"password" yaml:"password" toml:"password"`
	Bucket          string `json:"bucket" yaml:"bucket" toml:"bucket"`
}

// CassandraConfig holds configuration for a Cassandra cluster.
type CassandraConfig struct {
	ClusterHosts []string `json:"cluster_hosts" yaml:"cluster_hosts" toml:"cluster_hosts"`
	Keyspace     string   `json:"keyspace" yaml:"keyspace" toml:"keyspace"`
	// ReplicationClause defines the keyspace replication (e.g., SimpleStrategy).
	ReplicationClause string        `json:"replication_clause,omitempty" yaml:"replication_clause,omitempty" toml:"replication_clause,omitempty"`
	ConnectionTimeout time.Duration `json:"connection_timeout,omitempty" yaml:"connection_timeout,omitempty" toml:"connection_timeout,omitempty"`
}

// StorageOptions selects and configures the persistence driver.
type StorageOptions struct {
	Driver string `json:"driver" yaml:"driver" toml:"driver"`
	Format string `json:"format" yaml:"format" toml:"format"`
	// Folders used by the fs driver. The first folder holds whole snapshot files.
	Folders []string `json:"folders,omitempty" yaml:"folders,omitempty" toml:"folders,omitempty"`
	// ErasureConfig enables erasure-coded snapshot replication on the fs driver.
	ErasureConfig *ErasureCodingConfig `json:"erasure_config,omitempty" yaml:"erasure_config,omitempty" toml:"erasure_config,omitempty"`
	Redis         *RedisCacheConfig    `json:"redis,omitempty" yaml:"redis,omitempty" toml:"redis,omitempty"`
	S3            *S3Config            `json:"s3,omitempty" yaml:"s3,omitempty" toml:"s3,omitempty"`
	Cassandra     *CassandraConfig     `json:"cassandra,omitempty" yaml:"cassandra,omitempty" toml:"cassandra,omitempty"`
	// KeyPrefix namespaces document keys in shared backends.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty" toml:"key_prefix,omitempty"`
	// ReadCacheMaxCost enables a read-through snapshot cache of that many bytes. Zero disables it.
	ReadCacheMaxCost int64 `json:"read_cache_max_cost,omitempty" yaml:"read_cache_max_cost,omitempty" toml:"read_cache_max_cost,omitempty"`
}

// RESTOptions configures the diagnostics REST surface.
type RESTOptions struct {
	Address  string `json:"address" yaml:"address" toml:"address"`
	BasePath string `json:"base_path" yaml:"base_path" toml:"base_path"`
}

// Options is the top level configuration of an OCAF application.
type Options struct {
	Document DocumentOptions `json:"document" yaml:"document" toml:"document"`
	Storage  StorageOptions  `json:"storage" yaml:"storage" toml:"storage"`
	// SaveConcurrency bounds parallel saves in Application.SaveAll.
	SaveConcurrency int         `json:"save_concurrency" yaml:"save_concurrency" toml:"save_concurrency"`
	REST            RESTOptions `json:"rest" yaml:"rest" toml:"rest"`
}

// DefaultOptions returns options for an in-memory application with undo enabled.
func DefaultOptions() Options {
	return Options{
		Document: DocumentOptions{
			Data: DataOptions{
				AccessByEntries: true,
				AbortPolicy:     AbortRollback,
			},
			UndoLimit: 100,
		},
		Storage: StorageOptions{
			Driver: DriverMemory,
			Format: FormatJSON,
		},
		SaveConcurrency: 4,
		REST: RESTOptions{
			Address:  "localhost:8080",
			BasePath: "/api/v1",
		},
	}
}

// LoadOptions reads options from a .json, .yaml/.yml or .toml file. Fields missing from the
// file keep their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	o := DefaultOptions()
	ba, err := os.ReadFile(path)
	if err != nil {
		return o, Error{Code: FileIOError, Err: err, UserData: path}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(ba, &o)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(ba, &o)
	case ".toml":
		err = toml.Unmarshal(ba, &o)
	default:
		return o, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return o, fmt.Errorf("parsing config %s failed, details: %w", path, err)
	}
	return o, o.Validate()
}

// Validate checks option values for consistency.
func (o Options) Validate() error {
	switch o.Document.Data.AbortPolicy {
	case "", AbortRollback, AbortLogOnly:
	default:
		return fmt.Errorf("unknown abort policy %q", o.Document.Data.AbortPolicy)
	}
	if o.Document.UndoLimit < 0 {
		return fmt.Errorf("undo limit can't be negative")
	}
	if o.Document.Data.Arena.BlockCapacity < 0 || o.Document.Data.Arena.MaxBlocks < 0 {
		return fmt.Errorf("arena options can't be negative")
	}
	switch o.Storage.Format {
	case "", FormatJSON, FormatCBOR:
	default:
		return fmt.Errorf("unknown storage format %q", o.Storage.Format)
	}
	switch o.Storage.Driver {
	case "", DriverMemory:
	case DriverFS:
		if len(o.Storage.Folders) == 0 {
			return fmt.Errorf("fs driver needs at least one folder")
		}
		if o.Storage.ErasureConfig != nil {
			if err := o.Storage.ErasureConfig.Validate(); err != nil {
				return err
			}
		}
	case DriverRedis:
		if o.Storage.Redis == nil {
			return fmt.Errorf("redis driver needs redis config")
		}
	case DriverS3:
		if o.Storage.S3 == nil || o.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 driver needs s3 config with a bucket")
		}
	case DriverCassandra:
		if o.Storage.Cassandra == nil || len(o.Storage.Cassandra.ClusterHosts) == 0 {
			return fmt.Errorf("cassandra driver needs cluster hosts")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", o.Storage.Driver)
	}
	return nil
}
