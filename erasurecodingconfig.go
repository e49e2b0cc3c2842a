package ocaf

import "fmt"

// ErasureCodingConfig defines the erasure coding settings of snapshot replication, including
// shard counts, storage locations, and optional automatic shard repair.
type ErasureCodingConfig struct {
	// DataShardsCount is the number of data shards.
	DataShardsCount int `json:"data_shards_count" yaml:"data_shards_count" toml:"data_shards_count"`
	// ParityShardsCount is the number of parity shards.
	ParityShardsCount int `json:"parity_shards_count" yaml:"parity_shards_count" toml:"parity_shards_count"`
	// BaseFolderPathsAcrossDrives lists the drive base paths where data and parity shard files are stored.
	BaseFolderPathsAcrossDrives []string `json:"base_folder_paths_across_drives" yaml:"base_folder_paths_across_drives" toml:"base_folder_paths_across_drives"`

	// RepairCorruptedShards indicates whether to rewrite shards that had to be reconstructed on read.
	RepairCorruptedShards bool `json:"repair_corrupted_shards" yaml:"repair_corrupted_shards" toml:"repair_corrupted_shards"`
}

// Validate checks that there is one folder per shard.
func (c ErasureCodingConfig) Validate() error {
	if c.DataShardsCount <= 0 || c.ParityShardsCount < 0 {
		return fmt.Errorf("erasure config needs a positive data shards count")
	}
	if len(c.BaseFolderPathsAcrossDrives) != c.DataShardsCount+c.ParityShardsCount {
		return fmt.Errorf("erasure config needs %d folders, got %d",
			c.DataShardsCount+c.ParityShardsCount, len(c.BaseFolderPathsAcrossDrives))
	}
	return nil
}
