package ocaf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadOptionsFormats(t *testing.T) {
	files := map[string]string{
		"ocaf.json": `{"document": {"undo_limit": 7}, "storage": {"driver": "fs", "format": "cbor", "folders": ["/tmp/docs"]}}`,
		"ocaf.yaml": "document:\n  undo_limit: 7\nstorage:\n  driver: fs\n  format: cbor\n  folders: [/tmp/docs]\n",
		"ocaf.toml": "[document]\nundo_limit = 7\n[storage]\ndriver = \"fs\"\nformat = \"cbor\"\nfolders = [\"/tmp/docs\"]\n",
	}
	for name, content := range files {
		o, err := LoadOptions(writeConfig(t, name, content))
		if err != nil {
			t.Fatalf("%s: LoadOptions failed, details: %v", name, err)
		}
		if o.Document.UndoLimit != 7 || o.Storage.Driver != DriverFS || o.Storage.Format != FormatCBOR {
			t.Errorf("%s: unexpected options %+v", name, o)
		}
		// Untouched fields keep their defaults.
		if o.SaveConcurrency != 4 || o.Document.Data.AbortPolicy != AbortRollback {
			t.Errorf("%s: defaults lost, got %+v", name, o)
		}
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.json")); !IsCode(err, FileIOError) {
		t.Errorf("missing file got %v, want FileIOError", err)
	}
	if _, err := LoadOptions(writeConfig(t, "ocaf.ini", "x=1")); err == nil {
		t.Error("unsupported extension accepted")
	}
	if _, err := LoadOptions(writeConfig(t, "bad.json", `{"storage": {"driver": "tape"}}`)); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	o := DefaultOptions()
	o.Document.Data.AbortPolicy = "panic"
	if o.Validate() == nil {
		t.Error("unknown abort policy accepted")
	}
	o = DefaultOptions()
	o.Storage.Driver = DriverFS
	o.Storage.Folders = []string{"a"}
	o.Storage.ErasureConfig = &ErasureCodingConfig{DataShardsCount: 2, ParityShardsCount: 1, BaseFolderPathsAcrossDrives: []string{"a", "b"}}
	if o.Validate() == nil {
		t.Error("erasure config with too few folders accepted")
	}
	o.Storage.ErasureConfig.BaseFolderPathsAcrossDrives = append(o.Storage.ErasureConfig.BaseFolderPathsAcrossDrives, "c")
	if err := o.Validate(); err != nil {
		t.Errorf("valid erasure config rejected: %v", err)
	}
	o = DefaultOptions()
	o.Storage.Driver = DriverS3
	o.Storage.S3 = &S3Config{}
	if o.Validate() == nil {
		t.Error("s3 without bucket accepted")
	}
}
