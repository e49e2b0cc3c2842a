package ocaf

// Version is the current version of the OCAF library.
const Version = "0.4.0"

// SnapshotFormatVersion is the version stamped into persisted document snapshots.
const SnapshotFormatVersion = 1
