// Package ocaf defines the shared types and helpers used across the OCAF document store:
// error codes, logging setup, retry policy, UUIDs and the configuration model.
//
// The engine itself lives in subpackages. Package arena provides the block allocator that
// backs label nodes, package tdf implements the label tree, attribute storage, transactions,
// deltas and undo, package stdattr ships the standard attribute kinds and package document
// layers a command/undo stack on top of a tdf.Data. Persistence is handled by package storage
// and its drivers (fs, redis, s3, cassandra), and package application manages a set of open
// documents.
//
// See `tdf` for the transactional label-tree core.
package ocaf

// Concurrency model
//
// A tdf.Data and everything it owns (labels, attributes, arena, transaction log) is
// single-writer and not safe for concurrent use. Applications that share a document across
// goroutines must serialize every call on it with their own lock. The application package
// guards only its registry of documents.
