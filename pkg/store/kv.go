package store

import (
	"fmt"
	"path/filepath"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	badger3 "github.com/ipfs/go-ds-badger3"
)

// NewDefaultInMemoryKVStore builds a key-value store that works in-memory
// (without accessing disk).
func NewDefaultInMemoryKVStore() (ds.Batching, error) {
	return dssync.MutexWrap(ds.NewMapDatastore()), nil
}

// NewDefaultKVStore creates a Badger-backed key-value store under
// rootDir/dbPath/dbName.
func NewDefaultKVStore(rootDir, dbPath, dbName string) (ds.Batching, error) {
	path := filepath.Join(rootify(rootDir, dbPath), dbName)
	store, err := badger3.NewDatastore(path, &badger3.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open Badger datastore: %w", err)
	}
	return store, nil
}

func rootify(rootDir, dbPath string) string {
	if filepath.IsAbs(dbPath) {
		return dbPath
	}
	return filepath.Join(rootDir, dbPath)
}
