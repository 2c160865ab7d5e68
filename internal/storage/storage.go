// Package storage defines the key-value abstraction the triple store is
// built on, with a BadgerDB-backed implementation.
package storage

import "errors"

var (
	// ErrNotFound is returned when a key does not exist
	ErrNotFound = errors.New("key not found")
	// ErrTransactionRO is returned when writing to a read-only transaction
	ErrTransactionRO = errors.New("transaction is read-only")
)

// Table identifies a logical keyspace within the storage
type Table byte

const (
	// TableID2Str maps term hashes to their string representations
	TableID2Str Table = iota
	// TableSPO indexes triples as subject-predicate-object
	TableSPO
	// TablePOS indexes triples as predicate-object-subject
	TablePOS
	// TableOSP indexes triples as object-subject-predicate
	TableOSP
)

// TablePrefix returns the key prefix for a table
func TablePrefix(table Table) []byte {
	return []byte{byte(table)}
}

// PrefixKey prepends the table prefix to a key
func PrefixKey(table Table, key []byte) []byte {
	prefixed := make([]byte, 0, 1+len(key))
	prefixed = append(prefixed, byte(table))
	prefixed = append(prefixed, key...)
	return prefixed
}

// Storage is a transactional key-value store partitioned into tables
type Storage interface {
	// Begin starts a new transaction
	Begin(writable bool) (Transaction, error)
	// Close closes the storage
	Close() error
	// Sync flushes writes to disk
	Sync() error
}

// Transaction provides atomic access to the storage
type Transaction interface {
	// Get retrieves a value by key, returning ErrNotFound if absent
	Get(table Table, key []byte) ([]byte, error)
	// Set stores a key-value pair
	Set(table Table, key, value []byte) error
	// Delete removes a key
	Delete(table Table, key []byte) error
	// Scan iterates over a key range [start, end) within a table
	Scan(table Table, start, end []byte) (Iterator, error)
	// Commit commits the transaction
	Commit() error
	// Rollback discards the transaction
	Rollback() error
}

// Iterator walks over a key range in ascending key order
type Iterator interface {
	// Next advances to the next item, returning false when exhausted
	Next() bool
	// Key returns the current key without the table prefix
	Key() []byte
	// Value returns the current value
	Value() ([]byte, error)
	// Close closes the iterator
	Close() error
}
