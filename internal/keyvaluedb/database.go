// Package keyvaluedb defines the key value storage used for account balances and
// transaction records.
package keyvaluedb

import "github.com/alphabill-org/feecharging/internal/errors"

// Reader interface for DB
type Reader interface {
	// Read decodes the value stored for key into value, returns false if the key is not found.
	Read(key []byte, value any) (bool, error)
}

// Writer interface for DB
type Writer interface {
	// Write encodes and stores the value for key.
	Write(key []byte, value any) error
	// Delete removes the key, deleting a missing key is not an error.
	Delete(key []byte) error
}

// DBTx interface for database transactions.
type DBTx interface {
	StartTx() (DBTransaction, error)
}

// Iterable creates iterators over the keys in binary-alphabetical order.
// NB! iterators MUST be released with Close() when done.
type Iterable interface {
	// First returns forward iterator starting with the first item, not valid if the DB is empty.
	First() Iterator
	// Find returns forward iterator positioned on the first key not less than key.
	Find(key []byte) Iterator
}

type Iterator interface {
	Next()
	Valid() bool
	// Key returns the key of the current item, nil if not valid.
	Key() []byte
	// Value decodes the value of the current item, error if not valid.
	Value(value any) error
	// Close releases associated resources, can be called more than once.
	Close() error
}

// DBTransaction is a read-write transaction. All transactions MUST be completed by
// either Commit() or Rollback().
type DBTransaction interface {
	Reader
	Writer
	Commit() error
	Rollback() error
}

type KeyValueDB interface {
	Reader
	Writer
	Iterable
	DBTx
}

// IsEmpty returns true if the key value DB is empty.
func IsEmpty(db KeyValueDB) (empty bool, err error) {
	if db == nil {
		return true, errors.Wrap(errors.ErrInvalidArgument, "db is nil")
	}
	it := db.First()
	defer func() { err = it.Close() }()
	return !it.Valid(), nil
}
