package memorydb

import (
	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb"
)

// Tx works on a copy of the map which replaces the db map on Commit. Only one
// read-write transaction may be open at a time.
type Tx struct {
	mem *MemoryDB
	db  map[string][]byte
}

var errTxClosed = errors.New("memdb tx closed")

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	result := make(map[K]V, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

func (t *Tx) Read(key []byte, v any) (bool, error) {
	if err := keyvaluedb.CheckKeyAndValue(key, v); err != nil {
		return false, err
	}
	if t.db == nil {
		return false, errTxClosed
	}
	if data, ok := t.db[string(key)]; ok {
		return true, t.mem.decoder(data, v)
	}
	return false, nil
}

func (t *Tx) Write(key []byte, value any) error {
	if err := keyvaluedb.CheckKeyAndValue(key, value); err != nil {
		return err
	}
	if t.db == nil {
		return errTxClosed
	}
	b, err := t.mem.encoder(value)
	if err != nil {
		return errors.Wrap(err, "memdb tx encode failed")
	}
	t.mem.lock.RLock()
	writeErr := t.mem.writeErr
	t.mem.lock.RUnlock()
	if writeErr != nil {
		return writeErr
	}
	t.db[string(key)] = b
	return nil
}

func (t *Tx) Delete(key []byte) error {
	if err := keyvaluedb.CheckKey(key); err != nil {
		return err
	}
	if t.db == nil {
		return errTxClosed
	}
	delete(t.db, string(key))
	return nil
}

func (t *Tx) Rollback() error {
	t.db = nil
	return nil
}

func (t *Tx) Commit() error {
	if t.db == nil {
		return errTxClosed
	}
	t.mem.lock.Lock()
	defer t.mem.lock.Unlock()
	t.mem.db = t.db
	t.db = nil
	return nil
}
