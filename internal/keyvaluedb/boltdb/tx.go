package boltdb

import (
	bolt "go.etcd.io/bbolt"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb"
)

type Tx struct {
	tx  *bolt.Tx
	b   *bolt.Bucket
	enc EncodeFn
	dec DecodeFn
}

var errTxClosed = errors.New("bolt tx closed")

func newBoltTx(db *bolt.DB, bucket []byte, e EncodeFn, d DecodeFn) (*Tx, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	tx, err := db.Begin(true)
	if err != nil {
		return nil, err
	}
	return &Tx{
		tx:  tx,
		b:   tx.Bucket(bucket),
		enc: e,
		dec: d,
	}, nil
}

// Read sees the writes done earlier in the same transaction.
func (t *Tx) Read(key []byte, v any) (bool, error) {
	if err := keyvaluedb.CheckKeyAndValue(key, v); err != nil {
		return false, err
	}
	if t.tx == nil {
		return false, errTxClosed
	}
	data := t.b.Get(key)
	if data == nil {
		return false, nil
	}
	if err := t.dec(data, v); err != nil {
		return true, errors.Wrap(err, "bolt tx decode failed")
	}
	return true, nil
}

func (t *Tx) Write(key []byte, value any) error {
	if err := keyvaluedb.CheckKeyAndValue(key, value); err != nil {
		return err
	}
	if t.tx == nil {
		return errTxClosed
	}
	b, err := t.enc(value)
	if err != nil {
		return errors.Wrap(err, "bolt tx encode failed")
	}
	return t.b.Put(key, b)
}

func (t *Tx) Delete(key []byte) error {
	if err := keyvaluedb.CheckKey(key); err != nil {
		return err
	}
	if t.tx == nil {
		return errTxClosed
	}
	return t.b.Delete(key)
}

func (t *Tx) Rollback() error {
	if t.tx == nil {
		return errTxClosed
	}
	err := t.tx.Rollback()
	t.tx, t.b = nil, nil
	return err
}

func (t *Tx) Commit() error {
	if t.tx == nil {
		return errTxClosed
	}
	err := t.tx.Commit()
	t.tx, t.b = nil, nil
	return err
}
