// Package records persists the records of handled transactions.
package records

import (
	"bytes"
	"encoding/binary"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb"
	"github.com/alphabill-org/feecharging/internal/types"
)

var (
	recordPrefix = []byte("rec")
	txIDPrefix   = []byte("txid")
	lastKey      = []byte("last")
)

// Store keeps records by consensus timestamp with an index by transaction id. Records
// must be added in consensus order.
type Store struct {
	db keyvaluedb.KeyValueDB
}

func NewStore(db keyvaluedb.KeyValueDB) (*Store, error) {
	if db == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "record store db is nil")
	}
	return &Store{db: db}, nil
}

func timestampKey(ts types.Timestamp) []byte {
	key := make([]byte, len(recordPrefix)+12)
	n := copy(key, recordPrefix)
	// flip the sign bit so that keys sort in time order
	binary.BigEndian.PutUint64(key[n:], uint64(ts.Seconds)^(1<<63))
	binary.BigEndian.PutUint32(key[n+8:], uint32(ts.Nanos))
	return key
}

func txIDKey(id types.TransactionID) []byte {
	key := make([]byte, len(txIDPrefix)+36)
	n := copy(key, txIDPrefix)
	binary.BigEndian.PutUint64(key[n:], uint64(id.Payer.Shard))
	binary.BigEndian.PutUint64(key[n+8:], uint64(id.Payer.Realm))
	binary.BigEndian.PutUint64(key[n+16:], uint64(id.Payer.Num))
	binary.BigEndian.PutUint64(key[n+24:], uint64(id.ValidStart.Seconds))
	binary.BigEndian.PutUint32(key[n+32:], uint32(id.ValidStart.Nanos))
	return key
}

// Add stores the record, its consensus timestamp must be after the one of the last record.
func (s *Store) Add(r *types.TransactionRecord) (err error) {
	if r == nil {
		return errors.Wrap(errors.ErrInvalidArgument, "record is nil")
	}
	var last types.Timestamp
	found, err := s.db.Read(lastKey, &last)
	if err != nil {
		return errors.Wrap(err, "reading last record timestamp")
	}
	if found && !after(r.ConsensusTimestamp, last) {
		return errors.Wrapf(errors.ErrInvalidArgument, "record at %v is not after the last record at %v", r.ConsensusTimestamp.Time(), last.Time())
	}

	tx, err := s.db.StartTx()
	if err != nil {
		return errors.Wrap(err, "adding record")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	tsKey := timestampKey(r.ConsensusTimestamp)
	if err = tx.Write(tsKey, r); err != nil {
		return errors.Wrap(err, "writing record")
	}
	if err = tx.Write(txIDKey(r.TransactionID), tsKey); err != nil {
		return errors.Wrap(err, "writing transaction id index")
	}
	if err = tx.Write(lastKey, &r.ConsensusTimestamp); err != nil {
		return errors.Wrap(err, "writing last record timestamp")
	}
	return tx.Commit()
}

func after(a, b types.Timestamp) bool {
	return a.Seconds > b.Seconds || (a.Seconds == b.Seconds && a.Nanos > b.Nanos)
}

// GetAt returns the record handled at the consensus timestamp, nil if there is none.
func (s *Store) GetAt(ts types.Timestamp) (*types.TransactionRecord, error) {
	return s.read(timestampKey(ts))
}

// Get returns the record of the transaction, nil if there is none.
func (s *Store) Get(id types.TransactionID) (*types.TransactionRecord, error) {
	var tsKey []byte
	found, err := s.db.Read(txIDKey(id), &tsKey)
	if err != nil {
		return nil, errors.Wrap(err, "reading transaction id index")
	}
	if !found {
		return nil, nil
	}
	return s.read(tsKey)
}

// Last returns the most recently added record, nil if the store is empty.
func (s *Store) Last() (*types.TransactionRecord, error) {
	var last types.Timestamp
	found, err := s.db.Read(lastKey, &last)
	if err != nil {
		return nil, errors.Wrap(err, "reading last record timestamp")
	}
	if !found {
		return nil, nil
	}
	return s.GetAt(last)
}

// ForEach calls fn with every record in consensus order until fn returns an error.
func (s *Store) ForEach(fn func(r *types.TransactionRecord) error) (err error) {
	it := s.db.Find(recordPrefix)
	defer func() {
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}()
	for ; it.Valid() && bytes.HasPrefix(it.Key(), recordPrefix); it.Next() {
		r := &types.TransactionRecord{}
		if err := it.Value(r); err != nil {
			return errors.Wrap(err, "decoding record")
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) read(key []byte) (*types.TransactionRecord, error) {
	r := &types.TransactionRecord{}
	found, err := s.db.Read(key, r)
	if err != nil {
		return nil, errors.Wrap(err, "reading record")
	}
	if !found {
		return nil, nil
	}
	return r, nil
}
