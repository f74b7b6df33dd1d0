package types

import (
	"crypto"
	_ "crypto/sha256"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/alphabill-org/feecharging/internal/errors"
)

type (
	// Timestamp is a consensus or client time with nanosecond precision.
	Timestamp struct {
		_       struct{} `cbor:",toarray"`
		Seconds int64
		Nanos   int32
	}

	// TransactionID is unique per payer and valid start time.
	TransactionID struct {
		_          struct{} `cbor:",toarray"`
		Payer      AccountID
		ValidStart Timestamp
	}

	// Transaction is a signed transaction as it was ordered by consensus.
	Transaction struct {
		_             struct{} `cbor:",toarray"`
		TransactionID TransactionID
		// NodeAccountID is the account of the node the payer designated to receive the node fee.
		NodeAccountID AccountID
		// TransactionFee is the maximum fee the payer is willing to pay.
		TransactionFee uint64
		Memo           string
		Body           []byte
		Signatures     [][]byte
	}
)

func TimestampFrom(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

func (ts Timestamp) IsZero() bool {
	return ts.Seconds == 0 && ts.Nanos == 0
}

func (t *Transaction) Payer() AccountID {
	return t.TransactionID.Payer
}

// Bytes returns canonical CBOR encoding of the transaction.
func (t *Transaction) Bytes() ([]byte, error) {
	return encMode.Marshal(t)
}

func (t *Transaction) Hash(algorithm crypto.Hash) ([]byte, error) {
	b, err := t.Bytes()
	if err != nil {
		return nil, err
	}
	return hash(algorithm, b)
}

func hash(algorithm crypto.Hash, b []byte) ([]byte, error) {
	if !algorithm.Available() {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "hash algorithm %v is not available", algorithm)
	}
	hasher := algorithm.New()
	hasher.Write(b)
	return hasher.Sum(nil), nil
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}
