// Package ledger holds account balances consumed by the fee charging engine.
package ledger

import (
	"encoding/binary"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb"
	"github.com/alphabill-org/feecharging/internal/logger"
	"github.com/alphabill-org/feecharging/internal/types"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
)

const accountKeyPrefix = "acc"

type (
	// BalanceLedger is the balance lookup and atomic transfer the charging engine works against.
	BalanceLedger interface {
		GetBalance(id types.AccountID) uint64
		Transfer(from, to types.AccountID, amount uint64) error
	}

	Account struct {
		_       struct{} `cbor:",toarray"`
		Balance uint64
		Key     types.Key
	}

	// KVLedger keeps accounts in a key value db, every transfer is a single db transaction.
	KVLedger struct {
		db  keyvaluedb.KeyValueDB
		log logger.Logger
	}

	Option func(*KVLedger)
)

var _ BalanceLedger = (*KVLedger)(nil)

func WithLogger(l logger.Logger) Option {
	return func(kl *KVLedger) {
		kl.log = l
	}
}

func New(db keyvaluedb.KeyValueDB, opts ...Option) (*KVLedger, error) {
	if db == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "ledger db is nil")
	}
	l := &KVLedger{db: db, log: logger.CreateForPackage()}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// AccountKey returns the db key the account is stored under. Keys sort in account id order.
func AccountKey(id types.AccountID) []byte {
	key := make([]byte, len(accountKeyPrefix)+24)
	n := copy(key, accountKeyPrefix)
	binary.BigEndian.PutUint64(key[n:], uint64(id.Shard))
	binary.BigEndian.PutUint64(key[n+8:], uint64(id.Realm))
	binary.BigEndian.PutUint64(key[n+16:], uint64(id.Num))
	return key
}

// CreateAccount adds a new account with the initial balance.
func (l *KVLedger) CreateAccount(id types.AccountID, balance uint64, key types.Key) (err error) {
	tx, err := l.db.StartTx()
	if err != nil {
		return errors.Wrap(err, "create account")
	}
	defer rollbackOnError(tx, &err)
	var acc Account
	found, err := tx.Read(AccountKey(id), &acc)
	if err != nil {
		return errors.Wrapf(err, "reading account %s", id)
	}
	if found {
		err = errors.Wrapf(ErrAccountExists, "account %s", id)
		return err
	}
	if err = tx.Write(AccountKey(id), &Account{Balance: balance, Key: key}); err != nil {
		return errors.Wrapf(err, "writing account %s", id)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "create account commit")
	}
	l.log.Debug("Created account %s with balance %d", id, balance)
	return nil
}

// GetAccount returns the stored account, ErrAccountNotFound if there is none.
func (l *KVLedger) GetAccount(id types.AccountID) (*Account, error) {
	acc := &Account{}
	found, err := l.db.Read(AccountKey(id), acc)
	if err != nil {
		return nil, errors.Wrapf(err, "reading account %s", id)
	}
	if !found {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", id)
	}
	return acc, nil
}

// GetBalance returns zero for unknown accounts.
func (l *KVLedger) GetBalance(id types.AccountID) uint64 {
	acc, err := l.GetAccount(id)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			l.log.Error("Balance lookup of %s failed: %v", id, err)
		}
		return 0
	}
	return acc.Balance
}

// KeyOf returns the key of the account, nil for unknown accounts.
func (l *KVLedger) KeyOf(id types.AccountID) types.Key {
	acc, err := l.GetAccount(id)
	if err != nil {
		return nil
	}
	return acc.Key
}

// Transfer moves amount from one account to another. The recipient account is created
// if it does not exist yet.
func (l *KVLedger) Transfer(from, to types.AccountID, amount uint64) (err error) {
	if from.Eq(to) || amount == 0 {
		return nil
	}
	tx, err := l.db.StartTx()
	if err != nil {
		return errors.Wrap(err, "transfer")
	}
	defer rollbackOnError(tx, &err)

	var src Account
	found, err := tx.Read(AccountKey(from), &src)
	if err != nil {
		return errors.Wrapf(err, "reading account %s", from)
	}
	if !found {
		return errors.Wrapf(ErrAccountNotFound, "transfer source %s", from)
	}
	if src.Balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "account %s balance %d, transfer %d", from, src.Balance, amount)
	}
	var dst Account
	if _, err = tx.Read(AccountKey(to), &dst); err != nil {
		return errors.Wrapf(err, "reading account %s", to)
	}
	src.Balance -= amount
	dst.Balance += amount
	if err = tx.Write(AccountKey(from), &src); err != nil {
		return errors.Wrapf(err, "writing account %s", from)
	}
	if err = tx.Write(AccountKey(to), &dst); err != nil {
		return errors.Wrapf(err, "writing account %s", to)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "transfer commit")
	}
	l.log.Trace("Transferred %d from %s to %s", amount, from, to)
	return nil
}

func rollbackOnError(tx keyvaluedb.DBTransaction, err *error) {
	if *err != nil {
		_ = tx.Rollback()
	}
}
