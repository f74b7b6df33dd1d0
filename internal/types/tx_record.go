package types

import (
	"crypto"
)

type (
	// AccountAmount is one signed entry of a transfer list, positive for credit.
	AccountAmount struct {
		_         struct{} `cbor:",toarray"`
		AccountID AccountID
		Amount    int64
	}

	// TransferList is an ordered list of credits and debits. The order is part of the
	// agreed record and must be the same on every node.
	TransferList struct {
		_              struct{} `cbor:",toarray"`
		AccountAmounts []*AccountAmount
	}

	ContractFunctionResult struct {
		_                  struct{} `cbor:",toarray"`
		ContractID         ContractID
		ContractCallResult []byte
		ErrorMessage       string
		Bloom              []byte
		GasUsed            uint64
		CreatedContractIDs []ContractID
	}

	// TransactionReceipt is the part of the record that receipt queries return.
	TransactionReceipt struct {
		_                   struct{} `cbor:",toarray"`
		Status              ResponseCode
		AccountID           *AccountID
		FileID              *FileID
		ContractID          *ContractID
		TopicID             *TopicID
		TopicRunningHash    []byte
		TopicSequenceNumber uint64
	}

	// TransactionRecord is the outcome of handling one consensus transaction.
	TransactionRecord struct {
		_                    struct{} `cbor:",toarray"`
		Receipt              *TransactionReceipt
		TransactionHash      []byte
		ConsensusTimestamp   Timestamp
		TransactionID        TransactionID
		Memo                 string
		TransactionFee       uint64
		TransferList         *TransferList
		ContractCallResult   *ContractFunctionResult
		ContractCreateResult *ContractFunctionResult
	}
)

// NewAccountAmount is a shorthand for a transfer list entry.
func NewAccountAmount(id AccountID, amount int64) *AccountAmount {
	return &AccountAmount{AccountID: id, Amount: amount}
}

// Sum returns the sum of all amounts, zero for a balanced list.
func (tl *TransferList) Sum() int64 {
	if tl == nil {
		return 0
	}
	var sum int64
	for _, aa := range tl.AccountAmounts {
		sum += aa.Amount
	}
	return sum
}

func (tl *TransferList) Len() int {
	if tl == nil {
		return 0
	}
	return len(tl.AccountAmounts)
}

// Bytes returns canonical CBOR encoding of the record.
func (r *TransactionRecord) Bytes() ([]byte, error) {
	return encMode.Marshal(r)
}

func (r *TransactionRecord) Hash(algorithm crypto.Hash) ([]byte, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return hash(algorithm, b)
}

func (r *TransactionRecord) GetTransactionFee() uint64 {
	if r == nil {
		return 0
	}
	return r.TransactionFee
}

func (r *TransactionRecord) GetStatus() ResponseCode {
	if r == nil || r.Receipt == nil {
		return Unknown
	}
	return r.Receipt.Status
}

// Copy returns a shallow copy of the record with its own TransferList slice, so the
// copy can be updated without changing records handed out earlier.
func (r *TransactionRecord) Copy() *TransactionRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.TransferList != nil {
		c.TransferList = &TransferList{AccountAmounts: append([]*AccountAmount(nil), r.TransferList.AccountAmounts...)}
	}
	return &c
}
