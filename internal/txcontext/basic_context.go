package txcontext

import (
	"crypto"
	"time"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/logger"
	"github.com/alphabill-org/feecharging/internal/metrics"
	"github.com/alphabill-org/feecharging/internal/types"
)

var (
	ErrNoActiveTransaction = errors.Wrap(errors.ErrInvalidState, "no active transaction")
	ErrNoRecordToUpdate    = errors.Wrap(errors.ErrInvalidState, "no record built for the active transaction")
)

var _ TransactionContext = (*BasicTransactionContext)(nil)

type (
	BasicTransactionContext struct {
		addressBook   AddressBook
		keys          AccountKeys
		itemizer      FeeItemizer
		hashAlgorithm crypto.Hash
		log           logger.Logger

		scope txScope
	}

	// txScope is everything that is cleared between transactions.
	txScope struct {
		txn                   *types.Transaction
		consensusTime         time.Time
		submittingMember      uint64
		submittingNode        types.AccountID
		payerSigKnownActive   bool
		status                types.ResponseCode
		createdFile           *types.FileID
		createdAccount        *types.AccountID
		createdContract       *types.ContractID
		createdTopic          *types.TopicID
		callResult            *types.ContractFunctionResult
		createResult          *types.ContractFunctionResult
		otherNonThresholdFees uint64
		record                *types.TransactionRecord
		topicRunningHash      []byte
		topicSequenceNumber   uint64
		topicHashSet          bool
	}

	Option func(c *BasicTransactionContext)
)

func WithHashAlgorithm(hashAlgorithm crypto.Hash) Option {
	return func(c *BasicTransactionContext) {
		c.hashAlgorithm = hashAlgorithm
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *BasicTransactionContext) {
		c.log = l
	}
}

func New(addressBook AddressBook, keys AccountKeys, itemizer FeeItemizer, opts ...Option) (*BasicTransactionContext, error) {
	if addressBook == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "address book is missing")
	}
	if keys == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "account keys are missing")
	}
	if itemizer == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "fee itemizer is missing")
	}
	c := &BasicTransactionContext{
		addressBook:   addressBook,
		keys:          keys,
		itemizer:      itemizer,
		hashAlgorithm: crypto.SHA256,
		log:           logger.CreateForPackage(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *BasicTransactionContext) ResetFor(txn *types.Transaction, consensusTime time.Time, submittingMember uint64) error {
	if txn == nil {
		return errors.Wrap(errors.ErrInvalidArgument, "transaction is nil")
	}
	node, err := c.addressBook.NodeAccount(submittingMember)
	if err != nil {
		return errors.Wrap(err, "resolving submitting node")
	}
	c.scope = txScope{
		txn:              txn,
		consensusTime:    consensusTime,
		submittingMember: submittingMember,
		submittingNode:   node,
		status:           types.Unknown,
	}
	return nil
}

func (c *BasicTransactionContext) IsPayerSigKnownActive() bool {
	return c.scope.payerSigKnownActive
}

func (c *BasicTransactionContext) PayerSigIsKnownActive() {
	c.scope.payerSigKnownActive = true
}

func (c *BasicTransactionContext) SubmittingNodeAccount() types.AccountID {
	return c.scope.submittingNode
}

func (c *BasicTransactionContext) SubmittingSwirldsMember() uint64 {
	return c.scope.submittingMember
}

func (c *BasicTransactionContext) ActivePayer() (types.AccountID, error) {
	if c.scope.txn == nil {
		return types.AccountID{}, ErrNoActiveTransaction
	}
	return c.scope.txn.Payer(), nil
}

func (c *BasicTransactionContext) ActivePayerKey() (types.Key, error) {
	payer, err := c.ActivePayer()
	if err != nil {
		return nil, err
	}
	if !c.scope.payerSigKnownActive {
		return types.Key{}, nil
	}
	return c.keys.KeyOf(payer), nil
}

func (c *BasicTransactionContext) ConsensusTime() time.Time {
	return c.scope.consensusTime
}

func (c *BasicTransactionContext) Accessor() (*types.Transaction, error) {
	if c.scope.txn == nil {
		return nil, ErrNoActiveTransaction
	}
	return c.scope.txn, nil
}

func (c *BasicTransactionContext) Status() types.ResponseCode {
	return c.scope.status
}

func (c *BasicTransactionContext) SetStatus(status types.ResponseCode) {
	c.scope.status = status
}

func (c *BasicTransactionContext) RecordSoFar() (*types.TransactionRecord, error) {
	txn := c.scope.txn
	if txn == nil {
		return nil, ErrNoActiveTransaction
	}
	hash, err := txn.Hash(c.hashAlgorithm)
	if err != nil {
		return nil, errors.Wrap(err, "hashing transaction")
	}
	receipt := &types.TransactionReceipt{
		Status:     c.scope.status,
		FileID:     c.scope.createdFile,
		AccountID:  c.scope.createdAccount,
		ContractID: c.scope.createdContract,
		TopicID:    c.scope.createdTopic,
	}
	if c.scope.topicHashSet {
		receipt.TopicRunningHash = c.scope.topicRunningHash
		receipt.TopicSequenceNumber = c.scope.topicSequenceNumber
	}
	c.scope.record = &types.TransactionRecord{
		Receipt:              receipt,
		TransactionHash:      hash,
		ConsensusTimestamp:   types.TimestampFrom(c.scope.consensusTime),
		TransactionID:        txn.TransactionID,
		Memo:                 txn.Memo,
		TransactionFee:       c.itemizer.TotalNonThresholdFeesChargedToPayer() + c.scope.otherNonThresholdFees,
		TransferList:         c.itemizer.ItemizedFees(),
		ContractCallResult:   c.scope.callResult,
		ContractCreateResult: c.scope.createResult,
	}
	metrics.RecordBuilt()
	return c.scope.record, nil
}

func (c *BasicTransactionContext) UpdatedRecordGiven(transfers *types.TransferList) (*types.TransactionRecord, error) {
	if c.scope.txn == nil {
		return nil, ErrNoActiveTransaction
	}
	if c.scope.record == nil {
		return nil, ErrNoRecordToUpdate
	}
	r := c.scope.record.Copy()
	r.TransferList = transfers
	r.TransactionFee = c.itemizer.TotalNonThresholdFeesChargedToPayer() + c.scope.otherNonThresholdFees
	c.scope.record = r
	return r, nil
}

func (c *BasicTransactionContext) SetCreatedFile(id types.FileID) {
	c.warnOverwrite("file", c.scope.createdFile != nil, id)
	c.scope.createdFile = &id
}

func (c *BasicTransactionContext) SetCreatedAccount(id types.AccountID) {
	c.warnOverwrite("account", c.scope.createdAccount != nil, id)
	c.scope.createdAccount = &id
}

func (c *BasicTransactionContext) SetCreatedContract(id types.ContractID) {
	c.warnOverwrite("contract", c.scope.createdContract != nil, id)
	c.scope.createdContract = &id
}

func (c *BasicTransactionContext) SetCreatedTopic(id types.TopicID) {
	c.warnOverwrite("topic", c.scope.createdTopic != nil, id)
	c.scope.createdTopic = &id
}

// last write wins, one created entity per kind is expected
func (c *BasicTransactionContext) warnOverwrite(kind string, isSet bool, id any) {
	if isSet {
		c.log.Warning("Created %s of transaction %v overwritten with %v", kind, c.scope.txn.TransactionID, id)
	}
}

func (c *BasicTransactionContext) SetCallResult(result *types.ContractFunctionResult) {
	c.scope.callResult = result
}

func (c *BasicTransactionContext) SetCreateResult(result *types.ContractFunctionResult) {
	c.scope.createResult = result
}

func (c *BasicTransactionContext) AddNonThresholdFeeChargedToPayer(amount uint64) {
	c.scope.otherNonThresholdFees += amount
}

func (c *BasicTransactionContext) SetTopicRunningHash(runningHash []byte, sequenceNumber uint64) {
	c.scope.topicRunningHash = runningHash
	c.scope.topicSequenceNumber = sequenceNumber
	c.scope.topicHashSet = true
}
