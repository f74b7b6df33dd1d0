// Package txcontext keeps track of what has happened while handling one consensus
// transaction and builds its record.
package txcontext

import (
	"time"

	"github.com/alphabill-org/feecharging/internal/types"
)

// TransactionContext is the state of the consensus transaction being handled. It is reset
// with ResetFor at the start of every transaction and must not be used concurrently.
type TransactionContext interface {
	// ResetFor clears all state and starts handling txn submitted by the member.
	ResetFor(txn *types.Transaction, consensusTime time.Time, submittingMember uint64) error

	IsPayerSigKnownActive() bool
	// PayerSigIsKnownActive marks the payer signatures valid, there is no way back.
	PayerSigIsKnownActive()

	SubmittingNodeAccount() types.AccountID
	SubmittingSwirldsMember() uint64
	ActivePayer() (types.AccountID, error)
	// ActivePayerKey returns the payer key if its signature is known active, an empty key otherwise.
	ActivePayerKey() (types.Key, error)
	ConsensusTime() time.Time
	Accessor() (*types.Transaction, error)

	Status() types.ResponseCode
	SetStatus(status types.ResponseCode)

	// RecordSoFar builds the record from the current state, every call rebuilds it.
	RecordSoFar() (*types.TransactionRecord, error)
	// UpdatedRecordGiven replaces the transfer list and fee of the last built record.
	UpdatedRecordGiven(transfers *types.TransferList) (*types.TransactionRecord, error)

	SetCreatedFile(id types.FileID)
	SetCreatedAccount(id types.AccountID)
	SetCreatedContract(id types.ContractID)
	SetCreatedTopic(id types.TopicID)
	SetCallResult(result *types.ContractFunctionResult)
	SetCreateResult(result *types.ContractFunctionResult)
	AddNonThresholdFeeChargedToPayer(amount uint64)
	SetTopicRunningHash(runningHash []byte, sequenceNumber uint64)
}

// EffectivePayer is the active payer if its signature is known active, otherwise the
// submitting node pays.
func EffectivePayer(tc TransactionContext) (types.AccountID, error) {
	if tc.IsPayerSigKnownActive() {
		return tc.ActivePayer()
	}
	return tc.SubmittingNodeAccount(), nil
}
