// Package handling runs consensus transactions through fee charging and the transition
// logic, one at a time in consensus order.
package handling

import (
	"time"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/fees/charging"
	"github.com/alphabill-org/feecharging/internal/logger"
	"github.com/alphabill-org/feecharging/internal/metrics"
	"github.com/alphabill-org/feecharging/internal/records"
	"github.com/alphabill-org/feecharging/internal/txcontext"
	"github.com/alphabill-org/feecharging/internal/types"
)

type (
	// ConsensusTransaction is a transaction in consensus order together with the facts
	// established about it before handling.
	ConsensusTransaction struct {
		Transaction      *types.Transaction
		ConsensusTime    time.Time
		SubmittingMember uint64
		// PayerSigValid is the outcome of payer signature verification.
		PayerSigValid bool
		// Fees are the calculated node, network and service fees.
		Fees fees.FeeObject
		// CacheRecord charges the payer for caching the record.
		CacheRecord bool
		// ThresholdParticipants are charged a threshold record fee each.
		ThresholdParticipants []types.AccountID
	}

	// TransitionLogic applies the transaction to the state after the fees have been charged.
	TransitionLogic interface {
		Transition(tc txcontext.TransactionContext) (types.ResponseCode, error)
	}

	TransitionFunc func(tc txcontext.TransactionContext) (types.ResponseCode, error)

	Processor struct {
		txCtx    txcontext.TransactionContext
		charging *charging.ItemizableFeeCharging
		policy   *charging.Policy
		logic    TransitionLogic
		store    *records.Store
		log      logger.Logger
	}

	Option func(p *Processor)
)

func (f TransitionFunc) Transition(tc txcontext.TransactionContext) (types.ResponseCode, error) {
	return f(tc)
}

// NoOpTransition succeeds without changing state.
var NoOpTransition = TransitionFunc(func(txcontext.TransactionContext) (types.ResponseCode, error) {
	return types.Success, nil
})

func WithTransitionLogic(logic TransitionLogic) Option {
	return func(p *Processor) {
		p.logic = logic
	}
}

// WithRecordStore makes the processor persist every record it builds.
func WithRecordStore(s *records.Store) Option {
	return func(p *Processor) {
		p.store = s
	}
}

func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		p.log = l
	}
}

func NewProcessor(txCtx txcontext.TransactionContext, c *charging.ItemizableFeeCharging, opts ...Option) (*Processor, error) {
	if txCtx == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "transaction context is missing")
	}
	if c == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "fee charging is missing")
	}
	p := &Processor{
		txCtx:    txCtx,
		charging: c,
		policy:   charging.NewPolicy(c),
		logic:    NoOpTransition,
		log:      logger.CreateForPackage(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Process handles one consensus transaction and returns its record. An error means the
// node state can not be trusted anymore and processing must stop.
func (p *Processor) Process(ct *ConsensusTransaction) (*types.TransactionRecord, error) {
	if ct == nil || ct.Transaction == nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "consensus transaction is nil")
	}
	if err := p.txCtx.ResetFor(ct.Transaction, ct.ConsensusTime, ct.SubmittingMember); err != nil {
		return nil, errors.Wrap(err, "resetting transaction context")
	}
	if err := p.charging.ResetFor(ct.Transaction, p.txCtx.SubmittingNodeAccount()); err != nil {
		return nil, errors.Wrap(err, "resetting fee charging")
	}
	if ct.PayerSigValid {
		p.txCtx.PayerSigIsKnownActive()
	}

	if err := p.handle(ct); err != nil {
		return nil, err
	}

	if _, err := p.txCtx.RecordSoFar(); err != nil {
		return nil, errors.Wrap(err, "building record")
	}
	record, err := p.txCtx.UpdatedRecordGiven(p.charging.ItemizedFees())
	if err != nil {
		return nil, errors.Wrap(err, "updating record fees")
	}
	if p.store != nil {
		if err = p.store.Add(record); err != nil {
			return nil, errors.Wrap(err, "storing record")
		}
	}
	metrics.TransactionProcessed(record.GetStatus())
	p.log.Debug("Transaction %s handled at %v with status %s, fee %d",
		ct.Transaction.TransactionID.Payer, ct.ConsensusTime, record.GetStatus(), record.TransactionFee)
	return record, nil
}

func (p *Processor) handle(ct *ConsensusTransaction) error {
	if !p.txCtx.IsPayerSigKnownActive() {
		p.log.Warning("Payer signature of transaction from %s is not valid, charging submitting node %s",
			ct.Transaction.Payer(), p.txCtx.SubmittingNodeAccount())
		if err := p.policy.ApplyForIrresponsibleNode(ct.Fees); err != nil {
			return p.rejectFees(ct, err)
		}
		p.txCtx.SetStatus(types.InvalidPayerSignature)
		return nil
	}

	status, err := p.policy.Apply(ct.Fees)
	if err != nil {
		return p.rejectFees(ct, err)
	}
	if status != types.OK {
		p.txCtx.SetStatus(status)
		return nil
	}

	status, err = p.logic.Transition(p.txCtx)
	if err != nil {
		if errors.Is(err, errors.ErrLedgerIntegrity) {
			return err
		}
		p.log.Warning("Transition of transaction from %s failed: %v", ct.Transaction.Payer(), err)
		status = types.FailInvalid
	}
	p.txCtx.SetStatus(status)

	if ct.CacheRecord {
		if err = p.charging.ChargePayerUpTo(fees.CacheRecordFee); err != nil {
			return err
		}
	}
	if status == types.Success {
		for _, participant := range ct.ThresholdParticipants {
			if !p.charging.CanParticipantAfford(participant, fees.ThresholdRecordFee) {
				p.log.Debug("Participant %s can not afford a threshold record", participant)
				continue
			}
			if err = p.charging.ChargeParticipant(participant, fees.ThresholdRecordFee); err != nil {
				return err
			}
		}
	}
	return nil
}

// rejectFees fails the transaction when the calculated fees are invalid, nothing has been
// charged then. Any other error is returned.
func (p *Processor) rejectFees(ct *ConsensusTransaction, err error) error {
	if !errors.Is(err, errors.ErrInvalidArgument) {
		return err
	}
	p.log.Warning("Fees %+v of transaction from %s rejected: %v", ct.Fees, ct.Transaction.Payer(), err)
	p.txCtx.SetStatus(types.FailInvalid)
	return nil
}
