// Package charging charges transaction fees against the balance ledger and itemizes
// them into the canonical transfer list of the transaction record.
package charging

import (
	"github.com/alphabill-org/feecharging/internal/config"
	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/ledger"
	"github.com/alphabill-org/feecharging/internal/logger"
	"github.com/alphabill-org/feecharging/internal/metrics"
	"github.com/alphabill-org/feecharging/internal/types"
)

var (
	ErrLedgerMissing     = errors.Wrap(errors.ErrInvalidConfiguration, "ledger is missing")
	ErrExemptionsMissing = errors.Wrap(errors.ErrInvalidConfiguration, "fee exemptions are missing")
	ErrPropertiesMissing = errors.Wrap(errors.ErrInvalidConfiguration, "property source is missing")

	errNoTransaction = errors.Wrap(errors.ErrInvalidState, "fee charging is not reset for a transaction")
)

// ItemizableFeeCharging charges fees for one consensus transaction at a time and keeps
// track of who paid what, so that the charges can be itemized in the transaction record.
// It is reset with ResetFor at the start of every transaction and must not be used
// concurrently.
type ItemizableFeeCharging struct {
	ledger     ledger.BalanceLedger
	exemptions fees.Exemptions
	properties config.PropertySource
	log        logger.Logger

	txn            *types.Transaction
	payer          types.AccountID
	node           types.AccountID
	funding        types.AccountID
	submittingNode types.AccountID
	payerExempt    bool
	feeAmounts     fees.Amounts

	payerFeesCharged          fees.Amounts
	submittingNodeFeesCharged fees.Amounts
	thresholdFeePayers        map[types.AccountID]struct{}
}

func New(opts ...Option) (*ItemizableFeeCharging, error) {
	c := &ItemizableFeeCharging{
		log:                logger.CreateForPackage(),
		thresholdFeePayers: make(map[types.AccountID]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	if err := validConfiguration(c); err != nil {
		return nil, errors.Wrap(err, "invalid fee charging configuration")
	}
	return c, nil
}

func validConfiguration(c *ItemizableFeeCharging) error {
	if c.ledger == nil {
		return ErrLedgerMissing
	}
	if c.exemptions == nil {
		return ErrExemptionsMissing
	}
	if c.properties == nil {
		return ErrPropertiesMissing
	}
	return nil
}

// ResetFor clears all charges and prepares to charge the fees of txn. Fee amounts and
// the funding account are read from the property source.
func (c *ItemizableFeeCharging) ResetFor(txn *types.Transaction, submittingNode types.AccountID) error {
	if txn == nil {
		return errors.Wrap(errors.ErrInvalidArgument, "transaction is nil")
	}
	funding, err := c.properties.AccountProperty(config.KeyFundingAccount)
	if err != nil {
		return errors.Wrap(err, "reading funding account")
	}
	var amounts fees.Amounts
	for _, ft := range fees.AllFeeTypes() {
		amount, err := c.properties.Uint64Property(config.FeeKey(ft))
		if err != nil {
			return errors.Wrapf(err, "reading %s fee", ft)
		}
		if amount > fees.MaxAmount {
			return errors.Wrapf(errors.ErrInvalidArgument, "configured %s fee %d exceeds the maximum fee amount", ft, amount)
		}
		amounts.Put(ft, amount)
	}

	c.txn = txn
	c.payer = txn.Payer()
	c.node = txn.NodeAccountID
	c.funding = funding
	c.submittingNode = submittingNode
	c.payerExempt = c.exemptions.IsPayerExempt(c.payer)
	c.feeAmounts = amounts

	c.payerFeesCharged.Clear()
	c.submittingNodeFeesCharged.Clear()
	for id := range c.thresholdFeePayers {
		delete(c.thresholdFeePayers, id)
	}
	return nil
}

func (c *ItemizableFeeCharging) Funding() types.AccountID {
	return c.funding
}

func (c *ItemizableFeeCharging) SubmittingNode() types.AccountID {
	return c.submittingNode
}

// TotalNonThresholdFeesChargedToPayer sums the fees recorded for the payer.
func (c *ItemizableFeeCharging) TotalNonThresholdFeesChargedToPayer() uint64 {
	return c.payerFeesCharged.Sum()
}

func (c *ItemizableFeeCharging) ChargedToPayer(fee fees.FeeType) uint64 {
	return c.payerFeesCharged.GetOrZero(fee)
}

func (c *ItemizableFeeCharging) ChargedToSubmittingNode(fee fees.FeeType) uint64 {
	return c.submittingNodeFeesCharged.GetOrZero(fee)
}

func (c *ItemizableFeeCharging) NumThresholdFeesCharged() int {
	return len(c.thresholdFeePayers)
}

// ChargeParticipant charges the configured amount of every fee in the set from the
// participant. The node fee goes to the node account, everything else to funding.
func (c *ItemizableFeeCharging) ChargeParticipant(participant types.AccountID, fs fees.FeeSet) error {
	if c.txn == nil {
		return errNoTransaction
	}
	return c.pay(fs,
		func() error { return c.charge(participant, c.node, fees.Node) },
		func(ft fees.FeeType) error { return c.charge(participant, c.funding, ft) })
}

func (c *ItemizableFeeCharging) ChargePayer(fs fees.FeeSet) error {
	if c.txn == nil {
		return errNoTransaction
	}
	return c.ChargeParticipant(c.payer, fs)
}

// ChargePayerUpTo charges like ChargePayer but never more than the payer's balance.
func (c *ItemizableFeeCharging) ChargePayerUpTo(fs fees.FeeSet) error {
	if c.txn == nil {
		return errNoTransaction
	}
	return c.pay(fs,
		func() error { return c.chargeUpTo(c.payer, c.node, fees.Node) },
		func(ft fees.FeeType) error { return c.chargeUpTo(c.payer, c.funding, ft) })
}

// ChargeSubmittingNodeUpTo charges the submitting node for a transaction it should not
// have submitted. The node fee is never charged from the submitting node.
func (c *ItemizableFeeCharging) ChargeSubmittingNodeUpTo(fs fees.FeeSet) error {
	if c.txn == nil {
		return errNoTransaction
	}
	return c.pay(fs,
		func() error { return nil },
		func(ft fees.FeeType) error { return c.chargeUpTo(c.submittingNode, c.funding, ft) })
}

// pay makes the funding payments before the node payment.
func (c *ItemizableFeeCharging) pay(fs fees.FeeSet, nodePayment func() error, fundingPayment func(fees.FeeType) error) error {
	for _, ft := range fs.Without(fees.Node).Types() {
		if err := fundingPayment(ft); err != nil {
			return err
		}
	}
	if fs.Contains(fees.Node) {
		return nodePayment()
	}
	return nil
}

func (c *ItemizableFeeCharging) charge(payer, payee types.AccountID, fee fees.FeeType) error {
	if c.noCharge(payer, payee, fee) {
		return nil
	}
	return c.completeNonVanishing(payer, payee, c.feeAmounts.GetOrZero(fee), fee)
}

func (c *ItemizableFeeCharging) chargeUpTo(payer, payee types.AccountID, fee fees.FeeType) error {
	if c.noCharge(payer, payee, fee) {
		return nil
	}
	amount := c.feeAmounts.GetOrZero(fee)
	if balance := c.ledger.GetBalance(payer); balance < amount {
		amount = balance
	}
	return c.completeNonVanishing(payer, payee, amount, fee)
}

func (c *ItemizableFeeCharging) completeNonVanishing(payer, payee types.AccountID, amount uint64, fee fees.FeeType) error {
	if amount == 0 {
		metrics.ChargeSuppressed(fee, metrics.ReasonZeroAmount)
		return nil
	}
	if err := c.ledger.Transfer(payer, payee, amount); err != nil {
		c.log.Error("%s fee transfer of %d from %s to %s failed: %v", fee, amount, payer, payee, err)
		return errors.Wrapf(errors.ErrLedgerIntegrity, "%s fee transfer of %d from %s to %s: %v", fee, amount, payer, payee, err)
	}
	c.log.Debug("Charged %s fee %d from %s to %s", fee, amount, payer, payee)
	metrics.FeeCharged(fee, amount)
	c.updateRecords(payer, fee, amount)
	return nil
}

func (c *ItemizableFeeCharging) noCharge(payer, payee types.AccountID, fee fees.FeeType) bool {
	switch {
	case payer.Eq(payee):
		metrics.ChargeSuppressed(fee, metrics.ReasonSameAccount)
		return true
	case payer.Eq(c.payer) && c.payerExempt:
		metrics.ChargeSuppressed(fee, metrics.ReasonExemptPayer)
		return true
	case fee == fees.ThresholdRecord && c.exemptions.IsExemptFromRecordFees(payer):
		metrics.ChargeSuppressed(fee, metrics.ReasonRecordExempt)
		return true
	default:
		return false
	}
}

func (c *ItemizableFeeCharging) updateRecords(source types.AccountID, fee fees.FeeType, amount uint64) {
	if fee == fees.ThresholdRecord {
		c.thresholdFeePayers[source] = struct{}{}
		return
	}
	if source.Eq(c.payer) {
		c.payerFeesCharged.Put(fee, amount)
	}
	if source.Eq(c.submittingNode) {
		c.submittingNodeFeesCharged.Put(fee, amount)
	}
}
