package charging

import (
	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

// SetFor overrides the amount of a fee for the current transaction. Amounts above
// fees.MaxAmount are rejected.
func (c *ItemizableFeeCharging) SetFor(fee fees.FeeType, amount uint64) error {
	if amount > fees.MaxAmount {
		return errors.Wrapf(errors.ErrInvalidArgument, "%s fee %d exceeds the maximum fee amount", fee, amount)
	}
	c.feeAmounts.Put(fee, amount)
	return nil
}

// AmountOf returns the amount the fee is charged with in the current transaction.
func (c *ItemizableFeeCharging) AmountOf(fee fees.FeeType) uint64 {
	return c.feeAmounts.GetOrZero(fee)
}

// IsPayerExempt returns true if the payer of the current transaction pays no fees.
func (c *ItemizableFeeCharging) IsPayerExempt() bool {
	return c.txn != nil && c.payerExempt
}

func (c *ItemizableFeeCharging) CanPayerAfford(fs fees.FeeSet) bool {
	if c.IsPayerExempt() {
		return true
	}
	return c.canAfford(c.payer, fs)
}

// IsPayerWillingToCover compares the fees to the maximum transaction fee set by the payer.
func (c *ItemizableFeeCharging) IsPayerWillingToCover(fs fees.FeeSet) bool {
	if c.IsPayerExempt() {
		return true
	}
	if c.txn == nil {
		return false
	}
	total, ok := c.feeAmounts.CheckedSumOf(fs)
	return ok && c.txn.TransactionFee >= total
}

// CanParticipantAfford ignores the threshold record fee for participants exempt from record fees.
func (c *ItemizableFeeCharging) CanParticipantAfford(participant types.AccountID, fs fees.FeeSet) bool {
	if fs.Contains(fees.ThresholdRecord) && c.exemptions.IsExemptFromRecordFees(participant) {
		fs = fs.Without(fees.ThresholdRecord)
	}
	return c.canAfford(participant, fs)
}

// an overflowing total is never affordable
func (c *ItemizableFeeCharging) canAfford(id types.AccountID, fs fees.FeeSet) bool {
	total, ok := c.feeAmounts.CheckedSumOf(fs)
	return ok && c.ledger.GetBalance(id) >= total
}
