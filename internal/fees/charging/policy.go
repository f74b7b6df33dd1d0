package charging

import (
	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

// Policy decides which fees of a transaction are charged, and from whom, given the
// calculated fees of the transaction.
type Policy struct {
	charging *ItemizableFeeCharging
}

func NewPolicy(c *ItemizableFeeCharging) *Policy {
	return &Policy{charging: c}
}

// Apply charges the node fee first and then the network and service fees. When the
// payer is unwilling or unable to pay the node fee, the submitting node pays the network
// fee instead. When the payer is unwilling or unable to pay the rest, it is charged as
// much as its balance allows. The returned code is OK if all fees were charged.
func (p *Policy) Apply(fee fees.FeeObject) (types.ResponseCode, error) {
	c := p.charging
	if err := setFees(c, fee); err != nil {
		return types.FailInvalid, err
	}

	if !c.IsPayerWillingToCover(fees.NodeFee) {
		return types.InsufficientTxFee, c.ChargeSubmittingNodeUpTo(fees.NetworkFee)
	}
	if !c.CanPayerAfford(fees.NodeFee) {
		return types.InsufficientPayerBalance, c.ChargeSubmittingNodeUpTo(fees.NetworkFee)
	}
	if err := c.ChargePayer(fees.NodeFee); err != nil {
		return types.FailInvalid, err
	}
	if !c.IsPayerWillingToCover(fees.NetworkNodeServiceFees) {
		return types.InsufficientTxFee, c.ChargePayerUpTo(fees.NetworkServiceFees)
	}
	if !c.CanPayerAfford(fees.NetworkServiceFees) {
		return types.InsufficientPayerBalance, c.ChargePayerUpTo(fees.NetworkServiceFees)
	}
	if err := c.ChargePayer(fees.NetworkServiceFees); err != nil {
		return types.FailInvalid, err
	}
	return types.OK, nil
}

// ApplyForIrresponsibleNode charges the submitting node up to the network fee, used when
// the node submitted a transaction without a valid payer signature.
func (p *Policy) ApplyForIrresponsibleNode(fee fees.FeeObject) error {
	c := p.charging
	if err := setFees(c, fee); err != nil {
		return err
	}
	return c.ChargeSubmittingNodeUpTo(fees.NetworkFee)
}

// setFees sets nothing unless all three amounts are valid.
func setFees(c *ItemizableFeeCharging, fee fees.FeeObject) error {
	for _, amount := range []uint64{fee.NodeFee, fee.NetworkFee, fee.ServiceFee} {
		if amount > fees.MaxAmount {
			return errors.Wrapf(errors.ErrInvalidArgument, "calculated fees %+v exceed the maximum fee amount", fee)
		}
	}
	_ = c.SetFor(fees.Node, fee.NodeFee)
	_ = c.SetFor(fees.Network, fee.NetworkFee)
	_ = c.SetFor(fees.Service, fee.ServiceFee)
	return nil
}
