package charging

import (
	"golang.org/x/exp/slices"

	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

// ItemizedFees returns the charges of the current transaction in canonical order.
//
// Fees of a transaction submitted by an irresponsible node are itemized as:
//  1. received by funding, sent by the submitting node, for network operating costs.
//
// Fees of a correctly signed transaction submitted by a responsible node are itemized as:
//  1. received by funding, sent by the payer, for network operating costs;
//  2. received by the node, sent by the payer, for handling costs;
//  3. received by funding, sent by the payer, for service costs;
//  4. sent by the payer, received by funding, for record caching costs.
//
// Both are followed by one threshold record fee pair per interested participant (received
// by funding, sent by the participant), ordered by participant account id.
//
// The record caching pair is sender first so it can be told apart from the service and
// threshold record fees.
func (c *ItemizableFeeCharging) ItemizedFees() *types.TransferList {
	tl := &types.TransferList{}
	if !c.submittingNodeFeesCharged.IsEmpty() {
		c.includeIfCharged(tl, fees.Network, c.submittingNode, &c.submittingNodeFeesCharged)
	} else {
		for _, ft := range fees.NetworkNodeServiceFees.With(fees.CacheRecord).Types() {
			c.includeIfCharged(tl, ft, c.payer, &c.payerFeesCharged)
		}
	}

	if len(c.thresholdFeePayers) > 0 {
		amount := c.feeAmounts.GetOrZero(fees.ThresholdRecord)
		payers := make([]types.AccountID, 0, len(c.thresholdFeePayers))
		for id := range c.thresholdFeePayers {
			payers = append(payers, id)
		}
		slices.SortFunc(payers, func(a, b types.AccountID) bool { return a.Compare(b) < 0 })
		for _, id := range payers {
			tl.AccountAmounts = append(tl.AccountAmounts, receiverFirst(id, c.funding, amount)...)
		}
	}
	return tl
}

func (c *ItemizableFeeCharging) includeIfCharged(tl *types.TransferList, fee fees.FeeType, source types.AccountID, charged *fees.Amounts) {
	amount, ok := charged.Get(fee)
	if !ok {
		return
	}
	receiver := c.funding
	if fee == fees.Node {
		receiver = c.node
	}
	if fee == fees.CacheRecord {
		tl.AccountAmounts = append(tl.AccountAmounts, senderFirst(source, receiver, amount)...)
	} else {
		tl.AccountAmounts = append(tl.AccountAmounts, receiverFirst(source, receiver, amount)...)
	}
}

// amounts never exceed fees.MaxAmount, the int64 conversion keeps the sign
func receiverFirst(payer, receiver types.AccountID, amount uint64) []*types.AccountAmount {
	return []*types.AccountAmount{
		types.NewAccountAmount(receiver, int64(amount)),
		types.NewAccountAmount(payer, -int64(amount)),
	}
}

func senderFirst(payer, receiver types.AccountID, amount uint64) []*types.AccountAmount {
	return []*types.AccountAmount{
		types.NewAccountAmount(payer, -int64(amount)),
		types.NewAccountAmount(receiver, int64(amount)),
	}
}
