package charging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	abErrors "github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

var feeObject = fees.FeeObject{NodeFee: 5, NetworkFee: 10, ServiceFee: 2}

func TestPolicy_Apply(t *testing.T) {
	tests := []struct {
		name          string
		payerBalance  uint64
		maxFee        uint64
		wantStatus    types.ResponseCode
		wantTransfers []*types.AccountAmount
	}{
		{
			name:         "all fees charged",
			payerBalance: 100,
			maxFee:       17,
			wantStatus:   types.OK,
			wantTransfers: []*types.AccountAmount{
				aa(funding, 10), aa(payer, -10),
				aa(node, 5), aa(payer, -5),
				aa(funding, 2), aa(payer, -2),
			},
		},
		{
			name:          "unwilling to cover node fee",
			payerBalance:  100,
			maxFee:        4,
			wantStatus:    types.InsufficientTxFee,
			wantTransfers: []*types.AccountAmount{aa(funding, 10), aa(submittingNode, -10)},
		},
		{
			name:          "unable to afford node fee",
			payerBalance:  4,
			maxFee:        100,
			wantStatus:    types.InsufficientPayerBalance,
			wantTransfers: []*types.AccountAmount{aa(funding, 10), aa(submittingNode, -10)},
		},
		{
			name:         "unwilling to cover network and service fees",
			payerBalance: 100,
			maxFee:       16,
			wantStatus:   types.InsufficientTxFee,
			wantTransfers: []*types.AccountAmount{
				aa(funding, 10), aa(payer, -10),
				aa(node, 5), aa(payer, -5),
				aa(funding, 2), aa(payer, -2),
			},
		},
		{
			name:         "unable to afford network and service fees",
			payerBalance: 16,
			maxFee:       100,
			wantStatus:   types.InsufficientPayerBalance,
			wantTransfers: []*types.AccountAmount{
				aa(funding, 10), aa(payer, -10),
				aa(node, 5), aa(payer, -5),
				aa(funding, 1), aa(payer, -1),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, withBalance(payer, tt.payerBalance), withBalance(submittingNode, 100))
			f.reset(t, payer, node, submittingNode, tt.maxFee)
			status, err := NewPolicy(f.charging).Apply(feeObject)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantTransfers, f.charging.ItemizedFees().AccountAmounts)
			require.Zero(t, f.charging.ItemizedFees().Sum())
		})
	}
}

func TestPolicy_ApplyExemptPayer(t *testing.T) {
	f := newFixture(t, withExemptions(payerExemption{}), withBalance(payer, 0))
	f.reset(t, payer, node, submittingNode, 0)
	status, err := NewPolicy(f.charging).Apply(feeObject)
	require.NoError(t, err)
	require.Equal(t, types.OK, status)
	require.Empty(t, f.charging.ItemizedFees().AccountAmounts)
	require.Empty(t, f.ledger.transfers)
}

func TestPolicy_ApplyForIrresponsibleNode(t *testing.T) {
	f := newFixture(t, withBalance(submittingNode, 6))
	f.reset(t, payer, node, submittingNode, 100)
	require.NoError(t, NewPolicy(f.charging).ApplyForIrresponsibleNode(feeObject))
	require.Equal(t, []*types.AccountAmount{aa(funding, 6), aa(submittingNode, -6)}, f.charging.ItemizedFees().AccountAmounts)
	require.EqualValues(t, 6, f.charging.ChargedToSubmittingNode(fees.Network))
	require.Zero(t, f.charging.TotalNonThresholdFeesChargedToPayer())
}

func TestPolicy_LedgerFailure(t *testing.T) {
	f := newFixture(t)
	f.reset(t, payer, node, submittingNode, 100)
	f.ledger.err = abErrors.New("ledger is broken")
	status, err := NewPolicy(f.charging).Apply(feeObject)
	require.ErrorIs(t, err, abErrors.ErrLedgerIntegrity)
	require.Equal(t, types.FailInvalid, status)
}

func TestPolicy_ApplyRejectsFeesAboveMaximum(t *testing.T) {
	f := newFixture(t, withBalance(submittingNode, 100))
	f.reset(t, payer, node, submittingNode, 1_000_000)
	p := NewPolicy(f.charging)

	huge := fees.FeeObject{NodeFee: 5, NetworkFee: math.MaxUint64, ServiceFee: 2}
	status, err := p.Apply(huge)
	require.ErrorIs(t, err, abErrors.ErrInvalidArgument)
	require.NotErrorIs(t, err, abErrors.ErrLedgerIntegrity)
	require.Equal(t, types.FailInvalid, status)
	require.ErrorIs(t, p.ApplyForIrresponsibleNode(huge), abErrors.ErrInvalidArgument)

	require.Empty(t, f.ledger.transfers)
	require.Empty(t, f.charging.ItemizedFees().AccountAmounts)
	// configured amounts are kept
	require.EqualValues(t, 10, f.charging.AmountOf(fees.Network))
}

func TestPolicy_ApplyOverflowingTotalIsNotWilling(t *testing.T) {
	f := newFixture(t, withBalance(payer, 1000))
	f.reset(t, payer, node, submittingNode, math.MaxUint64)
	status, err := NewPolicy(f.charging).Apply(fees.FeeObject{NodeFee: 5, NetworkFee: fees.MaxAmount, ServiceFee: fees.MaxAmount})
	require.NoError(t, err)
	require.Equal(t, types.InsufficientTxFee, status)
	// node fee first, then what is left of the balance goes to the network fee
	require.Equal(t, []*types.AccountAmount{
		aa(funding, 995), aa(payer, -995),
		aa(node, 5), aa(payer, -5),
	}, f.charging.ItemizedFees().AccountAmounts)
	require.Zero(t, f.ledger.GetBalance(payer))
}
