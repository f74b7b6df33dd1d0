package charging

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/feecharging/internal/config"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/ledger"
	"github.com/alphabill-org/feecharging/internal/types"
)

var (
	funding        = types.Account(98)
	node           = types.Account(3)
	submittingNode = types.Account(4)
	payer          = types.Account(1001)
)

type transfer struct {
	from, to types.AccountID
	amount   uint64
}

type testLedger struct {
	balances  map[types.AccountID]uint64
	transfers []transfer
	err       error
}

func newTestLedger(balances map[types.AccountID]uint64) *testLedger {
	l := &testLedger{balances: make(map[types.AccountID]uint64)}
	for id, b := range balances {
		l.balances[id] = b
	}
	return l
}

func (l *testLedger) GetBalance(id types.AccountID) uint64 {
	return l.balances[id]
}

func (l *testLedger) Transfer(from, to types.AccountID, amount uint64) error {
	if l.err != nil {
		return l.err
	}
	if l.balances[from] < amount {
		return ledger.ErrInsufficientBalance
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	l.transfers = append(l.transfers, transfer{from: from, to: to, amount: amount})
	return nil
}

type fixture struct {
	charging *ItemizableFeeCharging
	ledger   *testLedger
	props    *viper.Viper
}

type fixtureOption func(*fixtureConf)

type fixtureConf struct {
	exemptions fees.Exemptions
	amounts    map[fees.FeeType]uint64
	balances   map[types.AccountID]uint64
}

func withExemptions(e fees.Exemptions) fixtureOption {
	return func(c *fixtureConf) { c.exemptions = e }
}

func withAmount(ft fees.FeeType, amount uint64) fixtureOption {
	return func(c *fixtureConf) { c.amounts[ft] = amount }
}

func withBalance(id types.AccountID, balance uint64) fixtureOption {
	return func(c *fixtureConf) { c.balances[id] = balance }
}

// newFixture sets up fee charging with NETWORK=10, NODE=5, SERVICE=2, CACHE_RECORD=4,
// THRESHOLD_RECORD=3 and a payer balance of 1000.
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	conf := &fixtureConf{
		exemptions: fees.NewStandardExemptions(nil, 0),
		amounts: map[fees.FeeType]uint64{
			fees.Network:         10,
			fees.Node:            5,
			fees.Service:         2,
			fees.CacheRecord:     4,
			fees.ThresholdRecord: 3,
		},
		balances: map[types.AccountID]uint64{payer: 1000},
	}
	for _, o := range opts {
		o(conf)
	}
	v := viper.New()
	for ft, amount := range conf.amounts {
		v.Set(config.FeeKey(ft), amount)
	}
	tl := newTestLedger(conf.balances)
	c, err := New(
		WithLedger(tl),
		WithExemptions(conf.exemptions),
		WithProperties(config.NewProperties(v)),
	)
	require.NoError(t, err)
	return &fixture{charging: c, ledger: tl, props: v}
}

func (f *fixture) reset(t *testing.T, txPayer, txNode, submitting types.AccountID, maxFee uint64) {
	t.Helper()
	txn := &types.Transaction{
		TransactionID:  types.TransactionID{Payer: txPayer},
		NodeAccountID:  txNode,
		TransactionFee: maxFee,
	}
	require.NoError(t, f.charging.ResetFor(txn, submitting))
}

func (f *fixture) resetDefault(t *testing.T) {
	f.reset(t, payer, node, node, 1_000_000)
}

func aa(id types.AccountID, amount int64) *types.AccountAmount {
	return types.NewAccountAmount(id, amount)
}
