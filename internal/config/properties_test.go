package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

func TestProperties_Defaults(t *testing.T) {
	p := NewProperties(nil)

	funding, err := p.AccountProperty(KeyFundingAccount)
	require.NoError(t, err)
	require.Equal(t, types.Account(98), funding)

	for _, ft := range fees.AllFeeTypes() {
		amount, err := p.Uint64Property(FeeKey(ft))
		require.NoError(t, err)
		require.Zero(t, amount, ft.String())
	}

	payers, err := p.AccountListProperty(KeyExemptPayers)
	require.NoError(t, err)
	require.Empty(t, payers)

	_, err = p.AccountProperty("no.such.account")
	require.ErrorIs(t, err, errors.ErrInvalidConfiguration)
}

func TestProperties_FromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
ledger:
  funding:
    account: 0.0.800
fees:
  network: 10
  node: 5
  service: 2
  cacheRecord: 1
  thresholdRecord: 3
  exemptPayers: ["0.0.2", "0.0.50"]
  recordFeeExemptMaxAccount: 750
`)))
	p := NewProperties(v)

	funding, err := p.AccountProperty(KeyFundingAccount)
	require.NoError(t, err)
	require.Equal(t, types.Account(800), funding)

	expected := map[fees.FeeType]uint64{fees.Network: 10, fees.Node: 5, fees.Service: 2, fees.CacheRecord: 1, fees.ThresholdRecord: 3}
	for ft, want := range expected {
		got, err := p.Uint64Property(FeeKey(ft))
		require.NoError(t, err)
		require.Equal(t, want, got, ft.String())
	}

	ex, err := Exemptions(p)
	require.NoError(t, err)
	require.True(t, ex.IsPayerExempt(types.Account(50)))
	require.False(t, ex.IsPayerExempt(types.Account(51)))
	require.True(t, ex.IsExemptFromRecordFees(types.Account(750)))
	require.False(t, ex.IsExemptFromRecordFees(types.Account(751)))
}

func TestProperties_Invalid(t *testing.T) {
	v := viper.New()
	v.Set(KeyFundingAccount, "98")
	v.Set(KeyNodeFee, "lots")
	v.Set(KeyExemptPayers, "0.0.2, 0.0.x")
	p := NewProperties(v)

	_, err := p.AccountProperty(KeyFundingAccount)
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = p.Uint64Property(KeyNodeFee)
	require.ErrorIs(t, err, errors.ErrInvalidConfiguration)
	_, err = p.AccountListProperty(KeyExemptPayers)
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = Exemptions(p)
	require.Error(t, err)
}

func TestProperties_AccountListFromString(t *testing.T) {
	v := viper.New()
	v.Set(KeyExemptPayers, "0.0.2,0.0.50")
	ids, err := NewProperties(v).AccountListProperty(KeyExemptPayers)
	require.NoError(t, err)
	require.Equal(t, []types.AccountID{types.Account(2), types.Account(50)}, ids)
}
