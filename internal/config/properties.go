// Package config resolves node properties from a viper configuration.
package config

import (
	"strings"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

const (
	KeyFundingAccount            = "ledger.funding.account"
	KeyNetworkFee                = "fees.network"
	KeyNodeFee                   = "fees.node"
	KeyServiceFee                = "fees.service"
	KeyCacheRecordFee            = "fees.cacheRecord"
	KeyThresholdRecordFee        = "fees.thresholdRecord"
	KeyExemptPayers              = "fees.exemptPayers"
	KeyRecordFeeExemptMaxAccount = "fees.recordFeeExemptMaxAccount"

	defaultFundingAccount            = "0.0.98"
	defaultRecordFeeExemptMaxAccount = 100
)

// PropertySource is read access to node properties.
type PropertySource interface {
	AccountProperty(name string) (types.AccountID, error)
	AccountListProperty(name string) ([]types.AccountID, error)
	Uint64Property(name string) (uint64, error)
	Int64Property(name string) (int64, error)
}

// Properties is a PropertySource backed by viper.
type Properties struct {
	v *viper.Viper
}

var _ PropertySource = (*Properties)(nil)

// NewProperties wraps v and registers defaults for the properties the node needs.
func NewProperties(v *viper.Viper) *Properties {
	if v == nil {
		v = viper.New()
	}
	v.SetDefault(KeyFundingAccount, defaultFundingAccount)
	v.SetDefault(KeyRecordFeeExemptMaxAccount, defaultRecordFeeExemptMaxAccount)
	for _, ft := range fees.AllFeeTypes() {
		v.SetDefault(FeeKey(ft), 0)
	}
	return &Properties{v: v}
}

// FeeKey returns the property holding the configured amount of the fee type.
func FeeKey(ft fees.FeeType) string {
	switch ft {
	case fees.Network:
		return KeyNetworkFee
	case fees.Node:
		return KeyNodeFee
	case fees.Service:
		return KeyServiceFee
	case fees.CacheRecord:
		return KeyCacheRecordFee
	default:
		return KeyThresholdRecordFee
	}
}

func (p *Properties) AccountProperty(name string) (types.AccountID, error) {
	if !p.v.IsSet(name) {
		return types.AccountID{}, errors.Wrapf(errors.ErrInvalidConfiguration, "property %s is not set", name)
	}
	id, err := types.ParseAccountID(p.v.GetString(name))
	if err != nil {
		return types.AccountID{}, errors.Wrapf(err, "property %s", name)
	}
	return id, nil
}

func (p *Properties) AccountListProperty(name string) ([]types.AccountID, error) {
	var raw []string
	switch val := p.v.Get(name).(type) {
	case nil:
		return nil, nil
	case string:
		// env variables and flags carry lists as "0.0.2,0.0.50"
		raw = strings.FieldsFunc(val, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	default:
		var err error
		if raw, err = cast.ToStringSliceE(val); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfiguration, "property %s is not a list: %v", name, err)
		}
	}
	ids := make([]types.AccountID, 0, len(raw))
	for _, s := range raw {
		id, err := types.ParseAccountID(s)
		if err != nil {
			return nil, errors.Wrapf(err, "property %s", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *Properties) Uint64Property(name string) (uint64, error) {
	n, err := cast.ToUint64E(p.v.Get(name))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidConfiguration, "property %s: %v", name, err)
	}
	return n, nil
}

func (p *Properties) Int64Property(name string) (int64, error) {
	n, err := cast.ToInt64E(p.v.Get(name))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidConfiguration, "property %s: %v", name, err)
	}
	return n, nil
}

// Exemptions builds the standard fee exemptions from the fees.* properties.
func Exemptions(ps PropertySource) (*fees.StandardExemptions, error) {
	payers, err := ps.AccountListProperty(KeyExemptPayers)
	if err != nil {
		return nil, err
	}
	maxNum, err := ps.Int64Property(KeyRecordFeeExemptMaxAccount)
	if err != nil {
		return nil, err
	}
	return fees.NewStandardExemptions(payers, maxNum), nil
}
