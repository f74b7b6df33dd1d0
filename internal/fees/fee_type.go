// Package fees defines the kinds of fees a transaction can be charged, fixed size
// containers keyed by the kind, and the exemption rules.
package fees

import (
	"strings"

	"github.com/alphabill-org/feecharging/internal/errors"
)

// FeeType is the reason an amount is owed.
type FeeType uint8

const (
	Network FeeType = iota
	Node
	Service
	CacheRecord
	ThresholdRecord

	feeTypeCount = int(ThresholdRecord) + 1
)

var feeTypeNames = [feeTypeCount]string{
	Network:         "NETWORK",
	Node:            "NODE",
	Service:         "SERVICE",
	CacheRecord:     "CACHE_RECORD",
	ThresholdRecord: "THRESHOLD_RECORD",
}

// AllFeeTypes lists fee types in enumeration order.
func AllFeeTypes() []FeeType {
	return []FeeType{Network, Node, Service, CacheRecord, ThresholdRecord}
}

func (f FeeType) String() string {
	if f.valid() {
		return feeTypeNames[f]
	}
	return "UNKNOWN"
}

func (f FeeType) valid() bool {
	return int(f) < feeTypeCount
}

// ParseFeeType accepts the names returned by String, case insensitive.
func ParseFeeType(s string) (FeeType, error) {
	for i, name := range feeTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return FeeType(i), nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInvalidArgument, "unknown fee type %q", s)
}

// FeeObject holds the fees calculated for a transaction by the fee calculator.
type FeeObject struct {
	NodeFee    uint64 `yaml:"node" json:"node"`
	NetworkFee uint64 `yaml:"network" json:"network"`
	ServiceFee uint64 `yaml:"service" json:"service"`
}

// Total saturates at math.MaxUint64.
func (fo FeeObject) Total() uint64 {
	var a Amounts
	a.Put(Node, fo.NodeFee)
	a.Put(Network, fo.NetworkFee)
	a.Put(Service, fo.ServiceFee)
	return a.Sum()
}
