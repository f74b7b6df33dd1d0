package fees

import "strings"

// FeeSet is a set of fee types. Iteration is always in enumeration order.
type FeeSet uint8

var (
	NodeFee                = SetOf(Node)
	NetworkFee             = SetOf(Network)
	NetworkNodeServiceFees = SetOf(Network, Node, Service)
	NetworkServiceFees     = SetOf(Network, Service)
	CacheRecordFee         = SetOf(CacheRecord)
	ThresholdRecordFee     = SetOf(ThresholdRecord)
)

func SetOf(types ...FeeType) FeeSet {
	var s FeeSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

func (s FeeSet) Contains(t FeeType) bool {
	return t.valid() && s&(1<<t) != 0
}

func (s FeeSet) With(t FeeType) FeeSet {
	if !t.valid() {
		return s
	}
	return s | 1<<t
}

func (s FeeSet) Without(t FeeType) FeeSet {
	if !t.valid() {
		return s
	}
	return s &^ (1 << t)
}

func (s FeeSet) IsEmpty() bool {
	return s == 0
}

// Types returns members of the set in enumeration order.
func (s FeeSet) Types() []FeeType {
	var res []FeeType
	for _, t := range AllFeeTypes() {
		if s.Contains(t) {
			res = append(res, t)
		}
	}
	return res
}

func (s FeeSet) String() string {
	names := make([]string, 0, feeTypeCount)
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
