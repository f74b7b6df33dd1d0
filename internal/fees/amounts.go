package fees

import (
	"math"

	"github.com/holiman/uint256"
)

// MaxAmount is the largest amount a single fee can have, transfer list entries are signed.
const MaxAmount = math.MaxInt64

// Amounts holds at most one amount per fee type. The zero value is empty and ready to use.
type Amounts struct {
	values  [feeTypeCount]uint64
	present FeeSet
}

// Put stores amount for the fee type, replacing the previous value.
func (a *Amounts) Put(t FeeType, amount uint64) {
	if !t.valid() {
		return
	}
	a.values[t] = amount
	a.present = a.present.With(t)
}

// Get returns the amount for the fee type and whether it has been set.
func (a *Amounts) Get(t FeeType) (uint64, bool) {
	if !a.present.Contains(t) {
		return 0, false
	}
	return a.values[t], true
}

// GetOrZero returns the amount for the fee type, zero if not set.
func (a *Amounts) GetOrZero(t FeeType) uint64 {
	v, _ := a.Get(t)
	return v
}

func (a *Amounts) Has(t FeeType) bool {
	return a.present.Contains(t)
}

// Sum of all set amounts, math.MaxUint64 if the sum does not fit.
func (a *Amounts) Sum() uint64 {
	return a.SumOf(a.present)
}

// SumOf sums the amounts of the given fee types, unset types count as zero. The result
// saturates at math.MaxUint64.
func (a *Amounts) SumOf(s FeeSet) uint64 {
	sum, ok := a.CheckedSumOf(s)
	if !ok {
		return math.MaxUint64
	}
	return sum
}

// CheckedSumOf is SumOf that reports false when the sum overflows uint64.
func (a *Amounts) CheckedSumOf(s FeeSet) (uint64, bool) {
	sum := uint256.NewInt(0)
	for _, t := range s.Types() {
		sum.Add(sum, uint256.NewInt(a.GetOrZero(t)))
	}
	if !sum.IsUint64() {
		return 0, false
	}
	return sum.Uint64(), true
}

func (a *Amounts) Len() int {
	return len(a.present.Types())
}

func (a *Amounts) IsEmpty() bool {
	return a.present.IsEmpty()
}

// Keys returns the set of fee types with an amount.
func (a *Amounts) Keys() FeeSet {
	return a.present
}

func (a *Amounts) Clear() {
	*a = Amounts{}
}
