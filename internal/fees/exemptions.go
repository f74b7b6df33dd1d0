package fees

import (
	"github.com/alphabill-org/feecharging/internal/types"
)

// Exemptions answers whether an account is exempt from fee charging.
type Exemptions interface {
	// IsPayerExempt returns true when the account pays no fees as the transaction payer.
	IsPayerExempt(payer types.AccountID) bool
	// IsExemptFromRecordFees returns true when the account pays no threshold record fees.
	IsExemptFromRecordFees(id types.AccountID) bool
}

// StandardExemptions exempts a fixed list of payers, ie the treasury and system
// administration accounts, and all system accounts up to a number from record fees.
type StandardExemptions struct {
	exemptPayers          map[types.AccountID]struct{}
	recordExemptMaxNumber int64
}

var _ Exemptions = (*StandardExemptions)(nil)

// NewStandardExemptions returns exemptions for the payers listed and for record fees of
// accounts (in shard 0, realm 0) numbered up to recordExemptMaxNumber.
func NewStandardExemptions(exemptPayers []types.AccountID, recordExemptMaxNumber int64) *StandardExemptions {
	e := &StandardExemptions{
		exemptPayers:          make(map[types.AccountID]struct{}, len(exemptPayers)),
		recordExemptMaxNumber: recordExemptMaxNumber,
	}
	for _, id := range exemptPayers {
		e.exemptPayers[id] = struct{}{}
	}
	return e
}

func (e *StandardExemptions) IsPayerExempt(payer types.AccountID) bool {
	_, ok := e.exemptPayers[payer]
	return ok
}

func (e *StandardExemptions) IsExemptFromRecordFees(id types.AccountID) bool {
	return id.Shard == 0 && id.Realm == 0 && id.Num <= e.recordExemptMaxNumber
}
