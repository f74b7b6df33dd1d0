package txcontext

import (
	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/types"
)

type (
	// AddressBook maps consensus members to their node accounts.
	AddressBook interface {
		NodeAccount(member uint64) (types.AccountID, error)
	}

	AccountKeys interface {
		// KeyOf returns nil for unknown accounts.
		KeyOf(id types.AccountID) types.Key
	}

	// FeeItemizer supplies the fee part of the record.
	FeeItemizer interface {
		ItemizedFees() *types.TransferList
		TotalNonThresholdFeesChargedToPayer() uint64
	}

	// StaticAddressBook is an AddressBook of a fixed set of members.
	StaticAddressBook map[uint64]types.AccountID
)

func (ab StaticAddressBook) NodeAccount(member uint64) (types.AccountID, error) {
	id, ok := ab[member]
	if !ok {
		return types.AccountID{}, errors.Wrapf(errors.ErrInvalidArgument, "member %d is not in the address book", member)
	}
	return id, nil
}
