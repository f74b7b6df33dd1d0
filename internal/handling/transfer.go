package handling

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/ledger"
	"github.com/alphabill-org/feecharging/internal/txcontext"
	"github.com/alphabill-org/feecharging/internal/types"
)

// TransferBody is the body of a value transfer transaction.
type TransferBody struct {
	_      struct{} `cbor:",toarray"`
	To     types.AccountID
	Amount uint64
}

func (b *TransferBody) Bytes() ([]byte, error) {
	return cbor.Marshal(b)
}

// TransferLogic moves value from the payer to the recipient of the transaction body. A
// transfer to an account that does not exist creates it.
type TransferLogic struct {
	ledger *ledger.KVLedger
}

var _ TransitionLogic = (*TransferLogic)(nil)

func NewTransferLogic(l *ledger.KVLedger) *TransferLogic {
	return &TransferLogic{ledger: l}
}

func (t *TransferLogic) Transition(tc txcontext.TransactionContext) (types.ResponseCode, error) {
	txn, err := tc.Accessor()
	if err != nil {
		return types.FailInvalid, err
	}
	if len(txn.Body) == 0 {
		return types.Success, nil
	}
	body := &TransferBody{}
	if err = cbor.Unmarshal(txn.Body, body); err != nil {
		return types.InvalidTransactionBody, nil
	}
	payer, err := tc.ActivePayer()
	if err != nil {
		return types.FailInvalid, err
	}
	if t.ledger.GetBalance(payer) < body.Amount {
		return types.InsufficientPayerBalance, nil
	}
	_, err = t.ledger.GetAccount(body.To)
	isNew := errors.Is(err, ledger.ErrAccountNotFound)
	if err != nil && !isNew {
		return types.FailInvalid, err
	}
	if body.Amount > 0 {
		if err = t.ledger.Transfer(payer, body.To, body.Amount); err != nil {
			return types.FailInvalid, errors.Wrapf(errors.ErrLedgerIntegrity, "transfer from %s to %s: %v", payer, body.To, err)
		}
		if isNew && !payer.Eq(body.To) {
			tc.SetCreatedAccount(body.To)
		}
	}
	return types.Success, nil
}
