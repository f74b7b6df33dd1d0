package types

import (
	"crypto"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/feecharging/internal/errors"
)

func TestParseAccountID(t *testing.T) {
	id, err := ParseAccountID("1.2.3")
	require.NoError(t, err)
	require.Equal(t, AccountID{Shard: 1, Realm: 2, Num: 3}, id)
	require.Equal(t, "1.2.3", id.String())

	for _, s := range []string{"", "1.2", "1.2.x", "1.-2.3", "1.2.3.4"} {
		_, err := ParseAccountID(s)
		require.ErrorIs(t, err, errors.ErrInvalidArgument, s)
	}
}

func TestAccountID_Compare(t *testing.T) {
	require.Equal(t, 0, Account(5).Compare(Account(5)))
	require.Equal(t, -1, Account(2).Compare(Account(5)))
	require.Equal(t, 1, Account(5).Compare(Account(2)))
	require.Equal(t, 1, AccountID{Realm: 1}.Compare(Account(100)))
	require.Equal(t, -1, AccountID{Realm: 9, Num: 9}.Compare(AccountID{Shard: 1}))
	require.True(t, AccountID{}.IsZero())
	require.True(t, Account(3).Eq(AccountID{Num: 3}))
}

func TestAccountID_Text(t *testing.T) {
	var id AccountID
	require.NoError(t, id.UnmarshalText([]byte("0.0.98")))
	require.Equal(t, Account(98), id)
	b, err := id.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "0.0.98", string(b))
	require.Error(t, id.UnmarshalText([]byte("98")))
}

func TestTransferList_Sum(t *testing.T) {
	var nilList *TransferList
	require.Zero(t, nilList.Sum())
	require.Zero(t, nilList.Len())

	tl := &TransferList{AccountAmounts: []*AccountAmount{
		NewAccountAmount(Account(98), 10),
		NewAccountAmount(Account(1001), -10),
	}}
	require.Zero(t, tl.Sum())
	require.Equal(t, 2, tl.Len())
}

func TestTimestamp(t *testing.T) {
	now := time.Unix(1_600_000_000, 123).UTC()
	ts := TimestampFrom(now)
	require.Equal(t, now, ts.Time())
	require.False(t, ts.IsZero())
	require.True(t, Timestamp{}.IsZero())
}

func TestTransactionRecord_CanonicalEncoding(t *testing.T) {
	created := Account(1002)
	rec := &TransactionRecord{
		Receipt:            &TransactionReceipt{Status: Success, AccountID: &created},
		ConsensusTimestamp: Timestamp{Seconds: 10, Nanos: 1},
		TransactionID:      TransactionID{Payer: Account(1001), ValidStart: Timestamp{Seconds: 9}},
		Memo:               "memo",
		TransactionFee:     17,
		TransferList: &TransferList{AccountAmounts: []*AccountAmount{
			NewAccountAmount(Account(98), 17),
			NewAccountAmount(Account(1001), -17),
		}},
	}
	b1, err := rec.Bytes()
	require.NoError(t, err)
	b2, err := rec.Copy().Bytes()
	require.NoError(t, err)
	require.Equal(t, b1, b2)

	var back TransactionRecord
	require.NoError(t, cbor.Unmarshal(b1, &back))
	require.Equal(t, rec, &back)

	h, err := rec.Hash(crypto.SHA256)
	require.NoError(t, err)
	require.Len(t, h, 32)
	require.Equal(t, Success, rec.GetStatus())
	require.EqualValues(t, 17, rec.GetTransactionFee())
}

func TestTransactionRecord_CopyDoesNotShareTransfers(t *testing.T) {
	rec := &TransactionRecord{TransferList: &TransferList{AccountAmounts: []*AccountAmount{NewAccountAmount(Account(1), 1)}}}
	c := rec.Copy()
	c.TransferList.AccountAmounts = append(c.TransferList.AccountAmounts, NewAccountAmount(Account(2), -1))
	require.Equal(t, 1, rec.TransferList.Len())
	require.Equal(t, 2, c.TransferList.Len())
	var nilRec *TransactionRecord
	require.Nil(t, nilRec.Copy())
	require.Equal(t, Unknown, nilRec.GetStatus())
}

func TestResponseCode_String(t *testing.T) {
	require.Equal(t, "SUCCESS", Success.String())
	require.Equal(t, "INSUFFICIENT_PAYER_BALANCE", InsufficientPayerBalance.String())
	require.Equal(t, "UNKNOWN", ResponseCode(999).String())
	require.False(t, Success.IsFailure())
	require.False(t, Unknown.IsFailure())
	require.True(t, InvalidPayerSignature.IsFailure())
}

func TestTransaction_HashUnavailableAlgorithm(t *testing.T) {
	txn := &Transaction{TransactionID: TransactionID{Payer: Account(1001)}}
	_, err := txn.Hash(crypto.MD4)
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	h, err := txn.Hash(crypto.SHA256)
	require.NoError(t, err)
	require.Len(t, h, 32)
}
