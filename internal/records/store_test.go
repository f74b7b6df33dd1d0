package records

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	abErrors "github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb/boltdb"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb/memorydb"
	"github.com/alphabill-org/feecharging/internal/types"
)

func newRecord(seconds int64, nanos int32, payerNum int64) *types.TransactionRecord {
	payer := types.Account(payerNum)
	return &types.TransactionRecord{
		Receipt:            &types.TransactionReceipt{Status: types.Success},
		TransactionHash:    []byte{1, 2, 3},
		ConsensusTimestamp: types.Timestamp{Seconds: seconds, Nanos: nanos},
		TransactionID:      types.TransactionID{Payer: payer, ValidStart: types.Timestamp{Seconds: seconds - 10}},
		Memo:               "memo",
		TransactionFee:     17,
		TransferList: &types.TransferList{AccountAmounts: []*types.AccountAmount{
			types.NewAccountAmount(types.Account(98), 17),
			types.NewAccountAmount(payer, -17),
		}},
	}
}

func testStores(t *testing.T) map[string]keyvaluedb.KeyValueDB {
	bolt, err := boltdb.New(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]keyvaluedb.KeyValueDB{
		"memorydb": memorydb.New(),
		"boltdb":   bolt,
	}
}

func TestNewStore_NilDB(t *testing.T) {
	s, err := NewStore(nil)
	require.ErrorIs(t, err, abErrors.ErrInvalidConfiguration)
	require.Nil(t, s)
}

func TestStore(t *testing.T) {
	for name, db := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			s, err := NewStore(db)
			require.NoError(t, err)

			last, err := s.Last()
			require.NoError(t, err)
			require.Nil(t, last)

			r1 := newRecord(100, 5, 1001)
			r2 := newRecord(100, 6, 1002)
			r3 := newRecord(101, 0, 1003)
			require.NoError(t, s.Add(r1))
			require.NoError(t, s.Add(r2))
			require.NoError(t, s.Add(r3))

			got, err := s.Get(r2.TransactionID)
			require.NoError(t, err)
			require.Equal(t, r2, got)

			got, err = s.GetAt(r1.ConsensusTimestamp)
			require.NoError(t, err)
			require.Equal(t, r1, got)

			last, err = s.Last()
			require.NoError(t, err)
			require.Equal(t, r3, last)

			got, err = s.Get(types.TransactionID{Payer: types.Account(5)})
			require.NoError(t, err)
			require.Nil(t, got)

			var fees []string
			require.NoError(t, s.ForEach(func(r *types.TransactionRecord) error {
				fees = append(fees, r.TransactionID.Payer.String())
				return nil
			}))
			require.Equal(t, []string{"0.0.1001", "0.0.1002", "0.0.1003"}, fees)
		})
	}
}

func TestStore_AddOutOfOrder(t *testing.T) {
	s, err := NewStore(memorydb.New())
	require.NoError(t, err)
	require.ErrorIs(t, s.Add(nil), abErrors.ErrInvalidArgument)
	require.NoError(t, s.Add(newRecord(100, 5, 1001)))
	require.ErrorIs(t, s.Add(newRecord(100, 5, 1002)), abErrors.ErrInvalidArgument)
	require.ErrorIs(t, s.Add(newRecord(99, 999, 1002)), abErrors.ErrInvalidArgument)

	last, err := s.Last()
	require.NoError(t, err)
	require.Equal(t, "0.0.1001", last.TransactionID.Payer.String())
}

func TestTimestampKey_Order(t *testing.T) {
	ts := []types.Timestamp{{Seconds: -5}, {Seconds: 0}, {Seconds: 0, Nanos: 1}, {Seconds: 1}, {Seconds: 1 << 40}}
	for i := 1; i < len(ts); i++ {
		require.Less(t, string(timestampKey(ts[i-1])), string(timestampKey(ts[i])))
	}
}
