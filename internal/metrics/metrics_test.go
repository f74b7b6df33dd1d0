package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// second registration of the same collectors fails
	require.Error(t, Register(reg))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(feesCharged.WithLabelValues("NODE"))
	FeeCharged(fees.Node, 5)
	FeeCharged(fees.Node, 3)
	require.Equal(t, before+8, testutil.ToFloat64(feesCharged.WithLabelValues("NODE")))

	before = testutil.ToFloat64(chargesSuppressed.WithLabelValues("THRESHOLD_RECORD", ReasonRecordExempt))
	ChargeSuppressed(fees.ThresholdRecord, ReasonRecordExempt)
	require.Equal(t, before+1, testutil.ToFloat64(chargesSuppressed.WithLabelValues("THRESHOLD_RECORD", ReasonRecordExempt)))

	before = testutil.ToFloat64(recordsBuilt)
	RecordBuilt()
	require.Equal(t, before+1, testutil.ToFloat64(recordsBuilt))

	before = testutil.ToFloat64(txsProcessed.WithLabelValues("SUCCESS"))
	TransactionProcessed(types.Success)
	require.Equal(t, before+1, testutil.ToFloat64(txsProcessed.WithLabelValues("SUCCESS")))
}
