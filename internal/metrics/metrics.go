// Package metrics holds the prometheus counters of fee charging and transaction handling.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/types"
)

const namespace = "feecharging"

// Suppression reasons of a charge that produced no transfer.
const (
	ReasonSameAccount  = "same_account"
	ReasonExemptPayer  = "exempt_payer"
	ReasonRecordExempt = "record_fee_exempt"
	ReasonZeroAmount   = "zero_amount"
)

var (
	feesCharged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Total amount of fees charged by fee kind",
			Name:      "fees_charged_total",
			Namespace: namespace,
		},
		[]string{"kind"},
	)
	chargesSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of charges that did not produce a transfer",
			Name:      "charges_suppressed_total",
			Namespace: namespace,
		},
		[]string{"kind", "reason"},
	)
	recordsBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of transaction records built",
			Name:      "records_built_total",
			Namespace: namespace,
		},
	)
	txsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of processed consensus transactions by final status",
			Name:      "transactions_processed_total",
			Namespace: namespace,
		},
		[]string{"status"},
	)
)

// Register adds all collectors of the package to the registerer.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{feesCharged, chargesSuppressed, recordsBuilt, txsProcessed} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func FeeCharged(kind fees.FeeType, amount uint64) {
	feesCharged.WithLabelValues(kind.String()).Add(float64(amount))
}

func ChargeSuppressed(kind fees.FeeType, reason string) {
	chargesSuppressed.WithLabelValues(kind.String(), reason).Inc()
}

func RecordBuilt() {
	recordsBuilt.Inc()
}

func TransactionProcessed(status types.ResponseCode) {
	txsProcessed.WithLabelValues(status.String()).Inc()
}
