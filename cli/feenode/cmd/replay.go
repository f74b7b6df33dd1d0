package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alphabill-org/feecharging/internal/config"
	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees/charging"
	"github.com/alphabill-org/feecharging/internal/handling"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb/boltdb"
	"github.com/alphabill-org/feecharging/internal/keyvaluedb/memorydb"
	"github.com/alphabill-org/feecharging/internal/ledger"
	"github.com/alphabill-org/feecharging/internal/logger"
	"github.com/alphabill-org/feecharging/internal/metrics"
	"github.com/alphabill-org/feecharging/internal/records"
	"github.com/alphabill-org/feecharging/internal/txcontext"
	"github.com/alphabill-org/feecharging/internal/types"
)

const (
	flagNameDB          = "db"
	flagNameMetricsFile = "metrics-file"

	logContextTx = "tx"
)

var log = logger.CreateForPackage()

type replayConfiguration struct {
	Root *rootConfiguration
	// bolt database file, in memory database is used when empty
	DBFile string
	// prometheus text format output, not written when empty
	MetricsFile string
}

func newReplayCmd(rootConfig *rootConfiguration) *cobra.Command {
	conf := &replayConfiguration{Root: rootConfig}
	var cmd = &cobra.Command{
		Use:   "replay SCENARIO_FILE",
		Short: "Handles the transactions of a scenario and prints the records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd.Context(), conf, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&conf.DBFile, flagNameDB, "", "path to the bolt database file, records and balances are kept in memory if not set")
	cmd.Flags().StringVar(&conf.MetricsFile, flagNameMetricsFile, "", "write metrics in prometheus text format to the file when done")
	return cmd
}

func replay(ctx context.Context, cfg *replayConfiguration, scenarioFile string, out io.Writer) (err error) {
	s, err := loadScenario(scenarioFile)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	if err = metrics.Register(registry); err != nil {
		return errors.Wrap(err, "registering metrics")
	}

	db, err := openDB(cfg.DBFile)
	if err != nil {
		return err
	}
	if c, ok := db.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "closing database")
			}
		}()
	}

	v := cfg.Root.v
	if v == nil {
		v = viper.New()
	}
	for key, value := range s.Properties {
		v.Set(key, value)
	}
	props := config.NewProperties(v)
	exemptions, err := config.Exemptions(props)
	if err != nil {
		return err
	}

	l, err := ledger.New(db)
	if err != nil {
		return err
	}
	if err = createAccounts(l, s.Accounts); err != nil {
		return err
	}
	feeCharging, err := charging.New(charging.WithLedger(l), charging.WithExemptions(exemptions), charging.WithProperties(props))
	if err != nil {
		return err
	}
	txCtx, err := txcontext.New(txcontext.StaticAddressBook(s.Nodes), l, feeCharging)
	if err != nil {
		return err
	}
	store, err := records.NewStore(db)
	if err != nil {
		return err
	}
	p, err := handling.NewProcessor(txCtx, feeCharging,
		handling.WithTransitionLogic(handling.NewTransferLogic(l)),
		handling.WithRecordStore(store),
	)
	if err != nil {
		return err
	}

	defer logger.ClearContext(logContextTx)
	for i := range s.Transactions {
		if err = ctx.Err(); err != nil {
			return err
		}
		var ct *handling.ConsensusTransaction
		if ct, err = s.consensusTransaction(i); err != nil {
			return err
		}
		logger.SetContext(logContextTx, i)
		if _, err = p.Process(ct); err != nil {
			if et := errors.FindErrorType(err); et != nil {
				log.Error("Replay stopped at transaction %d, %v", i, et)
			}
			return errors.Wrapf(err, "transaction %d", i)
		}
	}
	log.Info("Replayed %d transactions from %s", len(s.Transactions), scenarioFile)

	if err = printRecords(store, out); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		return writeMetrics(registry, cfg.MetricsFile)
	}
	return nil
}

func openDB(file string) (keyvaluedb.KeyValueDB, error) {
	if file == "" {
		return memorydb.New(), nil
	}
	return boltdb.New(file)
}

// createAccounts skips accounts which already exist, a database can be replayed into more
// than once.
func createAccounts(l *ledger.KVLedger, accounts []*scenarioAccount) error {
	for _, a := range accounts {
		key, err := a.key()
		if err != nil {
			return err
		}
		err = l.CreateAccount(a.ID, a.Balance, key)
		if errors.Is(err, ledger.ErrAccountExists) {
			log.Debug("Account %s already exists", a.ID)
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "creating account %s", a.ID)
		}
	}
	return nil
}

func printRecords(store *records.Store, out io.Writer) error {
	var recs []*types.TransactionRecord
	if err := store.ForEach(func(r *types.TransactionRecord) error {
		recs = append(recs, r)
		return nil
	}); err != nil {
		return errors.Wrap(err, "reading records")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

func writeMetrics(g prometheus.Gatherer, file string) (err error) {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating metrics file %s", file)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for _, mf := range mfs {
		if _, err = expfmt.MetricFamilyToText(f, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
