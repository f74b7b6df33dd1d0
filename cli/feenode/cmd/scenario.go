package cmd

import (
	"encoding/hex"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/handling"
	"github.com/alphabill-org/feecharging/internal/types"
)

var defaultScenarioStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	// scenario is a list of consensus ordered transactions together with the accounts
	// and the address book they are handled against.
	scenario struct {
		Start        time.Time                  `yaml:"start"`
		Properties   map[string]any             `yaml:"properties"`
		Nodes        map[uint64]types.AccountID `yaml:"nodes"`
		Accounts     []*scenarioAccount         `yaml:"accounts"`
		Transactions []*scenarioTx              `yaml:"transactions"`
	}

	scenarioAccount struct {
		ID      types.AccountID `yaml:"id"`
		Balance uint64          `yaml:"balance"`
		// hex encoded public key
		Key string `yaml:"key"`
	}

	scenarioTx struct {
		Payer  types.AccountID `yaml:"payer"`
		Node   types.AccountID `yaml:"node"`
		Member uint64          `yaml:"member"`
		MaxFee uint64          `yaml:"maxFee"`
		Memo   string          `yaml:"memo"`
		// nil means the signature is valid
		PayerSigValid         *bool             `yaml:"payerSigValid"`
		Fees                  fees.FeeObject    `yaml:"fees"`
		CacheRecord           bool              `yaml:"cacheRecord"`
		ThresholdParticipants []types.AccountID `yaml:"thresholdParticipants"`
		Transfer              *scenarioTransfer `yaml:"transfer"`
		// offset from the scenario start, defaults to one second per transaction
		ConsensusOffset *time.Duration `yaml:"consensusOffset"`
	}

	scenarioTransfer struct {
		To     types.AccountID `yaml:"to"`
		Amount uint64          `yaml:"amount"`
	}
)

func loadScenario(file string) (*scenario, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", file)
	}
	s := &scenario{}
	if err = yaml.Unmarshal(b, s); err != nil {
		return nil, errors.Wrapf(err, "decoding scenario %s", file)
	}
	if s.Start.IsZero() {
		s.Start = defaultScenarioStart
	}
	if len(s.Nodes) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration, "scenario %s has no nodes", file)
	}
	return s, nil
}

func (a *scenarioAccount) key() (types.Key, error) {
	if a.Key == "" {
		return nil, nil
	}
	k, err := hex.DecodeString(a.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "account %s key", a.ID)
	}
	return k, nil
}

// consensusTransaction builds the i-th transaction of the scenario.
func (s *scenario) consensusTransaction(i int) (*handling.ConsensusTransaction, error) {
	stx := s.Transactions[i]
	consensusTime := s.Start.Add(time.Duration(i+1) * time.Second)
	if stx.ConsensusOffset != nil {
		consensusTime = s.Start.Add(*stx.ConsensusOffset)
	}
	txn := &types.Transaction{
		TransactionID: types.TransactionID{
			Payer:      stx.Payer,
			ValidStart: types.TimestampFrom(consensusTime.Add(-time.Second)),
		},
		NodeAccountID:  stx.Node,
		TransactionFee: stx.MaxFee,
		Memo:           stx.Memo,
	}
	if stx.Transfer != nil {
		body, err := (&handling.TransferBody{To: stx.Transfer.To, Amount: stx.Transfer.Amount}).Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d body", i)
		}
		txn.Body = body
	}
	return &handling.ConsensusTransaction{
		Transaction:           txn,
		ConsensusTime:         consensusTime,
		SubmittingMember:      stx.Member,
		PayerSigValid:         stx.PayerSigValid == nil || *stx.PayerSigValid,
		Fees:                  stx.Fees,
		CacheRecord:           stx.CacheRecord,
		ThresholdParticipants: stx.ThresholdParticipants,
	}, nil
}
