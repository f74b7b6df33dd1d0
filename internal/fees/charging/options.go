package charging

import (
	"github.com/alphabill-org/feecharging/internal/config"
	"github.com/alphabill-org/feecharging/internal/fees"
	"github.com/alphabill-org/feecharging/internal/ledger"
	"github.com/alphabill-org/feecharging/internal/logger"
)

type Option func(c *ItemizableFeeCharging)

func WithLedger(l ledger.BalanceLedger) Option {
	return func(c *ItemizableFeeCharging) {
		c.ledger = l
	}
}

func WithExemptions(e fees.Exemptions) Option {
	return func(c *ItemizableFeeCharging) {
		c.exemptions = e
	}
}

func WithProperties(p config.PropertySource) Option {
	return func(c *ItemizableFeeCharging) {
		c.properties = p
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *ItemizableFeeCharging) {
		c.log = l
	}
}
