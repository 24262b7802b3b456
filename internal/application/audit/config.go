package audit

import (
	"github.com/fintegrity/backend/internal/domain/audit"
	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/fintegrity/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// OptionsFromConfig builds the engine default options from configuration.
// Zero-valued config fields keep the engine defaults.
func OptionsFromConfig(cfg config.AuditConfig) audit.Options {
	opts := audit.DefaultOptions()

	if cfg.LargeTransactionLimit > 0 {
		opts.LargeTransactionLimit = decimal.NewFromFloat(cfg.LargeTransactionLimit)
	}
	if cfg.NearDuplicateThreshold > 0 {
		opts.NearDuplicateThreshold = cfg.NearDuplicateThreshold
	}
	if cfg.RoundNumberGranularity > 0 {
		opts.RoundNumberGranularity = cfg.RoundNumberGranularity
	}
	if cfg.RoundNumberWarnCount > 0 {
		opts.RoundNumberWarnCount = cfg.RoundNumberWarnCount
	}
	if cfg.EndOfPeriodWindowDays > 0 {
		opts.EndOfPeriodWindowDays = cfg.EndOfPeriodWindowDays
	}
	if cfg.Tolerance > 0 {
		opts.Tolerance = decimal.NewFromFloat(cfg.Tolerance)
	}
	opts.WarningCountsAsHalfPass = cfg.WarningCountsAsHalfPass

	return opts
}

// RulesFromConfig builds the account classifier rules from configuration.
// Empty prefix lists keep the standard chart defaults.
func RulesFromConfig(cfg config.ClassifierConfig) ledger.ClassifierRules {
	rules := ledger.DefaultClassifierRules()

	if len(cfg.CashPrefixes) > 0 {
		rules.CashPrefixes = cfg.CashPrefixes
	}
	if len(cfg.CurrentAssetPrefixes) > 0 {
		rules.CurrentAssetPrefixes = cfg.CurrentAssetPrefixes
	}
	if len(cfg.InventoryPrefixes) > 0 {
		rules.InventoryPrefixes = cfg.InventoryPrefixes
	}
	if len(cfg.CurrentLiabilityPrefixes) > 0 {
		rules.CurrentLiabilityPrefixes = cfg.CurrentLiabilityPrefixes
	}
	if len(cfg.AssetPrefixes) > 0 {
		rules.AssetPrefixes = cfg.AssetPrefixes
	}
	if len(cfg.LiabilityPrefixes) > 0 {
		rules.LiabilityPrefixes = cfg.LiabilityPrefixes
	}
	if len(cfg.EquityPrefixes) > 0 {
		rules.EquityPrefixes = cfg.EquityPrefixes
	}
	if len(cfg.RevenuePrefixes) > 0 {
		rules.RevenuePrefixes = cfg.RevenuePrefixes
	}
	if len(cfg.ExpensePrefixes) > 0 {
		rules.ExpensePrefixes = cfg.ExpensePrefixes
	}
	if len(cfg.COGSPrefixes) > 0 {
		rules.COGSPrefixes = cfg.COGSPrefixes
	}
	if len(cfg.DepreciationPrefixes) > 0 {
		rules.DepreciationPrefixes = cfg.DepreciationPrefixes
	}
	if len(cfg.InvestingPrefixes) > 0 {
		rules.InvestingPrefixes = cfg.InvestingPrefixes
	}
	if len(cfg.FinancingPrefixes) > 0 {
		rules.FinancingPrefixes = cfg.FinancingPrefixes
	}

	return rules
}
