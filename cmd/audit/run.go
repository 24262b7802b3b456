package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	appaudit "github.com/fintegrity/backend/internal/application/audit"
	"github.com/fintegrity/backend/internal/domain/shared"
	"github.com/fintegrity/backend/internal/infrastructure/config"
	"github.com/fintegrity/backend/internal/infrastructure/logger"
	"github.com/fintegrity/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runFlags struct {
	company        string
	period         string
	previousPeriod string
	checks         []string

	largeTransactionLimit  float64
	nearDuplicateThreshold float64
	roundNumberGranularity int64
	roundNumberWarnCount   int
	eopWindowDays          int

	timeout time.Duration
	compact bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Audit one accounting period and print the JSON report",
	Long: `Run executes the selected checks against one accounting period and
prints the report as JSON on stdout. Logs go to stderr so the report stays
machine-readable.

A non-zero risk level is not an error: exit code 0 means a report was
generated, whatever it found.`,
	RunE: runAudit,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.company, "company", "", "company ID (UUID, required)")
	f.StringVar(&runFlags.period, "period", "", "accounting period ID (UUID, required)")
	f.StringVar(&runFlags.previousPeriod, "previous-period", "", "previous period ID for comparative checks (UUID)")
	f.StringSliceVar(&runFlags.checks, "checks", nil, "checks to run: integrity,fraud,ratios,cashflow (default all)")

	f.Float64Var(&runFlags.largeTransactionLimit, "large-transaction-limit", 0, "flag single amounts at or above this limit")
	f.Float64Var(&runFlags.nearDuplicateThreshold, "near-duplicate-threshold", 0, "description similarity ratio in (0,1] treated as near-duplicate")
	f.Int64Var(&runFlags.roundNumberGranularity, "round-number-granularity", 0, "granularity for round-amount detection")
	f.IntVar(&runFlags.roundNumberWarnCount, "round-number-warn-count", 0, "round-amount count that degrades the test to WARNING")
	f.IntVar(&runFlags.eopWindowDays, "eop-window-days", 0, "end-of-period rush window in days")

	f.DurationVar(&runFlags.timeout, "timeout", 0, "abort the run after this duration (0 = no deadline)")
	f.BoolVar(&runFlags.compact, "compact", false, "print the report without indentation")

	rootCmd.AddCommand(runCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	req, err := buildRunRequest(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logs go to stderr; stdout carries only the report
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     "stderr",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	service := appaudit.NewService(
		persistence.NewSnapshotRepository(db.DB),
		appaudit.OptionsFromConfig(cfg.Audit),
		appaudit.RulesFromConfig(cfg.Classifier),
		log,
	)

	ctx := cmd.Context()
	if runFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runFlags.timeout)
		defer cancel()
	}

	report, err := service.RunAudit(ctx, *req)
	if err != nil {
		return err
	}

	return printReport(report)
}

// buildRunRequest translates flags into an audit request. Threshold flags
// left unset keep the configured defaults.
func buildRunRequest(cmd *cobra.Command) (*appaudit.RunAuditRequest, error) {
	companyID, err := uuid.Parse(runFlags.company)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid company ID %q", runFlags.company))
	}
	periodID, err := uuid.Parse(runFlags.period)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid period ID %q", runFlags.period))
	}

	req := &appaudit.RunAuditRequest{
		CompanyID: companyID,
		PeriodID:  periodID,
		Checks:    runFlags.checks,
	}

	if runFlags.previousPeriod != "" {
		previousID, err := uuid.Parse(runFlags.previousPeriod)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid previous period ID %q", runFlags.previousPeriod))
		}
		req.PreviousPeriodID = &previousID
	}

	flags := cmd.Flags()
	if flags.Changed("large-transaction-limit") {
		req.LargeTransactionLimit = &runFlags.largeTransactionLimit
	}
	if flags.Changed("near-duplicate-threshold") {
		req.NearDuplicateThreshold = &runFlags.nearDuplicateThreshold
	}
	if flags.Changed("round-number-granularity") {
		req.RoundNumberGranularity = &runFlags.roundNumberGranularity
	}
	if flags.Changed("round-number-warn-count") {
		req.RoundNumberWarnCount = &runFlags.roundNumberWarnCount
	}
	if flags.Changed("eop-window-days") {
		req.EndOfPeriodWindowDays = &runFlags.eopWindowDays
	}

	return req, nil
}

func printReport(report *appaudit.AuditReportResponse) error {
	enc := json.NewEncoder(os.Stdout)
	if !runFlags.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}
