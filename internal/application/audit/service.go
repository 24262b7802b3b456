package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/fintegrity/backend/internal/domain/audit"
	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service provides application-level audit operations. It resolves the
// ledger snapshot through the loader, applies per-request threshold
// overrides on top of the configured defaults, and maps the domain report
// to the API response shape.
type Service struct {
	loader   ledger.SnapshotLoader
	defaults audit.Options
	rules    ledger.ClassifierRules
	logger   *zap.Logger
}

// NewService creates a new audit Service
func NewService(loader ledger.SnapshotLoader, defaults audit.Options, rules ledger.ClassifierRules, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader:   loader,
		defaults: defaults,
		rules:    rules,
		logger:   logger,
	}
}

// ===================== Request DTOs =====================

// RunAuditRequest represents a request to audit one accounting period.
// Threshold fields are optional overrides; absent fields keep the configured
// defaults.
type RunAuditRequest struct {
	CompanyID        uuid.UUID  `json:"company_id" binding:"required"`
	PeriodID         uuid.UUID  `json:"period_id" binding:"required"`
	PreviousPeriodID *uuid.UUID `json:"previous_period_id,omitempty"`

	// Checks selects audit areas by name; empty means all.
	Checks []string `json:"checks,omitempty"`

	LargeTransactionLimit   *float64 `json:"large_transaction_limit,omitempty" binding:"omitempty,gt=0"`
	NearDuplicateThreshold  *float64 `json:"near_duplicate_threshold,omitempty" binding:"omitempty,gt=0,lte=1"`
	RoundNumberGranularity  *int64   `json:"round_number_granularity,omitempty" binding:"omitempty,gt=0"`
	RoundNumberWarnCount    *int     `json:"round_number_warn_count,omitempty" binding:"omitempty,gte=0"`
	EndOfPeriodWindowDays   *int     `json:"end_of_period_window_days,omitempty" binding:"omitempty,gt=0"`
	WarningCountsAsHalfPass *bool    `json:"warning_counts_as_half_pass,omitempty"`
}

// ===================== Response DTOs =====================

// FindingResponse represents one test outcome in API responses
type FindingResponse struct {
	Category    string         `json:"category"`
	TestName    string         `json:"test_name"`
	Severity    string         `json:"severity"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Evidence    map[string]any `json:"evidence,omitempty"`
}

// RecommendationResponse represents a generated follow-up action
type RecommendationResponse struct {
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
	Action         string `json:"action"`
}

// CategorySummaryResponse aggregates finding outcomes for one audit area
type CategorySummaryResponse struct {
	Category         string `json:"category"`
	FindingCount     int    `json:"finding_count"`
	PassCount        int    `json:"pass_count"`
	WarningCount     int    `json:"warning_count"`
	FailCount        int    `json:"fail_count"`
	UnavailableCount int    `json:"unavailable_count"`
}

// AuditReportResponse represents a full audit report in API responses
type AuditReportResponse struct {
	ID                  uuid.UUID  `json:"id"`
	CompanyID           uuid.UUID  `json:"company_id"`
	PeriodID            uuid.UUID  `json:"period_id"`
	PeriodTitle         string     `json:"period_title"`
	PreviousPeriodID    *uuid.UUID `json:"previous_period_id,omitempty"`
	PreviousPeriodTitle string     `json:"previous_period_title,omitempty"`
	GeneratedAt         time.Time  `json:"generated_at"`

	Checks          []string                  `json:"checks"`
	Findings        []FindingResponse         `json:"findings"`
	KeyFindings     []FindingResponse         `json:"key_findings"`
	CategorySummary []CategorySummaryResponse `json:"category_summary"`

	OverallScore    float64                  `json:"overall_score"`
	RiskLevel       string                   `json:"risk_level"`
	Recommendations []RecommendationResponse `json:"recommendations"`

	PassCount        int `json:"pass_count"`
	WarningCount     int `json:"warning_count"`
	FailCount        int `json:"fail_count"`
	UnavailableCount int `json:"unavailable_count"`

	Incomplete          bool  `json:"incomplete"`
	ExecutionDurationMs int64 `json:"execution_duration_ms"`
}

// ===================== Service Methods =====================

// RunAudit audits one accounting period and returns the assembled report.
// Loader misses surface as shared.ErrNotFound-wrapping errors; malformed
// requests surface as INVALID_INPUT domain errors.
func (s *Service) RunAudit(ctx context.Context, req RunAuditRequest) (*AuditReportResponse, error) {
	checks, err := audit.ParseChecks(req.Checks)
	if err != nil {
		return nil, err
	}

	opts := s.defaults
	opts.Checks = checks
	applyOverrides(&opts, req)

	engine, err := audit.NewEngine(opts, ledger.NewAccountClassifier(s.rules), s.logger)
	if err != nil {
		return nil, err
	}

	snap, err := s.loader.Load(ctx, req.CompanyID, req.PeriodID, req.PreviousPeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}

	report, err := engine.Run(ctx, snap)
	if err != nil {
		return nil, err
	}

	return toAuditReportResponse(report), nil
}

// applyOverrides folds the request's optional threshold overrides into opts
func applyOverrides(opts *audit.Options, req RunAuditRequest) {
	if req.LargeTransactionLimit != nil {
		opts.LargeTransactionLimit = decimal.NewFromFloat(*req.LargeTransactionLimit)
	}
	if req.NearDuplicateThreshold != nil {
		opts.NearDuplicateThreshold = *req.NearDuplicateThreshold
	}
	if req.RoundNumberGranularity != nil {
		opts.RoundNumberGranularity = *req.RoundNumberGranularity
	}
	if req.RoundNumberWarnCount != nil {
		opts.RoundNumberWarnCount = *req.RoundNumberWarnCount
	}
	if req.EndOfPeriodWindowDays != nil {
		opts.EndOfPeriodWindowDays = *req.EndOfPeriodWindowDays
	}
	if req.WarningCountsAsHalfPass != nil {
		opts.WarningCountsAsHalfPass = *req.WarningCountsAsHalfPass
	}
}

// ===================== Mappers =====================

func toFindingResponse(f audit.Finding) FindingResponse {
	return FindingResponse{
		Category:    f.Category.String(),
		TestName:    f.TestName,
		Severity:    f.Severity.String(),
		Status:      f.Status.String(),
		Description: f.Description,
		Evidence:    f.Evidence,
	}
}

func toAuditReportResponse(report *audit.AuditReport) *AuditReportResponse {
	findings := make([]FindingResponse, 0, len(report.Findings))
	for _, f := range report.Findings {
		findings = append(findings, toFindingResponse(f))
	}

	keyFindings := make([]FindingResponse, 0)
	for _, f := range report.KeyFindings() {
		keyFindings = append(keyFindings, toFindingResponse(f))
	}

	checks := make([]string, 0, len(report.Checks))
	for _, k := range report.Checks {
		checks = append(checks, k.String())
	}

	recommendations := make([]RecommendationResponse, 0, len(report.Recommendations))
	for _, r := range report.Recommendations {
		recommendations = append(recommendations, RecommendationResponse{
			Category:       r.Category.String(),
			Priority:       r.Priority.String(),
			Recommendation: r.Recommendation,
			Action:         r.Action,
		})
	}

	return &AuditReportResponse{
		ID:                  report.ID,
		CompanyID:           report.CompanyID,
		PeriodID:            report.PeriodID,
		PeriodTitle:         report.PeriodTitle,
		PreviousPeriodID:    report.PreviousPeriodID,
		PreviousPeriodTitle: report.PreviousPeriodTitle,
		GeneratedAt:         report.GeneratedAt,
		Checks:              checks,
		Findings:            findings,
		KeyFindings:         keyFindings,
		CategorySummary:     buildCategorySummary(report),
		OverallScore:        report.OverallScore,
		RiskLevel:           report.RiskLevel.String(),
		Recommendations:     recommendations,
		PassCount:           report.PassCount,
		WarningCount:        report.WarningCount,
		FailCount:           report.FailCount,
		UnavailableCount:    report.UnavailableCount,
		Incomplete:          report.Incomplete,
		ExecutionDurationMs: report.ExecutionDurationMs,
	}
}

// buildCategorySummary tallies finding outcomes per audit area, in the
// report's fixed category order.
func buildCategorySummary(report *audit.AuditReport) []CategorySummaryResponse {
	summaries := make([]CategorySummaryResponse, 0, len(report.Checks))
	for _, c := range []audit.Category{audit.CategoryIntegrity, audit.CategoryFraud, audit.CategoryRatio, audit.CategoryCashflow} {
		findings := report.FindingsByCategory(c)
		if len(findings) == 0 {
			continue
		}
		summary := CategorySummaryResponse{
			Category:     c.String(),
			FindingCount: len(findings),
		}
		for _, f := range findings {
			switch f.Status {
			case audit.StatusPass:
				summary.PassCount++
			case audit.StatusWarning:
				summary.WarningCount++
			case audit.StatusFail:
				summary.FailCount++
			case audit.StatusUnavailable:
				summary.UnavailableCount++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
