package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// checker is one audit area runnable against a snapshot
type checker interface {
	Check(ctx context.Context, snap *ledger.Snapshot) []Finding
}

// kindCategory maps a check kind to the category its panic finding carries
var kindCategory = map[CheckKind]Category{
	CheckIntegrity: CategoryIntegrity,
	CheckFraud:     CategoryFraud,
	CheckRatios:    CategoryRatio,
	CheckCashflow:  CategoryCashflow,
}

// Engine assembles one audit report per invocation. The snapshot is shared
// read-only across all checkers, which run concurrently; the engine owns the
// only mutable state and touches it strictly after the join.
type Engine struct {
	opts       Options
	classifier *ledger.AccountClassifier
	logger     *zap.Logger
}

// NewEngine creates an audit engine, rejecting malformed options up front
func NewEngine(opts Options, classifier *ledger.AccountClassifier, logger *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		classifier = ledger.NewAccountClassifier(ledger.DefaultClassifierRules())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, classifier: classifier, logger: logger}, nil
}

// checkersFor builds the checker chain for one kind. The sequence analysis
// runs inside the integrity area; its findings are integrity findings.
func (e *Engine) checkersFor(kind CheckKind) []checker {
	switch kind {
	case CheckIntegrity:
		return []checker{NewIntegrityChecker(e.opts), NewSequenceChecker(e.opts)}
	case CheckFraud:
		return []checker{NewFraudChecker(e.opts)}
	case CheckRatios:
		return []checker{NewRatioChecker(e.opts, e.classifier)}
	case CheckCashflow:
		return []checker{NewCashflowChecker(e.opts, e.classifier)}
	}
	return nil
}

// Run executes the requested checks against the snapshot and assembles the
// report. Cancellation does not abort the join: checkers observe the context
// and return early, and the report is marked incomplete.
func (e *Engine) Run(ctx context.Context, snap *ledger.Snapshot) (*AuditReport, error) {
	if snap == nil {
		return nil, fmt.Errorf("audit engine: nil snapshot")
	}
	started := time.Now()

	kinds := make([]CheckKind, 0, len(AllChecks()))
	for _, k := range AllChecks() {
		if e.opts.wantsCheck(k) {
			kinds = append(kinds, k)
		}
	}

	e.logger.Info("audit run starting",
		zap.String("company_id", snap.CompanyID.String()),
		zap.String("period", snap.Period.String()),
		zap.Int("documents", len(snap.Documents)),
		zap.Int("items", len(snap.Items)),
		zap.Int("checks", len(kinds)),
	)

	results := make([][]Finding, len(kinds))
	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind CheckKind) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("checker panicked",
						zap.String("check", kind.String()),
						zap.Any("panic", r),
					)
					results[i] = append(results[i], NewFinding(
						kindCategory[kind], kind.String()+"_execution",
						StatusFail, SeverityCritical,
						fmt.Sprintf("The %s checker aborted: %v", kind, r),
						Evidence{"panic": fmt.Sprint(r)},
					))
				}
			}()

			checkStart := time.Now()
			for _, c := range e.checkersFor(kind) {
				results[i] = append(results[i], c.Check(ctx, snap)...)
			}
			e.logger.Debug("checker finished",
				zap.String("check", kind.String()),
				zap.Int("findings", len(results[i])),
				zap.Duration("took", time.Since(checkStart)),
			)
		}(i, kind)
	}
	wg.Wait()

	findings := make([]Finding, 0, 24)
	for _, r := range results {
		findings = append(findings, r...)
	}
	sort.SliceStable(findings, func(a, b int) bool {
		return categoryRank(findings[a].Category) < categoryRank(findings[b].Category)
	})

	score, risk := ComputeScore(findings, e.opts)

	report := &AuditReport{
		ID:          uuid.New(),
		CompanyID:   snap.CompanyID,
		PeriodID:    snap.Period.ID,
		PeriodTitle: snap.Period.Title,
		GeneratedAt: time.Now().UTC(),

		Checks:   kinds,
		Findings: findings,

		OverallScore:    score,
		RiskLevel:       risk,
		Recommendations: BuildRecommendations(findings),

		Incomplete:          ctx.Err() != nil,
		ExecutionDurationMs: time.Since(started).Milliseconds(),
	}
	if snap.PreviousPeriod != nil {
		id := snap.PreviousPeriod.ID
		report.PreviousPeriodID = &id
		report.PreviousPeriodTitle = snap.PreviousPeriod.Title
	}
	report.countStatuses()

	e.logger.Info("audit run finished",
		zap.String("report_id", report.ID.String()),
		zap.Float64("score", report.OverallScore),
		zap.String("risk_level", report.RiskLevel.String()),
		zap.Int("findings", len(report.Findings)),
		zap.Bool("incomplete", report.Incomplete),
		zap.Int64("duration_ms", report.ExecutionDurationMs),
	)
	return report, nil
}

// categoryRank positions a category within the report's merge order
func categoryRank(c Category) int {
	for i, cat := range categoryOrder {
		if cat == c {
			return i
		}
	}
	return len(categoryOrder)
}
