package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	domainaudit "github.com/fintegrity/backend/internal/domain/audit"
	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/fintegrity/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader returns a canned snapshot or error for every Load call
type stubLoader struct {
	snapshot *ledger.Snapshot
	err      error

	lastCompanyID  uuid.UUID
	lastPeriodID   uuid.UUID
	lastPreviousID *uuid.UUID
}

func (l *stubLoader) Load(_ context.Context, companyID, periodID uuid.UUID, previousPeriodID *uuid.UUID) (*ledger.Snapshot, error) {
	l.lastCompanyID = companyID
	l.lastPeriodID = periodID
	l.lastPreviousID = previousPeriodID
	if l.err != nil {
		return nil, l.err
	}
	return l.snapshot, nil
}

// balancedSnapshot builds a tiny period with two balanced documents
func balancedSnapshot(companyID uuid.UUID) *ledger.Snapshot {
	period := ledger.Period{
		ID:        uuid.MustParse("4b1c80d6-0b0e-4f23-9a57-1f8a6a2e9b01"),
		CompanyID: companyID,
		Title:     "2025-01",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	capitalDoc := ledger.Document{
		ID:             uuid.MustParse("9a0f4c6e-75d1-41c2-8a3b-6f0e2d9c1b02"),
		PeriodID:       period.ID,
		DocumentNumber: 1,
		DocumentDate:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Description:    "Seed capital deposit",
		TotalDebit:     decimal.NewFromInt(5000),
		TotalCredit:    decimal.NewFromInt(5000),
	}
	saleDoc := ledger.Document{
		ID:             uuid.MustParse("c3b2a190-8e7d-46f5-b4a3-2d1c0f9e8d03"),
		PeriodID:       period.ID,
		DocumentNumber: 2,
		DocumentDate:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		Description:    "Cash sale of services",
		TotalDebit:     decimal.NewFromInt(2000),
		TotalCredit:    decimal.NewFromInt(2000),
	}

	items := []ledger.LineItem{
		{ID: uuid.New(), DocumentID: capitalDoc.ID, RowNumber: 1, AccountCode: "111", Debit: decimal.NewFromInt(5000), Credit: decimal.Zero, Description: "Cash received"},
		{ID: uuid.New(), DocumentID: capitalDoc.ID, RowNumber: 2, AccountCode: "411", Debit: decimal.Zero, Credit: decimal.NewFromInt(5000), Description: "Share capital"},
		{ID: uuid.New(), DocumentID: saleDoc.ID, RowNumber: 1, AccountCode: "111", Debit: decimal.NewFromInt(2000), Credit: decimal.Zero, Description: "Cash received"},
		{ID: uuid.New(), DocumentID: saleDoc.ID, RowNumber: 2, AccountCode: "511", Debit: decimal.Zero, Credit: decimal.NewFromInt(2000), Description: "Service revenue"},
	}

	accounts := []ledger.Account{
		{ID: uuid.New(), Code: "111", Name: "Cash", Group: ledger.GroupAsset, Level: 2},
		{ID: uuid.New(), Code: "411", Name: "Share capital", Group: ledger.GroupEquity, Level: 2},
		{ID: uuid.New(), Code: "511", Name: "Service revenue", Group: ledger.GroupRevenue, Level: 2},
	}

	return ledger.NewSnapshot(companyID, period, nil, []ledger.Document{capitalDoc, saleDoc}, items, nil, accounts)
}

func newTestService(loader ledger.SnapshotLoader) *Service {
	return NewService(loader, domainaudit.DefaultOptions(), ledger.DefaultClassifierRules(), nil)
}

func TestService_RunAudit(t *testing.T) {
	companyID := uuid.New()

	t.Run("returns a full report for a valid request", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		periodID := loader.snapshot.Period.ID
		resp, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID: companyID,
			PeriodID:  periodID,
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, companyID, resp.CompanyID)
		assert.Equal(t, periodID, resp.PeriodID)
		assert.Equal(t, "2025-01", resp.PeriodTitle)
		assert.Equal(t, []string{"integrity", "fraud", "ratios", "cashflow"}, resp.Checks)
		assert.NotEmpty(t, resp.Findings)
		assert.NotEmpty(t, resp.CategorySummary)
		assert.False(t, resp.Incomplete)
		assert.NotEqual(t, uuid.Nil, resp.ID)

		// The loader received exactly the request's identifiers.
		assert.Equal(t, companyID, loader.lastCompanyID)
		assert.Equal(t, periodID, loader.lastPeriodID)
		assert.Nil(t, loader.lastPreviousID)
	})

	t.Run("key findings exclude passing tests", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		resp, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID: companyID,
			PeriodID:  loader.snapshot.Period.ID,
		})

		require.NoError(t, err)
		for _, f := range resp.KeyFindings {
			assert.NotEqual(t, "PASS", f.Status)
		}
		assert.Less(t, len(resp.KeyFindings), len(resp.Findings))
	})

	t.Run("narrows to requested checks", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		resp, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID: companyID,
			PeriodID:  loader.snapshot.Period.ID,
			Checks:    []string{"integrity"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"integrity"}, resp.Checks)
		for _, f := range resp.Findings {
			assert.Equal(t, "integrity", f.Category)
		}
		require.Len(t, resp.CategorySummary, 1)
		assert.Equal(t, "integrity", resp.CategorySummary[0].Category)
	})

	t.Run("rejects unknown check names", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		_, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID: companyID,
			PeriodID:  loader.snapshot.Period.ID,
			Checks:    []string{"integrity", "palmistry"},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("propagates loader not-found errors", func(t *testing.T) {
		loader := &stubLoader{err: shared.ErrNotFound}
		svc := newTestService(loader)

		_, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID: companyID,
			PeriodID:  uuid.New(),
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("threshold overrides reach the engine", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		// A limit below the 5000 capital line makes the threshold test fail.
		limit := 1000.0
		resp, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID:             companyID,
			PeriodID:              loader.snapshot.Period.ID,
			Checks:                []string{"fraud"},
			LargeTransactionLimit: &limit,
		})

		require.NoError(t, err)
		var threshold *FindingResponse
		for i := range resp.Findings {
			if resp.Findings[i].TestName == "threshold_hits" {
				threshold = &resp.Findings[i]
				break
			}
		}
		require.NotNil(t, threshold)
		assert.Equal(t, "FAIL", threshold.Status)
	})

	t.Run("rejects out-of-range overrides", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		bad := 1.5
		_, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID:              companyID,
			PeriodID:               loader.snapshot.Period.ID,
			NearDuplicateThreshold: &bad,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("previous period id is forwarded to the loader", func(t *testing.T) {
		loader := &stubLoader{snapshot: balancedSnapshot(companyID)}
		svc := newTestService(loader)

		previousID := uuid.New()
		_, err := svc.RunAudit(context.Background(), RunAuditRequest{
			CompanyID:        companyID,
			PeriodID:         loader.snapshot.Period.ID,
			PreviousPeriodID: &previousID,
		})

		require.NoError(t, err)
		require.NotNil(t, loader.lastPreviousID)
		assert.Equal(t, previousID, *loader.lastPreviousID)
	})
}
