package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/fintegrity/backend/internal/domain/shared"
	"github.com/fintegrity/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SnapshotRepository loads the read-only ledger snapshot one audit run
// operates on. It implements ledger.SnapshotLoader; the engine never writes
// back through it.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Load materializes the period's documents, line items and the company's
// chart of accounts. When previousPeriodID is given the previous period's
// line items are loaded as comparatives. Missing company or period resolves
// to an error wrapping shared.ErrNotFound.
func (r *SnapshotRepository) Load(ctx context.Context, companyID, periodID uuid.UUID, previousPeriodID *uuid.UUID) (*ledger.Snapshot, error) {
	var company models.CompanyModel
	if err := r.db.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %s: %w", companyID, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	period, err := r.loadPeriod(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}

	var previous *ledger.Period
	var previousItems []ledger.LineItem
	if previousPeriodID != nil {
		p, err := r.loadPeriod(ctx, companyID, *previousPeriodID)
		if err != nil {
			return nil, err
		}
		previous = &p

		previousItems, err = r.loadItems(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}

	documents, err := r.loadDocuments(ctx, periodID)
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, periodID)
	if err != nil {
		return nil, err
	}

	accounts, err := r.loadAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return ledger.NewSnapshot(companyID, period, previous, documents, items, previousItems, accounts), nil
}

func (r *SnapshotRepository) loadPeriod(ctx context.Context, companyID, periodID uuid.UUID) (ledger.Period, error) {
	var model models.PeriodModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, periodID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledger.Period{}, fmt.Errorf("period %s: %w", periodID, shared.ErrNotFound)
		}
		return ledger.Period{}, fmt.Errorf("failed to load period: %w", err)
	}
	return model.ToDomain(), nil
}

// loadDocuments returns the period's journal entry headers ordered by
// document number, with ID as a tiebreaker so reruns see identical input.
func (r *SnapshotRepository) loadDocuments(ctx context.Context, periodID uuid.UUID) ([]ledger.Document, error) {
	var rows []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("document_number ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	documents := make([]ledger.Document, 0, len(rows))
	for i := range rows {
		documents = append(documents, rows[i].ToDomain())
	}
	return documents, nil
}

// loadItems returns every journal entry line of the period, resolved through
// the document headers.
func (r *SnapshotRepository) loadItems(ctx context.Context, periodID uuid.UUID) ([]ledger.LineItem, error) {
	var rows []models.LineItemModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = line_items.document_id").
		Where("documents.period_id = ?", periodID).
		Order("line_items.document_id ASC, line_items.row_number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}

	items := make([]ledger.LineItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToDomain())
	}
	return items, nil
}

func (r *SnapshotRepository) loadAccounts(ctx context.Context, companyID uuid.UUID) ([]ledger.Account, error) {
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	accounts := make([]ledger.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].ToDomain())
	}
	return accounts, nil
}
