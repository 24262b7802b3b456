package persistence

import (
	"fmt"

	"github.com/fintegrity/backend/internal/infrastructure/persistence/models"
)

// AutoMigrate creates or updates the ledger tables. The audit engine itself
// only reads; migration exists so a fresh database (notably the sqlite
// single-file case) can be seeded before importing a ledger.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(
		&models.CompanyModel{},
		&models.PeriodModel{},
		&models.DocumentModel{},
		&models.LineItemModel{},
		&models.AccountModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	return nil
}
