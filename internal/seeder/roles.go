// Package seeder loads reference data from spreadsheets during database
// setup. The roles seed is one-directional: rows in, bulk insert; rollback
// clears the whole table.
package seeder

import (
	"fmt"
	"log/slog"
	"time"

	userDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/user"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const insertBatchSize = 100

type RoleRecord struct {
	Code string
	Name string
}

// LoadRoles reads the first sheet of the spreadsheet at path. The first row
// is a header; every following row contributes {code, name} from the first
// two columns. A malformed row aborts the whole load.
func LoadRoles(path string) ([]RoleRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var records []RoleRecord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("row %d: expected code and name columns", i+1)
		}
		records = append(records, RoleRecord{Code: row[0], Name: row[1]})
	}

	return records, nil
}

type RoleSeeder struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRoleSeeder(db *gorm.DB, logger *slog.Logger) *RoleSeeder {
	return &RoleSeeder{db: db, logger: logger}
}

// Seed converts the spreadsheet rows to role rows and bulk-inserts them.
func (s *RoleSeeder) Seed(path string) error {
	records, err := LoadRoles(path)
	if err != nil {
		s.logger.Error("role seed aborted", "path", path, "error", err)
		return err
	}

	now := time.Now()
	rows := make([]userDatamodel.Role, 0, len(records))
	for _, rec := range records {
		rows = append(rows, userDatamodel.Role{
			Code:      rec.Code,
			Name:      rec.Name,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(rows) == 0 {
		s.logger.Warn("spreadsheet contained no data rows", "path", path)
		return nil
	}

	if err := s.db.CreateInBatches(rows, insertBatchSize).Error; err != nil {
		s.logger.Error("role seed insert failed", "error", err)
		return fmt.Errorf("insert roles: %w", err)
	}

	s.logger.Info("roles seeded", "count", len(rows))
	return nil
}

// Rollback deletes every row in the roles table unconditionally.
func (s *RoleSeeder) Rollback() error {
	if err := s.db.Where("1 = 1").Delete(&userDatamodel.Role{}).Error; err != nil {
		s.logger.Error("role seed rollback failed", "error", err)
		return fmt.Errorf("clear roles: %w", err)
	}
	s.logger.Info("roles table cleared")
	return nil
}
