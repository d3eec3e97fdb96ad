package postgres

import (
	"github.com/frahmantamala/user-backoffice/internal/audit"
	auditDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(row *auditDatamodel.Log) error {
	return r.db.Create(row).Error
}

func (r *AuditRepository) ListByAction(action string) ([]*auditDatamodel.Log, error) {
	var rows []*auditDatamodel.Log
	err := r.db.Where("action = ?", action).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
