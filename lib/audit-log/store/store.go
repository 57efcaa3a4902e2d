package auditlogstore

import (
	dbmodels "ncp-tracker-backend/models/db"

	"gorm.io/gorm"
)

// Provider has no update or delete, the audit trail is append-only.
type Provider interface {
	Create(rec dbmodels.AuditLog) error
	List(ncpID string) (list []dbmodels.AuditLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AuditLog) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) List(ncpID string) (list []dbmodels.AuditLog, err error) {
	err = i.db.Model(dbmodels.AuditLog{}).
		Where("ncp_id = ?", ncpID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
