package housekeepingstore

import (
	dbmodels "ncp-tracker-backend/models/db"
	"time"

	"gorm.io/gorm"
)

type Provider interface {
	DeleteReadNotifications(before time.Time) (int64, error)
	DeleteSystemLogs(before time.Time) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) DeleteReadNotifications(before time.Time) (int64, error) {
	res := i.db.
		Where("is_read = ?", true).
		Where("created_at < ?", before).
		Delete(&dbmodels.Notification{})
	return res.RowsAffected, res.Error
}

func (i impl) DeleteSystemLogs(before time.Time) (int64, error) {
	res := i.db.
		Where("created_at < ?", before).
		Delete(&dbmodels.SystemLog{})
	return res.RowsAffected, res.Error
}
