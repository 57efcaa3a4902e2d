package systemlogstore

import (
	dbmodels "ncp-tracker-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.SystemLog) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.SystemLog) error {
	return i.db.
		Create(&rec).
		Error
}
