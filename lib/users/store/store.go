package usersstore

import (
	"ncp-tracker-backend/models"
	dbmodels "ncp-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.User) (string, error)
	Update(userID string, updMap map[string]interface{}) error
	GetByID(userID string) (rec *dbmodels.User, err error)
	GetByUsername(username string) (rec *dbmodels.User, err error)
	GetList() (list []dbmodels.User, err error)
	// GetActiveByRole returns active users holding the role, ordered by username.
	GetActiveByRole(role models.UserRole) (list []dbmodels.User, err error)
	ExistByRole(role models.UserRole) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", errors.Wrapf(models.ErrConflict, "user %v already exists", rec.Username)
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	err := i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByID(userID string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) GetByUsername(username string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("username = ?", username).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) GetList() (list []dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Order("username").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetActiveByRole(role models.UserRole) (list []dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("username").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ExistByRole(role models.UserRole) (bool, error) {
	var count int64
	err := i.db.Model(dbmodels.User{}).
		Where("role = ?", role).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
