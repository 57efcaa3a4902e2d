package notificationstore

import (
	dbmodels "ncp-tracker-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Notification) (string, error)
	List(userID string, unreadOnly bool, page, limit int) (list []dbmodels.Notification, rowCount int64, err error)
	ListUnread(userID string) (list []dbmodels.Notification, err error)
	CountUnread(userID string) (int64, error)
	MarkRead(userID, id string) (rowsAffected int64, err error)
	MarkAllRead(userID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(userID string, unreadOnly bool, page, limit int) (list []dbmodels.Notification, rowCount int64, err error) {
	err = i.listQuery(userID, unreadOnly).
		Count(&rowCount).
		Error
	if err != nil {
		return nil, 0, err
	}
	tx := i.listQuery(userID, unreadOnly)
	i.setPage(tx, page, limit)
	err = tx.
		Order("is_read").
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) listQuery(userID string, unreadOnly bool) *gorm.DB {
	tx := i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	return tx
}

func (i impl) ListUnread(userID string) (list []dbmodels.Notification, err error) {
	err = i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountUnread(userID string) (count int64, err error) {
	err = i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(&count).
		Error
	return count, err
}

func (i impl) MarkRead(userID, id string) (int64, error) {
	res := i.db.Model(dbmodels.Notification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Update("is_read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (i impl) MarkAllRead(userID string) error {
	return i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Update("is_read", true).
		Error
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	if page == 0 || limit == 0 {
		return
	}
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
