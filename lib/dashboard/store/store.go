package dashboardstore

import (
	"ncp-tracker-backend/models"
	dashboardapimodels "ncp-tracker-backend/models/api/dashboard"
	dbmodels "ncp-tracker-backend/models/db"
	"time"

	"gorm.io/gorm"
)

type GroupColumn string

const (
	GroupBySku     GroupColumn = "sku_code"
	GroupByMachine GroupColumn = "machine_code"
)

type Provider interface {
	CountByStatus() (map[models.NcpStatus]int64, error)
	// CountByMonth counts reports submitted in [from, to), keyed YYYY-MM.
	CountByMonth(from, to time.Time) (map[string]int64, error)
	TopKeys(column GroupColumn, limit int) ([]dashboardapimodels.KeyCount, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CountByStatus() (map[models.NcpStatus]int64, error) {
	var rows []struct {
		Status models.NcpStatus
		Count  int64
	}
	err := i.db.
		Model(&dbmodels.NcpReport{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[models.NcpStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (i impl) CountByMonth(from, to time.Time) (map[string]int64, error) {
	var rows []struct {
		Month string
		Count int64
	}
	err := i.db.
		Model(&dbmodels.NcpReport{}).
		Select("to_char(submitted_at, 'YYYY-MM') AS month, count(*) AS count").
		Where("submitted_at >= ? AND submitted_at < ?", from, to).
		Group("month").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Month] = row.Count
	}
	return result, nil
}

func (i impl) TopKeys(column GroupColumn, limit int) (list []dashboardapimodels.KeyCount, err error) {
	err = i.db.
		Model(&dbmodels.NcpReport{}).
		Select(string(column) + " AS key, count(*) AS count").
		Group(string(column)).
		Order("count DESC, key").
		Limit(limit).
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
