package ncpstore

import (
	ncpnumber "ncp-tracker-backend/lib/ncp-number"
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	dbmodels "ncp-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// Create allocates the next number within prefix and inserts rec in one transaction.
	Create(rec dbmodels.NcpReport, prefix string) (*dbmodels.NcpReport, error)
	GetByID(id uint) (*dbmodels.NcpReport, error)
	GetByNcpID(ncpID string) (*dbmodels.NcpReport, error)
	List(filter ncpapimodels.ListFilter) ([]dbmodels.NcpReport, error)
	// UpdateStatus applies updMap only while the report is still in status from.
	UpdateStatus(id uint, from models.NcpStatus, updMap map[string]interface{}) (rowsAffected int64, err error)
	// UpdateAudited applies updMap and appends the audit entries in one transaction.
	UpdateAudited(id uint, updMap map[string]interface{}, entries []dbmodels.AuditLog) (rowsAffected int64, err error)
	Delete(id uint) (rowsAffected int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.NcpReport, prefix string) (*dbmodels.NcpReport, error) {
	err := i.db.Transaction(func(tx *gorm.DB) error {
		// serializes allocations of the same month, released on commit/rollback
		err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error
		if err != nil {
			return errors.Wrap(err, "failed to lock NCP number prefix")
		}
		var last string
		err = tx.Model(&dbmodels.NcpReport{}).
			Where("ncp_id LIKE ?", prefix+"%").
			Order("ncp_id DESC").
			Limit(1).
			Pluck("ncp_id", &last).
			Error
		if err != nil {
			return errors.Wrap(err, "failed to read last NCP number")
		}
		rec.NcpID, err = ncpnumber.Next(prefix, last)
		if err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Wrapf(models.ErrConflict, "NCP number %v already exists", rec.NcpID)
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id uint) (*dbmodels.NcpReport, error) {
	rec := dbmodels.NcpReport{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByNcpID(ncpID string) (*dbmodels.NcpReport, error) {
	rec := dbmodels.NcpReport{}
	err := i.db.
		Where("ncp_id = ?", ncpID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(filter ncpapimodels.ListFilter) (list []dbmodels.NcpReport, err error) {
	list = []dbmodels.NcpReport{}
	tx := i.db.Model(&dbmodels.NcpReport{})
	if filter.SubmittedBy != "" {
		tx = tx.Where("submitted_by = ?", filter.SubmittedBy)
	}
	if filter.QaLeader != "" {
		tx = tx.Where("qa_leader = ?", filter.QaLeader)
	}
	if filter.AssignedTeamLeader != "" {
		tx = tx.Where("assigned_team_leader = ?", filter.AssignedTeamLeader)
	}
	if len(filter.Statuses) != 0 {
		tx = tx.Where("status IN ?", filter.Statuses)
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "submitted_at"
	}
	tx = tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: !filter.OrderAsc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: !filter.OrderAsc})
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) UpdateStatus(id uint, from models.NcpStatus, updMap map[string]interface{}) (int64, error) {
	if len(updMap) == 0 {
		return 0, nil
	}
	res := i.db.
		Model(&dbmodels.NcpReport{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updMap)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (i impl) UpdateAudited(id uint, updMap map[string]interface{}, entries []dbmodels.AuditLog) (rowsAffected int64, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		if len(entries) != 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return errors.Wrap(err, "failed to write audit log")
			}
		}
		if len(updMap) == 0 {
			rowsAffected = 1
			return nil
		}
		res := tx.
			Model(&dbmodels.NcpReport{}).
			Where("id = ?", id).
			Updates(updMap)
		if res.Error != nil {
			return res.Error
		}
		rowsAffected = res.RowsAffected
		if rowsAffected == 0 {
			// nothing changed, drop the audit entries as well
			return models.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return 0, nil
	}
	return rowsAffected, err
}

func (i impl) Delete(id uint) (int64, error) {
	res := i.db.
		Where("id = ?", id).
		Delete(&dbmodels.NcpReport{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
