package ncphandler

import (
	"fmt"
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	dbmodels "ncp-tracker-backend/models/db"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm/schema"
)

func (i impl) SuperEdit(identity *models.Identity, id uint, data ncpapimodels.SuperEditData) error {
	if err := i.authorize(identity, models.NcpActionSuperEdit); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	columns := make([]string, 0, len(data.Fields))
	for column := range data.Fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	type change struct {
		field   *schema.Field
		dbValue any
		newText string
	}
	changes := make([]change, 0, len(columns))
	for _, column := range columns {
		field, err := editableField(column)
		if err != nil {
			return err
		}
		dbValue, newText, err := convertValue(field, data.Fields[column])
		if err != nil {
			return err
		}
		changes = append(changes, change{field: field, dbValue: dbValue, newText: newText})
	}

	rec, err := i.getRecord(id)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{}
	entries := []dbmodels.AuditLog{}
	for _, ch := range changes {
		oldText := columnValue(ch.field, rec)
		if oldText == ch.newText {
			continue
		}
		updMap[ch.field.DBName] = ch.dbValue
		entries = append(entries, i.auditEntry(identity, rec.NcpID, ch.field.DBName, oldText, ch.newText, "Super edit"))
	}
	if len(entries) == 0 {
		return nil
	}
	return i.applyAudited(identity, rec, updMap, entries)
}

func (i impl) Reassign(identity *models.Identity, id uint, data ncpapimodels.ReassignData) error {
	if err := i.authorize(identity, models.NcpActionReassign); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	column, role, label := "qa_leader", models.UserRoleQALeader, "QA Leader"
	if data.Target == ncpapimodels.ReassignTeamLeader {
		column, role, label = "assigned_team_leader", models.UserRoleTeamLeader, "Team Leader"
	}
	if err := i.checkAssignee(label, data.Username, role); err != nil {
		return err
	}
	rec, err := i.getRecord(id)
	if err != nil {
		return err
	}
	oldValue := rec.QaLeader
	if data.Target == ncpapimodels.ReassignTeamLeader {
		oldValue = rec.AssignedTeamLeader
	}
	if oldValue == data.Username {
		return nil
	}
	entry := i.auditEntry(identity, rec.NcpID, column, oldValue, data.Username,
		fmt.Sprintf("%s reassigned", label))
	err = i.applyAudited(identity, rec, map[string]interface{}{column: data.Username}, []dbmodels.AuditLog{entry})
	if err != nil {
		return err
	}
	i.notify(i.transitLogger(identity, rec), rec.NcpID, func() error {
		return i.notifier.NotifyUser(data.Username, newMessage(rec.NcpID, models.NotificationReassigned,
			"NCP report reassigned",
			fmt.Sprintf("NCP %s was reassigned to you as %s by %s", rec.NcpID, label, identity.Username)))
	})
	return nil
}

func (i impl) RevertStatus(identity *models.Identity, id uint, data ncpapimodels.RevertStatusData) error {
	if err := i.authorize(identity, models.NcpActionRevertStatus); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.getRecord(id)
	if err != nil {
		return err
	}
	if rec.Status == data.Status {
		return nil
	}
	entry := i.auditEntry(identity, rec.NcpID, "status", string(rec.Status), string(data.Status),
		fmt.Sprintf("Status reverted from %s to %s", rec.Status.ToHuman(), data.Status.ToHuman()))
	return i.applyAudited(identity, rec, map[string]interface{}{"status": data.Status}, []dbmodels.AuditLog{entry})
}

func (i impl) Delete(identity *models.Identity, id uint) error {
	if err := i.authorize(identity, models.NcpActionDelete); err != nil {
		return err
	}
	rec, err := i.getRecord(id)
	if err != nil {
		return err
	}
	rows, err := i.store.Delete(id)
	if err != nil {
		return errors.Wrap(err, "failed to delete NCP report")
	}
	if rows == 0 {
		return errors.Wrapf(models.ErrNotFound, "NCP report %v", id)
	}
	i.transitLogger(identity, rec).Warn("NCP report deleted")
	i.systemLog.Write(models.SystemLogWarn, "NCP report deleted", map[string]any{
		"ncp_id":     rec.NcpID,
		"status":     rec.Status,
		"deleted_by": identity.Username,
	})
	return nil
}

func (i impl) GetAudit(identity *models.Identity, id uint) ([]ncpapimodels.AuditLogView, error) {
	if err := i.authorize(identity, models.NcpActionViewAudit); err != nil {
		return nil, err
	}
	rec, err := i.getRecord(id)
	if err != nil {
		return nil, err
	}
	return i.auditLog.List(rec.NcpID)
}

func (i impl) auditEntry(identity *models.Identity, ncpID, field, oldValue, newValue, description string) dbmodels.AuditLog {
	return dbmodels.AuditLog{
		NcpID:       ncpID,
		ChangedBy:   identity.Username,
		FieldName:   field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
		CreatedAt:   i.now(),
	}
}

// applyAudited writes the update and its audit entries together.
func (i impl) applyAudited(identity *models.Identity, rec *dbmodels.NcpReport, updMap map[string]interface{}, entries []dbmodels.AuditLog) error {
	rows, err := i.store.UpdateAudited(rec.ID, updMap, entries)
	if err != nil {
		return errors.Wrap(err, "failed to update NCP report")
	}
	if rows == 0 {
		return errors.Wrapf(models.ErrNotFound, "NCP report %v", rec.ID)
	}
	logger := i.transitLogger(identity, rec)
	for _, entry := range entries {
		logger.
			WithField("field", entry.FieldName).
			WithField("old_value", entry.OldValue).
			WithField("new_value", entry.NewValue).
			Info("NCP report overridden")
	}
	return nil
}
