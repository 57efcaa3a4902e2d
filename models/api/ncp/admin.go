package ncpapimodels

import (
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	dbmodels "ncp-tracker-backend/models/db"
	"time"
)

type ReassignTarget string

const (
	ReassignQaLeader   ReassignTarget = "qa_leader"
	ReassignTeamLeader ReassignTarget = "team_leader"
)

type ReassignData struct {
	Target   ReassignTarget `json:"target" label:"Target" validate:"required,oneof=qa_leader team_leader"`
	Username string         `json:"username" label:"Username" validate:"required,max=100"`
}

func (r *ReassignData) Validate() error {
	apimodels.TrimStrings(r)
	return apimodels.ValidateStruct(r)
}

type RevertStatusData struct {
	Status models.NcpStatus `json:"status" label:"Status" validate:"required"`
}

func (r *RevertStatusData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.Status.IsValid() {
		return models.NewValidationError("Status %q is unknown", r.Status)
	}
	return nil
}

// SuperEditData is the escape hatch: column name -> new value, no workflow rules applied.
type SuperEditData struct {
	Fields map[string]any `json:"fields"`
}

func (r *SuperEditData) Validate() error {
	if len(r.Fields) == 0 {
		return models.RequiredError("Fields")
	}
	return nil
}

type AuditLogView struct {
	ID          string    `json:"id"`
	NcpID       string    `json:"ncp_id"`
	ChangedBy   string    `json:"changed_by"`
	FieldName   string    `json:"field_name"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func AuditLogConvert(rec dbmodels.AuditLog) AuditLogView {
	return AuditLogView{
		ID:          rec.ID,
		NcpID:       rec.NcpID,
		ChangedBy:   rec.ChangedBy,
		FieldName:   rec.FieldName,
		OldValue:    rec.OldValue,
		NewValue:    rec.NewValue,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}
}
