package ncpapimodels

import (
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	dbmodels "ncp-tracker-backend/models/db"
	"time"

	"github.com/shopspring/decimal"
)

type SubmitData struct {
	SkuCode            string          `json:"sku" label:"SKU" validate:"required,max=100"`
	MachineCode        string          `json:"machine" label:"Machine" validate:"required,max=100"`
	IncidentDate       string          `json:"date" label:"Date" validate:"required,datetime=2006-01-02"`
	IncidentTime       string          `json:"time" label:"Time" validate:"required,datetime=15:04"`
	HoldQuantity       decimal.Decimal `json:"quantity"`
	Uom                string          `json:"uom" label:"UOM" validate:"required,max=20"`
	ProblemDescription string          `json:"description" label:"Description" validate:"required"`
	QaLeader           string          `json:"qa_leader" label:"QA Leader" validate:"required,max=100"`
	PhotoPath          string          `json:"photo,omitempty" label:"Photo" validate:"max=255"`
}

func (r *SubmitData) Validate() error {
	apimodels.TrimStrings(r)
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.HoldQuantity.IsPositive() {
		return models.NewValidationError("Quantity must be greater than zero")
	}
	return nil
}

type ListType string

const (
	ListTypeAssigned ListType = "assigned"
	ListTypePending  ListType = "pending"
)

func (t ListType) IsValid() bool {
	return t == ListTypeAssigned || t == ListTypePending
}

type NcpReportView struct {
	ID                 uint             `json:"id"`
	NcpID              string           `json:"ncp_id"`
	SkuCode            string           `json:"sku"`
	MachineCode        string           `json:"machine"`
	IncidentDate       string           `json:"date"`
	IncidentTime       string           `json:"time"`
	HoldQuantity       decimal.Decimal  `json:"quantity"`
	Uom                string           `json:"uom"`
	ProblemDescription string           `json:"description"`
	PhotoPath          string           `json:"photo,omitempty"`
	QaLeader           string           `json:"qa_leader"`
	SubmittedBy        string           `json:"submitted_by"`
	SubmittedAt        time.Time        `json:"submitted_at"`
	Status             models.NcpStatus `json:"status"`
	StatusHuman        string           `json:"status_human"`

	QaApprovedBy       string     `json:"qa_approved_by,omitempty"`
	QaApprovedAt       *time.Time `json:"qa_approved_at,omitempty"`
	Disposition        string     `json:"disposition,omitempty"`
	SortedQuantity     string     `json:"sorted_quantity,omitempty"`
	ReleasedQuantity   string     `json:"released_quantity,omitempty"`
	RejectedQuantity   string     `json:"rejected_quantity,omitempty"`
	AssignedTeamLeader string     `json:"assigned_team_leader,omitempty"`
	QaRejectedBy       string     `json:"qa_rejected_by,omitempty"`
	QaRejectedAt       *time.Time `json:"qa_rejected_at,omitempty"`
	QaRejectionReason  string     `json:"qa_rejection_reason,omitempty"`

	TlProcessedBy     string     `json:"tl_processed_by,omitempty"`
	TlProcessedAt     *time.Time `json:"tl_processed_at,omitempty"`
	RootCauseAnalysis string     `json:"root_cause_analysis,omitempty"`
	CorrectiveAction  string     `json:"corrective_action,omitempty"`
	PreventiveAction  string     `json:"preventive_action,omitempty"`

	ProcessApprovedBy      string     `json:"process_approved_by,omitempty"`
	ProcessApprovedAt      *time.Time `json:"process_approved_at,omitempty"`
	ProcessComment         string     `json:"process_comment,omitempty"`
	ProcessRejectedBy      string     `json:"process_rejected_by,omitempty"`
	ProcessRejectedAt      *time.Time `json:"process_rejected_at,omitempty"`
	ProcessRejectionReason string     `json:"process_rejection_reason,omitempty"`

	ManagerApprovedBy      string     `json:"manager_approved_by,omitempty"`
	ManagerApprovedAt      *time.Time `json:"manager_approved_at,omitempty"`
	ManagerComment         string     `json:"manager_comment,omitempty"`
	ManagerRejectedBy      string     `json:"manager_rejected_by,omitempty"`
	ManagerRejectedAt      *time.Time `json:"manager_rejected_at,omitempty"`
	ManagerRejectionReason string     `json:"manager_rejection_reason,omitempty"`
	ArchivedAt             *time.Time `json:"archived_at,omitempty"`
}

func NcpReportConvert(rec dbmodels.NcpReport) NcpReportView {
	return NcpReportView{
		ID:                     rec.ID,
		NcpID:                  rec.NcpID,
		SkuCode:                rec.SkuCode,
		MachineCode:            rec.MachineCode,
		IncidentDate:           rec.IncidentDate,
		IncidentTime:           rec.IncidentTime,
		HoldQuantity:           rec.HoldQuantity,
		Uom:                    rec.Uom,
		ProblemDescription:     rec.ProblemDescription,
		PhotoPath:              rec.PhotoPath,
		QaLeader:               rec.QaLeader,
		SubmittedBy:            rec.SubmittedBy,
		SubmittedAt:            rec.SubmittedAt,
		Status:                 rec.Status,
		StatusHuman:            rec.Status.ToHuman(),
		QaApprovedBy:           rec.QaApprovedBy,
		QaApprovedAt:           rec.QaApprovedAt,
		Disposition:            rec.Disposition,
		SortedQuantity:         rec.SortedQuantity,
		ReleasedQuantity:       rec.ReleasedQuantity,
		RejectedQuantity:       rec.RejectedQuantity,
		AssignedTeamLeader:     rec.AssignedTeamLeader,
		QaRejectedBy:           rec.QaRejectedBy,
		QaRejectedAt:           rec.QaRejectedAt,
		QaRejectionReason:      rec.QaRejectionReason,
		TlProcessedBy:          rec.TlProcessedBy,
		TlProcessedAt:          rec.TlProcessedAt,
		RootCauseAnalysis:      rec.RootCauseAnalysis,
		CorrectiveAction:       rec.CorrectiveAction,
		PreventiveAction:       rec.PreventiveAction,
		ProcessApprovedBy:      rec.ProcessApprovedBy,
		ProcessApprovedAt:      rec.ProcessApprovedAt,
		ProcessComment:         rec.ProcessComment,
		ProcessRejectedBy:      rec.ProcessRejectedBy,
		ProcessRejectedAt:      rec.ProcessRejectedAt,
		ProcessRejectionReason: rec.ProcessRejectionReason,
		ManagerApprovedBy:      rec.ManagerApprovedBy,
		ManagerApprovedAt:      rec.ManagerApprovedAt,
		ManagerComment:         rec.ManagerComment,
		ManagerRejectedBy:      rec.ManagerRejectedBy,
		ManagerRejectedAt:      rec.ManagerRejectedAt,
		ManagerRejectionReason: rec.ManagerRejectionReason,
		ArchivedAt:             rec.ArchivedAt,
	}
}

// ListFilter is the store-level selection built from the caller's role.
type ListFilter struct {
	SubmittedBy        string
	QaLeader           string
	AssignedTeamLeader string
	Statuses           []models.NcpStatus
	OrderBy            string // column name
	OrderAsc           bool
}
