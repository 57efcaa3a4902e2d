package ncpapimodels

import (
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
)

type QaApproveData struct {
	Disposition      string `json:"disposition" label:"Disposition" validate:"required"`
	SortedQuantity   string `json:"sorted_quantity" label:"Sorted quantity" validate:"max=100"`
	ReleasedQuantity string `json:"released_quantity" label:"Released quantity" validate:"max=100"`
	RejectedQuantity string `json:"rejected_quantity" label:"Rejected quantity" validate:"max=100"`
	TeamLeader       string `json:"team_leader" label:"Team Leader" validate:"required,max=100"`
}

func (r *QaApproveData) Validate() error {
	apimodels.TrimStrings(r)
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.SortedQuantity == "" && r.ReleasedQuantity == "" && r.RejectedQuantity == "" {
		return models.RequiredError("Quantity breakdown")
	}
	return nil
}

type TlProcessData struct {
	RootCauseAnalysis string `json:"root_cause_analysis" label:"Root cause analysis" validate:"required"`
	CorrectiveAction  string `json:"corrective_action" label:"Corrective action" validate:"required"`
	PreventiveAction  string `json:"preventive_action" label:"Preventive action" validate:"required"`
}

func (r *TlProcessData) Validate() error {
	apimodels.TrimStrings(r)
	return apimodels.ValidateStruct(r)
}

type CommentData struct {
	Comment string `json:"comment" label:"Comment" validate:"required"`
}

func (r *CommentData) Validate() error {
	apimodels.TrimStrings(r)
	return apimodels.ValidateStruct(r)
}

type RejectData struct {
	Reason string `json:"reason" label:"Rejection reason" validate:"required"`
}

func (r *RejectData) Validate() error {
	apimodels.TrimStrings(r)
	return apimodels.ValidateStruct(r)
}
