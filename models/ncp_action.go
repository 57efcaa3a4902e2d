package models

type NcpAction string

const (
	NcpActionSubmit         NcpAction = "submit"
	NcpActionQAApprove      NcpAction = "qa_approve"
	NcpActionQAReject       NcpAction = "qa_reject"
	NcpActionTLProcess      NcpAction = "tl_process"
	NcpActionProcessApprove NcpAction = "process_approve"
	NcpActionProcessReject  NcpAction = "process_reject"
	NcpActionManagerApprove NcpAction = "manager_approve"
	NcpActionManagerReject  NcpAction = "manager_reject"

	// administrative overrides, bypass the transition table
	NcpActionSuperEdit    NcpAction = "super_edit"
	NcpActionReassign     NcpAction = "reassign"
	NcpActionRevertStatus NcpAction = "revert_status"
	NcpActionDelete       NcpAction = "delete"

	NcpActionViewAudit   NcpAction = "view_audit"
	NcpActionManageUsers NcpAction = "manage_users"
)

type Transition struct {
	From NcpStatus
	To   NcpStatus
}

// Transitions is the workflow table. Process and manager rejections return
// the report to qa_approved so the Team Leader can reprocess it.
var Transitions = map[NcpAction]Transition{
	NcpActionQAApprove:      {From: NcpStatusPending, To: NcpStatusQAApproved},
	NcpActionQAReject:       {From: NcpStatusPending, To: NcpStatusQARejected},
	NcpActionTLProcess:      {From: NcpStatusQAApproved, To: NcpStatusTLProcessed},
	NcpActionProcessApprove: {From: NcpStatusTLProcessed, To: NcpStatusProcessApproved},
	NcpActionProcessReject:  {From: NcpStatusTLProcessed, To: NcpStatusQAApproved},
	NcpActionManagerApprove: {From: NcpStatusProcessApproved, To: NcpStatusManagerApproved},
	NcpActionManagerReject:  {From: NcpStatusProcessApproved, To: NcpStatusQAApproved},
}

func (a NcpAction) Transition() (Transition, bool) {
	t, ok := Transitions[a]
	return t, ok
}

// AllowedFrom reports whether the action may be applied to a report in the given status.
func (a NcpAction) AllowedFrom(status NcpStatus) bool {
	t, ok := Transitions[a]
	return ok && t.From == status
}
