package models

type NcpStatus string

const (
	NcpStatusPending         NcpStatus = "pending"
	NcpStatusQAApproved      NcpStatus = "qa_approved"
	NcpStatusQARejected      NcpStatus = "qa_rejected"
	NcpStatusTLProcessed     NcpStatus = "tl_processed"
	NcpStatusProcessApproved NcpStatus = "process_approved"
	NcpStatusProcessRejected NcpStatus = "process_rejected"
	NcpStatusManagerApproved NcpStatus = "manager_approved"
	NcpStatusManagerRejected NcpStatus = "manager_rejected"
)

var ncpStatusHumanName = map[NcpStatus]string{
	NcpStatusPending:         "Waiting for QA Leader",
	NcpStatusQAApproved:      "Waiting for Team Leader",
	NcpStatusQARejected:      "Rejected by QA Leader",
	NcpStatusTLProcessed:     "Waiting for Process Lead",
	NcpStatusProcessApproved: "Waiting for QA Manager",
	NcpStatusProcessRejected: "Rejected by Process Lead",
	NcpStatusManagerApproved: "Archived",
	NcpStatusManagerRejected: "Rejected by QA Manager",
}

var NcpStatuses = []NcpStatus{
	NcpStatusPending,
	NcpStatusQAApproved,
	NcpStatusQARejected,
	NcpStatusTLProcessed,
	NcpStatusProcessApproved,
	NcpStatusProcessRejected,
	NcpStatusManagerApproved,
	NcpStatusManagerRejected,
}

func (s NcpStatus) ToHuman() string {
	if human, exist := ncpStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s NcpStatus) IsValid() bool {
	_, ok := ncpStatusHumanName[s]
	return ok
}

func (s NcpStatus) IsTerminal() bool {
	return s == NcpStatusManagerApproved || s == NcpStatusQARejected
}
