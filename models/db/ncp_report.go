package dbmodels

import (
	"ncp-tracker-backend/models"
	"time"

	"github.com/shopspring/decimal"
)

type NcpReport struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	NcpID string `gorm:"type:varchar(9);uniqueIndex"`

	// submission
	SkuCode            string          `gorm:"type:varchar(100)"`
	MachineCode        string          `gorm:"type:varchar(100)"`
	IncidentDate       string          `gorm:"type:varchar(10)"`
	IncidentTime       string          `gorm:"type:varchar(5)"`
	HoldQuantity       decimal.Decimal `gorm:"type:numeric(14,3)"`
	Uom                string          `gorm:"type:varchar(20)"`
	ProblemDescription string
	PhotoPath          string `gorm:"type:varchar(255)"`
	QaLeader           string `gorm:"type:varchar(100);index"`
	SubmittedBy        string `gorm:"type:varchar(100);index"`
	SubmittedAt        time.Time

	Status models.NcpStatus `gorm:"type:varchar(30);index"`

	// QA Leader
	QaApprovedBy       string `gorm:"type:varchar(100)"`
	QaApprovedAt       *time.Time
	Disposition        string
	SortedQuantity     string `gorm:"type:varchar(100)"`
	ReleasedQuantity   string `gorm:"type:varchar(100)"`
	RejectedQuantity   string `gorm:"type:varchar(100)"`
	AssignedTeamLeader string `gorm:"type:varchar(100);index"`
	QaRejectedBy       string `gorm:"type:varchar(100)"`
	QaRejectedAt       *time.Time
	QaRejectionReason  string

	// Team Leader
	TlProcessedBy     string `gorm:"type:varchar(100)"`
	TlProcessedAt     *time.Time
	RootCauseAnalysis string
	CorrectiveAction  string
	PreventiveAction  string

	// Process Lead
	ProcessApprovedBy      string `gorm:"type:varchar(100)"`
	ProcessApprovedAt      *time.Time
	ProcessComment         string
	ProcessRejectedBy      string `gorm:"type:varchar(100)"`
	ProcessRejectedAt      *time.Time
	ProcessRejectionReason string

	// QA Manager
	ManagerApprovedBy      string `gorm:"type:varchar(100)"`
	ManagerApprovedAt      *time.Time
	ManagerComment         string
	ManagerRejectedBy      string `gorm:"type:varchar(100)"`
	ManagerRejectedAt      *time.Time
	ManagerRejectionReason string
	ArchivedAt             *time.Time

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
