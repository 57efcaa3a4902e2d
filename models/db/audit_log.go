package dbmodels

import "time"

// AuditLog is append-only, one row per changed field of an administrative override.
type AuditLog struct {
	ID          string    `gorm:"primaryKey;default:uuid_generate_v4()"`
	NcpID       string    `gorm:"type:varchar(9);index"`
	ChangedBy   string    `gorm:"type:varchar(100)"`
	FieldName   string    `gorm:"type:varchar(100)"`
	OldValue    string
	NewValue    string
	Description string
	CreatedAt   time.Time `gorm:"index"`
}
