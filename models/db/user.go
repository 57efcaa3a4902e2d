package dbmodels

import (
	"ncp-tracker-backend/models"
	"time"
)

type User struct {
	BaseModel
	Username     string          `gorm:"type:varchar(100);uniqueIndex"`
	PasswordHash string          `gorm:"type:varchar(128)"`
	Role         models.UserRole `gorm:"type:varchar(50);index"`
	DisplayName  string          `gorm:"type:varchar(255)"`
	Email        string          `gorm:"type:varchar(255)"`
	IsActive     bool            `gorm:"default:true"`
	LastLogin    *time.Time
}

func (r User) GetDisplayName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Username
}
