package dbmodels

import "ncp-tracker-backend/models"

type Notification struct {
	BaseModel
	UserID  string                  `gorm:"type:varchar(36);index"`
	NcpID   string                  `gorm:"type:varchar(9);index"`
	Title   string                  `gorm:"type:varchar(255)"`
	Message string
	Type    models.NotificationType `gorm:"type:varchar(50)"`
	IsRead  bool                    `gorm:"default:false;index"`
}
