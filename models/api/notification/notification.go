package notificationapimodels

import (
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	dbmodels "ncp-tracker-backend/models/db"
	"time"
)

type NotificationView struct {
	ID        string                  `json:"id"`
	NcpID     string                  `json:"ncp_id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:        rec.ID,
		NcpID:     rec.NcpID,
		Title:     rec.Title,
		Message:   rec.Message,
		Type:      rec.Type,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
}

type NotificationFilter struct {
	apimodels.Pagination
	UnreadOnly bool `query:"unread_only"`
}

// Message is what the fan-out delivers, independent of the channel.
type Message struct {
	NcpID   string
	Title   string
	Message string
	Type    models.NotificationType
}
