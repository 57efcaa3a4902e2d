package wsmodels

import (
	dbmodels "ncp-tracker-backend/models/db"
	"time"
)

type ServerMessage struct {
	ToUserID       string `json:"-"`
	Time           string `json:"time"`            // event time, RFC3339
	Code           string `json:"code"`            // notification type
	Msg            string `json:"msg"`             // notification text
	Title          string `json:"title"`           // notification title
	NcpID          string `json:"ncp_id"`          // report business id
	NotificationID string `json:"notification_id"` // id for marking as read
}

func NotificationMessage(rec dbmodels.Notification) ServerMessage {
	return ServerMessage{
		ToUserID:       rec.UserID,
		Time:           rec.CreatedAt.Format(time.RFC3339),
		Code:           string(rec.Type),
		Msg:            rec.Message,
		Title:          rec.Title,
		NcpID:          rec.NcpID,
		NotificationID: rec.ID,
	}
}

const ClientActionRead = "read"

// ClientMessage is the only thing a client may send: {"action":"read","id":"<notification id>"}.
type ClientMessage struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}
