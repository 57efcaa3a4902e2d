package authapimodels

import (
	"ncp-tracker-backend/models"
	"strings"
	"time"
)

type JWTResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      MeView    `json:"user"`
}

type MeView struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"display_name"`
	Role        models.UserRole    `json:"role"`
	RoleHuman   string             `json:"role_human"`
	Permissions []models.NcpAction `json:"permissions"`
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
