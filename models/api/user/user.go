package userapimodels

import (
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	dbmodels "ncp-tracker-backend/models/db"
	"time"
)

type UserView struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Email       string          `json:"email,omitempty"`
	Role        models.UserRole `json:"role"`
	RoleHuman   string          `json:"role_human"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:          rec.ID,
		Username:    rec.Username,
		DisplayName: rec.GetDisplayName(),
		Email:       rec.Email,
		Role:        rec.Role,
		RoleHuman:   rec.Role.ToHuman(),
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
	}
}

type UserCreateData struct {
	Username    string          `json:"username" label:"Username" validate:"required,max=100"`
	Password    string          `json:"password" label:"Password" validate:"required,min=8"`
	DisplayName string          `json:"display_name" label:"Display name" validate:"max=255"`
	Email       string          `json:"email" label:"Email" validate:"omitempty,email"`
	Role        models.UserRole `json:"role" label:"Role" validate:"required"`
}

func (r *UserCreateData) Validate() error {
	apimodels.TrimStrings(r)
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.Role.IsValid() {
		return models.NewValidationError("Role %q is unknown", r.Role)
	}
	return nil
}

type UserActiveData struct {
	IsActive bool `json:"is_active"`
}
