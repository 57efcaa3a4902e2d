package authapimodels

import (
	apimodels "ncp-tracker-backend/models/api"
)

type LoginRequest struct {
	Username string `json:"username" label:"Username" validate:"required,max=100"`
	Password string `json:"password" label:"Password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Username = trim(r.Username)
	return apimodels.ValidateStruct(r)
}
