package rbac

import (
	"ncp-tracker-backend/models"
	"slices"
)

// Provider is the single (role, action) -> allowed policy consulted by every workflow operation.
type Provider interface {
	IsAllowed(role models.UserRole, action models.NcpAction) bool
	GetPermissions(role models.UserRole) []models.NcpAction
}

var Instance Provider

func NewHandler() {
	Instance = NewPolicy()
}

func NewPolicy() Provider {
	i := &impl{
		rules:       map[models.NcpAction]map[models.UserRole]bool{},
		permissions: map[models.UserRole][]models.NcpAction{},
	}
	i.initRules()
	return i
}

type impl struct {
	rules       map[models.NcpAction]map[models.UserRole]bool
	permissions map[models.UserRole][]models.NcpAction
}

func (i *impl) IsAllowed(role models.UserRole, action models.NcpAction) bool {
	roles, ok := i.rules[action]
	if !ok {
		return false
	}
	return roles[role]
}

func (i *impl) GetPermissions(role models.UserRole) []models.NcpAction {
	return slices.Clone(i.permissions[role])
}

func (i *impl) registerRule(action models.NcpAction, roles []models.UserRole) {
	if _, ok := i.rules[action]; !ok {
		i.rules[action] = map[models.UserRole]bool{}
	}
	for _, role := range roles {
		i.rules[action][role] = true
		// list for the frontend
		if !slices.Contains(i.permissions[role], action) {
			i.permissions[role] = append(i.permissions[role], action)
		}
	}
}
