package models

type UserRole string

const (
	UserRoleUser        UserRole = "user"
	UserRoleQALeader    UserRole = "qa_leader"
	UserRoleTeamLeader  UserRole = "team_leader"
	UserRoleProcessLead UserRole = "process_lead"
	UserRoleQAManager   UserRole = "qa_manager"
	UserRoleAdmin       UserRole = "admin"
	UserRoleSuperAdmin  UserRole = "super_admin"
)

var roleHumanName = map[UserRole]string{
	UserRoleUser:        "User",
	UserRoleQALeader:    "QA Leader",
	UserRoleTeamLeader:  "Team Leader",
	UserRoleProcessLead: "Process Lead",
	UserRoleQAManager:   "QA Manager",
	UserRoleAdmin:       "Administrator",
	UserRoleSuperAdmin:  "Super Administrator",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

// IsLeader reports roles offered in the assignee pickers.
func (r UserRole) IsLeader() bool {
	switch r {
	case UserRoleQALeader, UserRoleTeamLeader, UserRoleProcessLead, UserRoleQAManager:
		return true
	}
	return false
}

const SystemUser = "system"

// Identity is the authenticated caller resolved from the bearer token.
type Identity struct {
	ID       string
	Username string
	Role     UserRole
}

func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.Username != ""
}
