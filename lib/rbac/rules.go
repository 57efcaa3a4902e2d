package rbac

import (
	"ncp-tracker-backend/models"
)

var (
	AllRoles = []models.UserRole{
		models.UserRoleUser,
		models.UserRoleQALeader,
		models.UserRoleTeamLeader,
		models.UserRoleProcessLead,
		models.UserRoleQAManager,
		models.UserRoleAdmin,
		models.UserRoleSuperAdmin,
	}
	QALeaderAdminRoleSet    = []models.UserRole{models.UserRoleQALeader, models.UserRoleAdmin, models.UserRoleSuperAdmin}
	TeamLeaderRoleSet       = []models.UserRole{models.UserRoleTeamLeader}
	ProcessLeadAdminRoleSet = []models.UserRole{models.UserRoleProcessLead, models.UserRoleAdmin, models.UserRoleSuperAdmin}
	QAManagerAdminRoleSet   = []models.UserRole{models.UserRoleQAManager, models.UserRoleAdmin, models.UserRoleSuperAdmin}
	AuditViewRoleSet        = []models.UserRole{models.UserRoleQAManager, models.UserRoleAdmin, models.UserRoleSuperAdmin}
	SuperAdminRoleSet       = []models.UserRole{models.UserRoleSuperAdmin}
)

func (i *impl) initRules() {
	i.workflow()
	i.overrides()
}

func (i *impl) workflow() {
	i.registerRule(models.NcpActionSubmit, AllRoles)
	i.registerRule(models.NcpActionQAApprove, QALeaderAdminRoleSet)
	i.registerRule(models.NcpActionQAReject, QALeaderAdminRoleSet)
	i.registerRule(models.NcpActionTLProcess, TeamLeaderRoleSet)
	i.registerRule(models.NcpActionProcessApprove, ProcessLeadAdminRoleSet)
	i.registerRule(models.NcpActionProcessReject, ProcessLeadAdminRoleSet)
	i.registerRule(models.NcpActionManagerApprove, QAManagerAdminRoleSet)
	i.registerRule(models.NcpActionManagerReject, QAManagerAdminRoleSet)
	i.registerRule(models.NcpActionViewAudit, AuditViewRoleSet)
}

func (i *impl) overrides() {
	i.registerRule(models.NcpActionSuperEdit, SuperAdminRoleSet)
	i.registerRule(models.NcpActionReassign, SuperAdminRoleSet)
	i.registerRule(models.NcpActionRevertStatus, SuperAdminRoleSet)
	i.registerRule(models.NcpActionDelete, SuperAdminRoleSet)
	i.registerRule(models.NcpActionManageUsers, SuperAdminRoleSet)
}
