package ncphandler

import (
	"fmt"
	"ncp-tracker-backend/db"
	auditloghandler "ncp-tracker-backend/lib/audit-log"
	ncpnumber "ncp-tracker-backend/lib/ncp-number"
	ncpstore "ncp-tracker-backend/lib/ncp/store"
	notificationhandler "ncp-tracker-backend/lib/notification"
	"ncp-tracker-backend/lib/rbac"
	systemloghandler "ncp-tracker-backend/lib/system-log"
	usersstore "ncp-tracker-backend/lib/users/store"
	initchecker "ncp-tracker-backend/lib/utils/init-checker"
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	notificationapimodels "ncp-tracker-backend/models/api/notification"
	dbmodels "ncp-tracker-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Submit(identity *models.Identity, data ncpapimodels.SubmitData) (ncpapimodels.NcpReportView, error)
	GetByID(identity *models.Identity, id uint) (ncpapimodels.NcpReportView, error)
	GetByNcpID(identity *models.Identity, ncpID string) (ncpapimodels.NcpReportView, error)
	List(identity *models.Identity, listType ncpapimodels.ListType) ([]ncpapimodels.NcpReportView, error)

	QaApprove(identity *models.Identity, id uint, data ncpapimodels.QaApproveData) error
	QaReject(identity *models.Identity, id uint, data ncpapimodels.RejectData) error
	TlProcess(identity *models.Identity, id uint, data ncpapimodels.TlProcessData) error
	ProcessApprove(identity *models.Identity, id uint, data ncpapimodels.CommentData) error
	ProcessReject(identity *models.Identity, id uint, data ncpapimodels.RejectData) error
	ManagerApprove(identity *models.Identity, id uint, data ncpapimodels.CommentData) error
	ManagerReject(identity *models.Identity, id uint, data ncpapimodels.RejectData) error

	SuperEdit(identity *models.Identity, id uint, data ncpapimodels.SuperEditData) error
	Reassign(identity *models.Identity, id uint, data ncpapimodels.ReassignData) error
	RevertStatus(identity *models.Identity, id uint, data ncpapimodels.RevertStatusData) error
	Delete(identity *models.Identity, id uint) error
	GetAudit(identity *models.Identity, id uint) ([]ncpapimodels.AuditLogView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"auditloghandler", auditloghandler.Instance,
		"notificationhandler", notificationhandler.Instance,
		"systemloghandler", systemloghandler.Instance,
		"rbac", rbac.Instance,
	)
	Instance = NewInstance(
		ncpstore.NewInstance(db.DB),
		usersstore.NewInstance(db.DB),
		auditloghandler.Instance,
		notificationhandler.Instance,
		systemloghandler.Instance,
		rbac.Instance,
	)
}

func NewInstance(store ncpstore.Provider, usersStore usersstore.Provider, auditLog auditloghandler.Provider,
	notifier notificationhandler.Provider, systemLog systemloghandler.Provider, policy rbac.Provider) Provider {
	return impl{
		store:      store,
		usersStore: usersStore,
		auditLog:   auditLog,
		notifier:   notifier,
		systemLog:  systemLog,
		policy:     policy,
		now:        time.Now,
	}
}

type impl struct {
	store      ncpstore.Provider
	usersStore usersstore.Provider
	auditLog   auditloghandler.Provider
	notifier   notificationhandler.Provider
	systemLog  systemloghandler.Provider
	policy     rbac.Provider
	now        func() time.Time
}

func (i impl) getLogger(identity *models.Identity, id uint) *log.Entry {
	logger := log.WithField("rec_id", id)
	if identity != nil {
		logger = logger.WithField("user", identity.Username)
	}
	return logger
}

func (i impl) authorize(identity *models.Identity, action models.NcpAction) error {
	if !identity.IsAuthenticated() {
		return models.ErrUnauthorized
	}
	if !i.policy.IsAllowed(identity.Role, action) {
		return models.ErrForbidden
	}
	// tokens outlive deactivation, the account state is read on every write
	user, err := i.usersStore.GetByUsername(identity.Username)
	if err != nil {
		return errors.Wrapf(err, "failed to read user %v", identity.Username)
	}
	if user == nil || !user.IsActive {
		return models.ErrUnauthorized
	}
	return nil
}

// checkAssignee makes sure a referenced user can take the report.
func (i impl) checkAssignee(field, username string, role models.UserRole) error {
	user, err := i.usersStore.GetByUsername(username)
	if err != nil {
		return errors.Wrapf(err, "failed to read user %v", username)
	}
	if user == nil || !user.IsActive || user.Role != role {
		return models.NewValidationError("%s %v is not an active %s", field, username, role.ToHuman())
	}
	return nil
}

func (i impl) getRecord(id uint) (*dbmodels.NcpReport, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read NCP report")
	}
	if rec == nil {
		return nil, errors.Wrapf(models.ErrNotFound, "NCP report %v", id)
	}
	return rec, nil
}

func (i impl) Submit(identity *models.Identity, data ncpapimodels.SubmitData) (ncpapimodels.NcpReportView, error) {
	if err := i.authorize(identity, models.NcpActionSubmit); err != nil {
		return ncpapimodels.NcpReportView{}, err
	}
	if err := data.Validate(); err != nil {
		return ncpapimodels.NcpReportView{}, err
	}
	if err := i.checkAssignee("QA Leader", data.QaLeader, models.UserRoleQALeader); err != nil {
		return ncpapimodels.NcpReportView{}, err
	}
	now := i.now()
	rec := dbmodels.NcpReport{
		SkuCode:            data.SkuCode,
		MachineCode:        data.MachineCode,
		IncidentDate:       data.IncidentDate,
		IncidentTime:       data.IncidentTime,
		HoldQuantity:       data.HoldQuantity,
		Uom:                data.Uom,
		ProblemDescription: data.ProblemDescription,
		PhotoPath:          data.PhotoPath,
		QaLeader:           data.QaLeader,
		SubmittedBy:        identity.Username,
		SubmittedAt:        now,
		Status:             models.NcpStatusPending,
	}
	created, err := i.store.Create(rec, ncpnumber.Prefix(now))
	if err != nil {
		return ncpapimodels.NcpReportView{}, errors.Wrap(err, "failed to create NCP report")
	}
	logger := i.getLogger(identity, created.ID).WithField("ncp_id", created.NcpID)
	logger.Info("NCP report submitted")

	i.notify(logger, created.NcpID, func() error {
		return i.notifier.NotifyUser(created.QaLeader, newMessage(created.NcpID, models.NotificationNewReport,
			"New NCP report",
			fmt.Sprintf("NCP %s (SKU %s, machine %s) was submitted by %s and waits for your review",
				created.NcpID, created.SkuCode, created.MachineCode, created.SubmittedBy)))
	})
	return ncpapimodels.NcpReportConvert(*created), nil
}

func (i impl) GetByID(identity *models.Identity, id uint) (ncpapimodels.NcpReportView, error) {
	if !identity.IsAuthenticated() {
		return ncpapimodels.NcpReportView{}, models.ErrUnauthorized
	}
	rec, err := i.getRecord(id)
	if err != nil {
		return ncpapimodels.NcpReportView{}, err
	}
	return ncpapimodels.NcpReportConvert(*rec), nil
}

func (i impl) GetByNcpID(identity *models.Identity, ncpID string) (ncpapimodels.NcpReportView, error) {
	if !identity.IsAuthenticated() {
		return ncpapimodels.NcpReportView{}, models.ErrUnauthorized
	}
	if !ncpnumber.IsValid(ncpID) {
		return ncpapimodels.NcpReportView{}, models.NewValidationError("NCP number %q is invalid", ncpID)
	}
	rec, err := i.store.GetByNcpID(ncpID)
	if err != nil {
		return ncpapimodels.NcpReportView{}, errors.Wrap(err, "failed to read NCP report")
	}
	if rec == nil {
		return ncpapimodels.NcpReportView{}, errors.Wrapf(models.ErrNotFound, "NCP report %v", ncpID)
	}
	return ncpapimodels.NcpReportConvert(*rec), nil
}

func (i impl) List(identity *models.Identity, listType ncpapimodels.ListType) ([]ncpapimodels.NcpReportView, error) {
	if !identity.IsAuthenticated() {
		return nil, models.ErrUnauthorized
	}
	if listType == "" {
		listType = ncpapimodels.ListTypeAssigned
	}
	if !listType.IsValid() {
		return nil, models.NewValidationError("List type %q is unknown", listType)
	}
	filter, ok := listFilter(identity, listType)
	if !ok {
		return []ncpapimodels.NcpReportView{}, nil
	}
	list, err := i.store.List(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read NCP reports")
	}
	result := make([]ncpapimodels.NcpReportView, 0, len(list))
	for _, rec := range list {
		result = append(result, ncpapimodels.NcpReportConvert(rec))
	}
	return result, nil
}

// listFilter maps the caller's role to the reports they see. ok is false when the list is empty by definition.
func listFilter(identity *models.Identity, listType ncpapimodels.ListType) (filter ncpapimodels.ListFilter, ok bool) {
	if listType == ncpapimodels.ListTypePending {
		filter.OrderAsc = true
		switch identity.Role {
		case models.UserRoleQALeader:
			filter.QaLeader = identity.Username
			filter.Statuses = []models.NcpStatus{models.NcpStatusPending}
			filter.OrderBy = "submitted_at"
		case models.UserRoleTeamLeader:
			filter.AssignedTeamLeader = identity.Username
			filter.Statuses = []models.NcpStatus{models.NcpStatusQAApproved, models.NcpStatusTLProcessed}
			filter.OrderBy = "qa_approved_at"
		case models.UserRoleProcessLead:
			filter.Statuses = []models.NcpStatus{models.NcpStatusTLProcessed}
			filter.OrderBy = "tl_processed_at"
		case models.UserRoleQAManager:
			filter.Statuses = []models.NcpStatus{models.NcpStatusProcessApproved}
			filter.OrderBy = "process_approved_at"
		default:
			return filter, false
		}
		return filter, true
	}

	filter.OrderBy = "submitted_at"
	switch identity.Role {
	case models.UserRoleQALeader, models.UserRoleQAManager, models.UserRoleAdmin, models.UserRoleSuperAdmin:
	case models.UserRoleTeamLeader:
		filter.AssignedTeamLeader = identity.Username
	case models.UserRoleProcessLead:
		filter.Statuses = []models.NcpStatus{
			models.NcpStatusTLProcessed,
			models.NcpStatusProcessApproved,
			models.NcpStatusProcessRejected,
		}
	default:
		filter.SubmittedBy = identity.Username
	}
	return filter, true
}

// notify runs a fan-out call, a failure never fails the operation that triggered it.
func (i impl) notify(logger *log.Entry, ncpID string, send func() error) {
	err := send()
	if err == nil {
		return
	}
	logger.WithError(err).Error("failed to send notification")
	i.systemLog.Write(models.SystemLogError, "notification failed", map[string]any{
		"ncp_id": ncpID,
		"error":  err.Error(),
	})
}

func newMessage(ncpID string, notificationType models.NotificationType, title, message string) notificationapimodels.Message {
	return notificationapimodels.Message{
		NcpID:   ncpID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}
}
