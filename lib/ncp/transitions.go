package ncphandler

import (
	"fmt"
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	dbmodels "ncp-tracker-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// transit applies one row of the transition table. validate runs after the role check and before
// the report is read, fields builds the stage columns written together with the new status.
// The update is conditional on the pre-state so a concurrent transition loses with ErrConflict.
func (i impl) transit(identity *models.Identity, id uint, action models.NcpAction,
	validate func() error, fields func(now *time.Time) map[string]interface{}) (*dbmodels.NcpReport, error) {
	if err := i.authorize(identity, action); err != nil {
		return nil, err
	}
	if err := validate(); err != nil {
		return nil, err
	}
	rec, err := i.getRecord(id)
	if err != nil {
		return nil, err
	}
	tr, ok := action.Transition()
	if !ok {
		return nil, errors.Errorf("action %v has no transition", action)
	}
	if !action.AllowedFrom(rec.Status) {
		return nil, errors.Wrapf(models.ErrConflict, "NCP %v is %v, %v needs %v",
			rec.NcpID, rec.Status, action, tr.From)
	}
	now := i.now()
	updMap := fields(&now)
	updMap["status"] = tr.To
	rows, err := i.store.UpdateStatus(id, tr.From, updMap)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to apply %v", action)
	}
	if rows == 0 {
		return nil, errors.Wrapf(models.ErrConflict, "NCP %v was changed by someone else", rec.NcpID)
	}
	i.getLogger(identity, id).
		WithField("ncp_id", rec.NcpID).
		WithField("status", tr.To).
		Infof("NCP report %v", action)
	return rec, nil
}

// A return to qa_approved starts a new review round: approvals of the later
// stages belong to the old round and are dropped.
var (
	processApprovalReset = map[string]interface{}{
		"process_approved_by": "",
		"process_approved_at": nil,
		"process_comment":     "",
	}
	processRejectionReset = map[string]interface{}{
		"process_rejected_by":      "",
		"process_rejected_at":      nil,
		"process_rejection_reason": "",
	}
	managerApprovalReset = map[string]interface{}{
		"manager_approved_by": "",
		"manager_approved_at": nil,
		"manager_comment":     "",
	}
	managerRejectionReset = map[string]interface{}{
		"manager_rejected_by":      "",
		"manager_rejected_at":      nil,
		"manager_rejection_reason": "",
	}
)

func withReset(updMap map[string]interface{}, resets ...map[string]interface{}) map[string]interface{} {
	for _, reset := range resets {
		for column, value := range reset {
			updMap[column] = value
		}
	}
	return updMap
}

func (i impl) transitLogger(identity *models.Identity, rec *dbmodels.NcpReport) *log.Entry {
	return i.getLogger(identity, rec.ID).WithField("ncp_id", rec.NcpID)
}

func (i impl) QaApprove(identity *models.Identity, id uint, data ncpapimodels.QaApproveData) error {
	validate := func() error {
		if err := data.Validate(); err != nil {
			return err
		}
		return i.checkAssignee("Team Leader", data.TeamLeader, models.UserRoleTeamLeader)
	}
	rec, err := i.transit(identity, id, models.NcpActionQAApprove, validate, func(now *time.Time) map[string]interface{} {
		return map[string]interface{}{
			"qa_approved_by":       identity.Username,
			"qa_approved_at":       now,
			"disposition":          data.Disposition,
			"sorted_quantity":      data.SortedQuantity,
			"released_quantity":    data.ReleasedQuantity,
			"rejected_quantity":    data.RejectedQuantity,
			"assigned_team_leader": data.TeamLeader,
		}
	})
	if err != nil {
		return err
	}
	i.notify(i.transitLogger(identity, rec), rec.NcpID, func() error {
		return i.notifier.NotifyUser(data.TeamLeader, newMessage(rec.NcpID, models.NotificationAssigned,
			"NCP report assigned",
			fmt.Sprintf("NCP %s was approved by QA Leader %s and assigned to you. Disposition: %s",
				rec.NcpID, identity.Username, data.Disposition)))
	})
	return nil
}

func (i impl) QaReject(identity *models.Identity, id uint, data ncpapimodels.RejectData) error {
	_, err := i.transit(identity, id, models.NcpActionQAReject, data.Validate, func(now *time.Time) map[string]interface{} {
		return map[string]interface{}{
			"qa_rejected_by":      identity.Username,
			"qa_rejected_at":      now,
			"qa_rejection_reason": data.Reason,
		}
	})
	return err
}

func (i impl) TlProcess(identity *models.Identity, id uint, data ncpapimodels.TlProcessData) error {
	rec, err := i.transit(identity, id, models.NcpActionTLProcess, data.Validate, func(now *time.Time) map[string]interface{} {
		return map[string]interface{}{
			"tl_processed_by":     identity.Username,
			"tl_processed_at":     now,
			"root_cause_analysis": data.RootCauseAnalysis,
			"corrective_action":   data.CorrectiveAction,
			"preventive_action":   data.PreventiveAction,
		}
	})
	if err != nil {
		return err
	}
	i.notify(i.transitLogger(identity, rec), rec.NcpID, func() error {
		return i.notifier.NotifyRole(models.UserRoleProcessLead, newMessage(rec.NcpID, models.NotificationProcessed,
			"NCP report processed",
			fmt.Sprintf("NCP %s was processed by Team Leader %s and waits for process approval",
				rec.NcpID, identity.Username)))
	})
	return nil
}

func (i impl) ProcessApprove(identity *models.Identity, id uint, data ncpapimodels.CommentData) error {
	rec, err := i.transit(identity, id, models.NcpActionProcessApprove, data.Validate, func(now *time.Time) map[string]interface{} {
		return withReset(map[string]interface{}{
			"process_approved_by": identity.Username,
			"process_approved_at": now,
			"process_comment":     data.Comment,
		}, processRejectionReset)
	})
	if err != nil {
		return err
	}
	i.notify(i.transitLogger(identity, rec), rec.NcpID, func() error {
		return i.notifier.NotifyRole(models.UserRoleQAManager, newMessage(rec.NcpID, models.NotificationProcessApproved,
			"NCP report waits for final approval",
			fmt.Sprintf("NCP %s was approved by Process Lead %s and waits for your final approval",
				rec.NcpID, identity.Username)))
	})
	return nil
}

func (i impl) ProcessReject(identity *models.Identity, id uint, data ncpapimodels.RejectData) error {
	rec, err := i.transit(identity, id, models.NcpActionProcessReject, data.Validate, func(now *time.Time) map[string]interface{} {
		return withReset(map[string]interface{}{
			"process_rejected_by":      identity.Username,
			"process_rejected_at":      now,
			"process_rejection_reason": data.Reason,
		}, processApprovalReset, managerApprovalReset, managerRejectionReset)
	})
	if err != nil {
		return err
	}
	i.notifyReturned(identity, rec, "Process Lead", data.Reason)
	return nil
}

func (i impl) ManagerApprove(identity *models.Identity, id uint, data ncpapimodels.CommentData) error {
	rec, err := i.transit(identity, id, models.NcpActionManagerApprove, data.Validate, func(now *time.Time) map[string]interface{} {
		return withReset(map[string]interface{}{
			"manager_approved_by": identity.Username,
			"manager_approved_at": now,
			"manager_comment":     data.Comment,
			"archived_at":         now,
		}, managerRejectionReset)
	})
	if err != nil {
		return err
	}
	logger := i.transitLogger(identity, rec)
	msg := newMessage(rec.NcpID, models.NotificationArchived,
		"NCP report archived",
		fmt.Sprintf("NCP %s received final approval from QA Manager %s and was archived", rec.NcpID, identity.Username))
	recipients := []string{rec.SubmittedBy}
	if rec.QaApprovedBy != "" && rec.QaApprovedBy != rec.SubmittedBy {
		recipients = append(recipients, rec.QaApprovedBy)
	}
	for _, username := range recipients {
		i.notify(logger, rec.NcpID, func() error {
			return i.notifier.NotifyUser(username, msg)
		})
	}
	return nil
}

func (i impl) ManagerReject(identity *models.Identity, id uint, data ncpapimodels.RejectData) error {
	rec, err := i.transit(identity, id, models.NcpActionManagerReject, data.Validate, func(now *time.Time) map[string]interface{} {
		return withReset(map[string]interface{}{
			"manager_rejected_by":      identity.Username,
			"manager_rejected_at":      now,
			"manager_rejection_reason": data.Reason,
		}, processApprovalReset, processRejectionReset, managerApprovalReset)
	})
	if err != nil {
		return err
	}
	i.notifyReturned(identity, rec, "QA Manager", data.Reason)
	return nil
}

// notifyReturned tells the assigned Team Leader the report is back for reprocessing.
func (i impl) notifyReturned(identity *models.Identity, rec *dbmodels.NcpReport, by, reason string) {
	logger := i.transitLogger(identity, rec)
	if rec.AssignedTeamLeader == "" {
		logger.Warn("returned NCP report has no assigned Team Leader")
		return
	}
	i.notify(logger, rec.NcpID, func() error {
		return i.notifier.NotifyUser(rec.AssignedTeamLeader, newMessage(rec.NcpID, models.NotificationReturned,
			"NCP report returned",
			fmt.Sprintf("NCP %s was returned by %s %s. Reason: %s", rec.NcpID, by, identity.Username, reason)))
	})
}
