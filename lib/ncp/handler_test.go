package ncphandler

import (
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	dbmodels "ncp-tracker-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func submitData() ncpapimodels.SubmitData {
	return ncpapimodels.SubmitData{
		SkuCode:            "SKU-100",
		MachineCode:        "M-07",
		IncidentDate:       "2025-01-15",
		IncidentTime:       "08:30",
		HoldQuantity:       decimal.RequireFromString("12.5"),
		Uom:                "kg",
		ProblemDescription: "Scratches on the cover surface",
		QaLeader:           "qa1",
	}
}

func qaApproveData() ncpapimodels.QaApproveData {
	return ncpapimodels.QaApproveData{
		Disposition:      "Sort and rework",
		SortedQuantity:   "10",
		ReleasedQuantity: "2",
		RejectedQuantity: "0.5",
		TeamLeader:       "tl1",
	}
}

func tlProcessData() ncpapimodels.TlProcessData {
	return ncpapimodels.TlProcessData{
		RootCauseAnalysis: "Worn guide rail",
		CorrectiveAction:  "Rail replaced",
		PreventiveAction:  "Weekly rail inspection",
	}
}

func (env *testEnv) submit(t *testing.T) ncpapimodels.NcpReportView {
	t.Helper()
	view, err := env.engine.Submit(env.who(t, "alice"), submitData())
	require.NoError(t, err)
	return view
}

// advance moves a fresh report up to the given status through the regular transitions.
func (env *testEnv) advance(t *testing.T, status models.NcpStatus) uint {
	t.Helper()
	id := env.submit(t).ID
	steps := []struct {
		status models.NcpStatus
		run    func() error
	}{
		{models.NcpStatusQAApproved, func() error { return env.engine.QaApprove(env.who(t, "qa1"), id, qaApproveData()) }},
		{models.NcpStatusTLProcessed, func() error { return env.engine.TlProcess(env.who(t, "tl1"), id, tlProcessData()) }},
		{models.NcpStatusProcessApproved, func() error {
			return env.engine.ProcessApprove(env.who(t, "pl1"), id, ncpapimodels.CommentData{Comment: "Looks good"})
		}},
		{models.NcpStatusManagerApproved, func() error {
			return env.engine.ManagerApprove(env.who(t, "mgr1"), id, ncpapimodels.CommentData{Comment: "Close it"})
		}},
	}
	for _, step := range steps {
		if env.record(t, id).Status == status {
			break
		}
		require.NoError(t, step.run())
		require.Equal(t, step.status, env.record(t, id).Status)
	}
	require.Equal(t, status, env.record(t, id).Status)
	return id
}

func TestSubmit(t *testing.T) {
	t.Run(`submit then fetch by business id`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		require.Equal(t, "2501-0001", view.NcpID)

		got, err := env.engine.GetByNcpID(env.who(t, "tl2"), view.NcpID)
		require.NoError(t, err)
		require.Equal(t, models.NcpStatusPending, got.Status)
		require.Equal(t, "SKU-100", got.SkuCode)
		require.Equal(t, "M-07", got.MachineCode)
		require.Equal(t, "2025-01-15", got.IncidentDate)
		require.Equal(t, "08:30", got.IncidentTime)
		require.True(t, decimal.RequireFromString("12.5").Equal(got.HoldQuantity))
		require.Equal(t, "kg", got.Uom)
		require.Equal(t, "Scratches on the cover surface", got.ProblemDescription)
		require.Equal(t, "qa1", got.QaLeader)
		require.Equal(t, "alice", got.SubmittedBy)
		require.Equal(t, env.clock, got.SubmittedAt)
		require.Empty(t, got.QaApprovedBy)
		require.Nil(t, got.QaApprovedAt)
		require.Nil(t, got.ArchivedAt)

		require.Equal(t, []string{"qa1"}, env.notifier.recipients())
		require.Equal(t, models.NotificationNewReport, env.notifier.sent[0].Msg.Type)
		require.Equal(t, view.NcpID, env.notifier.sent[0].Msg.NcpID)
	})

	t.Run(`next id continues the month and restarts with a new one`, func(t *testing.T) {
		env := newTestEnv(t)
		for _, ncpID := range []string{"2501-0001", "2501-0002"} {
			env.store.lastID++
			env.store.records[env.store.lastID] = dbmodels.NcpReport{ID: env.store.lastID, NcpID: ncpID, Status: models.NcpStatusPending}
		}
		require.Equal(t, "2501-0003", env.submit(t).NcpID)

		env.clock = time.Date(2025, time.February, 1, 0, 5, 0, 0, time.UTC)
		require.Equal(t, "2502-0001", env.submit(t).NcpID)
		require.Equal(t, "2502-0002", env.submit(t).NcpID)
	})

	t.Run(`submit validation`, func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.engine.Submit(nil, submitData())
		require.True(t, errors.Is(err, models.ErrUnauthorized))

		data := submitData()
		data.SkuCode = "   "
		_, err = env.engine.Submit(env.who(t, "alice"), data)
		require.EqualError(t, err, "SKU is required")

		data = submitData()
		data.HoldQuantity = decimal.Zero
		_, err = env.engine.Submit(env.who(t, "alice"), data)
		require.True(t, models.IsValidationError(err))

		data = submitData()
		data.IncidentDate = "15.01.2025"
		_, err = env.engine.Submit(env.who(t, "alice"), data)
		require.EqualError(t, err, "Date is invalid")

		// deactivated and wrong-role leaders cannot be chosen
		for _, leader := range []string{"qa2", "tl1", "ghost"} {
			data = submitData()
			data.QaLeader = leader
			_, err = env.engine.Submit(env.who(t, "alice"), data)
			require.True(t, models.IsValidationError(err), leader)
		}
		require.Empty(t, env.store.records)
		require.Empty(t, env.notifier.sent)
	})

	t.Run(`get by id and number errors`, func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.engine.GetByID(env.who(t, "alice"), 42)
		require.True(t, errors.Is(err, models.ErrNotFound))
		_, err = env.engine.GetByNcpID(env.who(t, "alice"), "2501-0009")
		require.True(t, errors.Is(err, models.ErrNotFound))
		_, err = env.engine.GetByNcpID(env.who(t, "alice"), "25010009")
		require.True(t, models.IsValidationError(err))
		_, err = env.engine.GetByID(nil, 1)
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})
}

func TestTransitions(t *testing.T) {
	t.Run(`qa approve`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		require.NoError(t, env.engine.QaApprove(env.who(t, "qa1"), view.ID, qaApproveData()))

		rec := env.record(t, view.ID)
		require.Equal(t, models.NcpStatusQAApproved, rec.Status)
		require.Equal(t, "qa1", rec.QaApprovedBy)
		require.NotNil(t, rec.QaApprovedAt)
		require.Equal(t, env.clock, *rec.QaApprovedAt)
		require.Equal(t, "Sort and rework", rec.Disposition)
		require.Equal(t, "10", rec.SortedQuantity)
		require.Equal(t, "tl1", rec.AssignedTeamLeader)

		last := env.notifier.sent[len(env.notifier.sent)-1]
		require.Equal(t, "tl1", last.Username)
		require.Equal(t, view.NcpID, last.Msg.NcpID)
		require.Equal(t, models.NotificationAssigned, last.Msg.Type)
	})

	t.Run(`qa approve is forbidden for other roles`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		for _, username := range []string{"alice", "tl1", "pl1", "mgr1"} {
			err := env.engine.QaApprove(env.who(t, username), view.ID, qaApproveData())
			require.True(t, errors.Is(err, models.ErrForbidden), username)
			require.EqualError(t, err, "Insufficient permissions")
		}
		require.Equal(t, models.NcpStatusPending, env.record(t, view.ID).Status)

		// admins act on behalf of the QA Leader
		require.NoError(t, env.engine.QaApprove(env.who(t, "admin1"), view.ID, qaApproveData()))
	})

	t.Run(`forbidden wins over bad input and missing report`, func(t *testing.T) {
		env := newTestEnv(t)
		err := env.engine.QaApprove(env.who(t, "alice"), 99, ncpapimodels.QaApproveData{})
		require.True(t, errors.Is(err, models.ErrForbidden))

		err = env.engine.QaApprove(env.who(t, "qa1"), 99, ncpapimodels.QaApproveData{})
		require.EqualError(t, err, "Disposition is required")

		err = env.engine.QaApprove(env.who(t, "qa1"), 99, qaApproveData())
		require.True(t, errors.Is(err, models.ErrNotFound))

		err = env.engine.QaApprove(nil, 99, qaApproveData())
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run(`qa approve input checks`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		data := qaApproveData()
		data.SortedQuantity, data.ReleasedQuantity, data.RejectedQuantity = "", " ", ""
		err := env.engine.QaApprove(env.who(t, "qa1"), view.ID, data)
		require.EqualError(t, err, "Quantity breakdown is required")

		data = qaApproveData()
		data.TeamLeader = "pl1"
		err = env.engine.QaApprove(env.who(t, "qa1"), view.ID, data)
		require.True(t, models.IsValidationError(err))
		require.Equal(t, models.NcpStatusPending, env.record(t, view.ID).Status)
	})

	t.Run(`qa reject is terminal`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		err := env.engine.QaReject(env.who(t, "qa1"), view.ID, ncpapimodels.RejectData{Reason: "  "})
		require.EqualError(t, err, "Rejection reason is required")

		require.NoError(t, env.engine.QaReject(env.who(t, "qa1"), view.ID, ncpapimodels.RejectData{Reason: "Not a defect"}))
		rec := env.record(t, view.ID)
		require.Equal(t, models.NcpStatusQARejected, rec.Status)
		require.Equal(t, "Not a defect", rec.QaRejectionReason)
		require.Equal(t, "qa1", rec.QaRejectedBy)
		require.Len(t, env.notifier.sent, 1)

		err = env.engine.QaApprove(env.who(t, "qa1"), view.ID, qaApproveData())
		require.True(t, errors.Is(err, models.ErrConflict))
	})

	t.Run(`tl process is team leader only`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.advance(t, models.NcpStatusQAApproved)
		for _, username := range []string{"admin1", "root", "qa1"} {
			err := env.engine.TlProcess(env.who(t, username), id, tlProcessData())
			require.True(t, errors.Is(err, models.ErrForbidden), username)
		}
		data := tlProcessData()
		data.PreventiveAction = ""
		err := env.engine.TlProcess(env.who(t, "tl1"), id, data)
		require.EqualError(t, err, "Preventive action is required")

		env.notifier.sent = nil
		require.NoError(t, env.engine.TlProcess(env.who(t, "tl1"), id, tlProcessData()))
		rec := env.record(t, id)
		require.Equal(t, models.NcpStatusTLProcessed, rec.Status)
		require.Equal(t, "Worn guide rail", rec.RootCauseAnalysis)
		require.Equal(t, []string{"pl1"}, env.notifier.recipients())
	})

	t.Run(`process reject returns to team leader`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.advance(t, models.NcpStatusTLProcessed)
		env.notifier.sent = nil
		require.NoError(t, env.engine.ProcessReject(env.who(t, "pl1"), id, ncpapimodels.RejectData{Reason: "RCA too shallow"}))

		rec := env.record(t, id)
		require.Equal(t, models.NcpStatusQAApproved, rec.Status)
		require.Equal(t, "RCA too shallow", rec.ProcessRejectionReason)
		require.Equal(t, "pl1", rec.ProcessRejectedBy)
		require.Equal(t, []string{"tl1"}, env.notifier.recipients())
		require.Equal(t, models.NotificationReturned, env.notifier.sent[0].Msg.Type)
		require.Contains(t, env.notifier.sent[0].Msg.Message, "RCA too shallow")

		// the team leader reprocesses the returned report
		require.NoError(t, env.engine.TlProcess(env.who(t, "tl1"), id, tlProcessData()))
	})

	t.Run(`manager reject returns to team leader`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.advance(t, models.NcpStatusProcessApproved)
		env.notifier.sent = nil
		err := env.engine.ManagerReject(env.who(t, "pl1"), id, ncpapimodels.RejectData{Reason: "Missing photos"})
		require.True(t, errors.Is(err, models.ErrForbidden))

		require.NoError(t, env.engine.ManagerReject(env.who(t, "mgr1"), id, ncpapimodels.RejectData{Reason: "Missing photos"}))
		rec := env.record(t, id)
		require.Equal(t, models.NcpStatusQAApproved, rec.Status)
		require.Equal(t, "Missing photos", rec.ManagerRejectionReason)
		require.Nil(t, rec.ArchivedAt)
		require.Equal(t, []string{"tl1"}, env.notifier.recipients())
	})

	t.Run(`returned report starts a clean review round`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.advance(t, models.NcpStatusProcessApproved)
		pl1, tl1, mgr1 := env.who(t, "pl1"), env.who(t, "tl1"), env.who(t, "mgr1")

		require.NoError(t, env.engine.ManagerReject(mgr1, id, ncpapimodels.RejectData{Reason: "Missing photos"}))
		rec := env.record(t, id)
		require.Equal(t, models.NcpStatusQAApproved, rec.Status)
		require.Empty(t, rec.ProcessApprovedBy)
		require.Nil(t, rec.ProcessApprovedAt)
		require.Empty(t, rec.ProcessComment)
		require.Equal(t, "Missing photos", rec.ManagerRejectionReason)

		require.NoError(t, env.engine.TlProcess(tl1, id, tlProcessData()))
		rec = env.record(t, id)
		require.Equal(t, models.NcpStatusTLProcessed, rec.Status)
		require.Empty(t, rec.ProcessApprovedBy)

		require.NoError(t, env.engine.ProcessReject(pl1, id, ncpapimodels.RejectData{Reason: "Redo RCA"}))
		rec = env.record(t, id)
		require.Equal(t, "Redo RCA", rec.ProcessRejectionReason)
		require.Empty(t, rec.ManagerRejectedBy)
		require.Nil(t, rec.ManagerRejectedAt)
		require.Empty(t, rec.ManagerRejectionReason)

		require.NoError(t, env.engine.TlProcess(tl1, id, tlProcessData()))
		require.NoError(t, env.engine.ProcessApprove(pl1, id, ncpapimodels.CommentData{Comment: "Fine now"}))
		rec = env.record(t, id)
		require.Equal(t, models.NcpStatusProcessApproved, rec.Status)
		require.Equal(t, "pl1", rec.ProcessApprovedBy)
		require.Equal(t, "Fine now", rec.ProcessComment)
		require.Empty(t, rec.ProcessRejectedBy)
		require.Nil(t, rec.ProcessRejectedAt)
		require.Empty(t, rec.ProcessRejectionReason)

		require.NoError(t, env.engine.ManagerApprove(mgr1, id, ncpapimodels.CommentData{Comment: "Close it"}))
		rec = env.record(t, id)
		require.Equal(t, "mgr1", rec.ManagerApprovedBy)
		require.Empty(t, rec.ManagerRejectionReason)
		require.NotNil(t, rec.ArchivedAt)
	})

	t.Run(`deactivated account cannot act with an old token`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		qa1 := env.who(t, "qa1")
		for n := range env.users.users {
			if env.users.users[n].Username == "qa1" {
				env.users.users[n].IsActive = false
			}
		}
		err := env.engine.QaApprove(qa1, view.ID, qaApproveData())
		require.True(t, errors.Is(err, models.ErrUnauthorized))
		require.Equal(t, models.NcpStatusPending, env.record(t, view.ID).Status)

		ghost := &models.Identity{ID: "42", Username: "ghost", Role: models.UserRoleQALeader}
		err = env.engine.QaApprove(ghost, view.ID, qaApproveData())
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run(`second manager approve conflicts`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.advance(t, models.NcpStatusManagerApproved)
		err := env.engine.ManagerApprove(env.who(t, "mgr1"), id, ncpapimodels.CommentData{Comment: "again"})
		require.True(t, errors.Is(err, models.ErrConflict))
	})

	t.Run(`lost race conflicts`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		env.store.staleUpdate = true
		err := env.engine.QaApprove(env.who(t, "qa1"), view.ID, qaApproveData())
		require.True(t, errors.Is(err, models.ErrConflict))
		require.Len(t, env.notifier.sent, 1)
	})

	t.Run(`notification failure does not fail the transition`, func(t *testing.T) {
		env := newTestEnv(t)
		view := env.submit(t)
		env.notifier.err = errors.New("smtp down")
		require.NoError(t, env.engine.QaApprove(env.who(t, "qa1"), view.ID, qaApproveData()))
		require.Equal(t, models.NcpStatusQAApproved, env.record(t, view.ID).Status)
		require.Len(t, env.systemLog.entries, 1)
		require.Equal(t, models.SystemLogError, env.systemLog.entries[0].Level)
		require.Equal(t, view.NcpID, env.systemLog.entries[0].Details["ncp_id"])
	})

	t.Run(`end to end`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.advance(t, models.NcpStatusManagerApproved)
		rec := env.record(t, id)
		require.NotNil(t, rec.ArchivedAt)
		require.Equal(t, "qa1", rec.QaApprovedBy)
		require.Equal(t, "tl1", rec.TlProcessedBy)
		require.Equal(t, "pl1", rec.ProcessApprovedBy)
		require.Equal(t, "Looks good", rec.ProcessComment)
		require.Equal(t, "mgr1", rec.ManagerApprovedBy)
		require.Equal(t, "Close it", rec.ManagerComment)
		require.Equal(t, []string{"qa1", "tl1", "pl1", "mgr1", "alice", "qa1"}, env.notifier.recipients())
		for _, item := range env.notifier.sent {
			require.Equal(t, rec.NcpID, item.Msg.NcpID)
		}
		require.Empty(t, env.store.audit)
	})
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	pending := env.submit(t).ID
	approved := env.advance(t, models.NcpStatusQAApproved)
	processed := env.advance(t, models.NcpStatusTLProcessed)
	archived := env.advance(t, models.NcpStatusManagerApproved)

	data := submitData()
	data.QaLeader = "qa1"
	other, err := env.engine.Submit(env.who(t, "tl2"), data)
	require.NoError(t, err)

	ids := func(list []ncpapimodels.NcpReportView) []uint {
		result := []uint{}
		for _, item := range list {
			result = append(result, item.ID)
		}
		return result
	}
	list := func(t *testing.T, username string, listType ncpapimodels.ListType) []uint {
		result, err := env.engine.List(env.who(t, username), listType)
		require.NoError(t, err)
		return ids(result)
	}

	t.Run(`list mine`, func(t *testing.T) {
		require.Equal(t, []uint{archived, processed, approved, pending}, list(t, "alice", ""))
		require.Equal(t, []uint{other.ID, archived, processed, approved, pending}, list(t, "qa1", ncpapimodels.ListTypeAssigned))
		require.Equal(t, []uint{archived, processed, approved}, list(t, "tl1", ncpapimodels.ListTypeAssigned))
		require.Equal(t, []uint{processed}, list(t, "pl1", ncpapimodels.ListTypeAssigned))
		require.Len(t, list(t, "mgr1", ncpapimodels.ListTypeAssigned), 5)
		require.Len(t, list(t, "root", ncpapimodels.ListTypeAssigned), 5)
	})

	t.Run(`pending for my action`, func(t *testing.T) {
		require.Equal(t, []uint{pending, other.ID}, list(t, "qa1", ncpapimodels.ListTypePending))
		require.Equal(t, []uint{approved, processed}, list(t, "tl1", ncpapimodels.ListTypePending))
		require.Equal(t, []uint{processed}, list(t, "pl1", ncpapimodels.ListTypePending))
		require.Empty(t, list(t, "mgr1", ncpapimodels.ListTypePending))
		require.Empty(t, list(t, "alice", ncpapimodels.ListTypePending))
		require.Empty(t, list(t, "admin1", ncpapimodels.ListTypePending))
	})

	t.Run(`list errors`, func(t *testing.T) {
		_, err := env.engine.List(env.who(t, "alice"), "everything")
		require.True(t, models.IsValidationError(err))
		_, err = env.engine.List(nil, "")
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run(`unknown role sees own reports`, func(t *testing.T) {
		result, err := env.engine.List(&models.Identity{ID: "x", Username: "tl2", Role: "guest"}, "")
		require.NoError(t, err)
		require.Equal(t, []uint{other.ID}, ids(result))
	})
}
