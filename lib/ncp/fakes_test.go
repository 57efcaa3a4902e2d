package ncphandler

import (
	auditloghandler "ncp-tracker-backend/lib/audit-log"
	ncpnumber "ncp-tracker-backend/lib/ncp-number"
	"ncp-tracker-backend/lib/rbac"
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	notificationapimodels "ncp-tracker-backend/models/api/notification"
	dbmodels "ncp-tracker-backend/models/db"
	"reflect"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

type fakeNcpStore struct {
	lastID  uint
	records map[uint]dbmodels.NcpReport
	audit   []dbmodels.AuditLog
	// staleUpdate makes the next conditional update match nothing, as if another request won
	staleUpdate bool
}

func newFakeNcpStore() *fakeNcpStore {
	return &fakeNcpStore{records: map[uint]dbmodels.NcpReport{}}
}

func (s *fakeNcpStore) Create(rec dbmodels.NcpReport, prefix string) (*dbmodels.NcpReport, error) {
	last := ""
	for _, stored := range s.records {
		if strings.HasPrefix(stored.NcpID, prefix) && stored.NcpID > last {
			last = stored.NcpID
		}
	}
	ncpID, err := ncpnumber.Next(prefix, last)
	if err != nil {
		return nil, err
	}
	s.lastID++
	rec.ID = s.lastID
	rec.NcpID = ncpID
	rec.CreatedAt = rec.SubmittedAt
	s.records[rec.ID] = rec
	return &rec, nil
}

func (s *fakeNcpStore) GetByID(id uint) (*dbmodels.NcpReport, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeNcpStore) GetByNcpID(ncpID string) (*dbmodels.NcpReport, error) {
	for _, rec := range s.records {
		if rec.NcpID == ncpID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *fakeNcpStore) List(filter ncpapimodels.ListFilter) ([]dbmodels.NcpReport, error) {
	list := []dbmodels.NcpReport{}
	for _, rec := range s.records {
		if filter.SubmittedBy != "" && rec.SubmittedBy != filter.SubmittedBy {
			continue
		}
		if filter.QaLeader != "" && rec.QaLeader != filter.QaLeader {
			continue
		}
		if filter.AssignedTeamLeader != "" && rec.AssignedTeamLeader != filter.AssignedTeamLeader {
			continue
		}
		if len(filter.Statuses) != 0 && !slices.Contains(filter.Statuses, rec.Status) {
			continue
		}
		list = append(list, rec)
	}
	sort.Slice(list, func(a, b int) bool {
		if filter.OrderAsc {
			return list[a].ID < list[b].ID
		}
		return list[a].ID > list[b].ID
	})
	return list, nil
}

func (s *fakeNcpStore) UpdateStatus(id uint, from models.NcpStatus, updMap map[string]interface{}) (int64, error) {
	rec, ok := s.records[id]
	if !ok || rec.Status != from {
		return 0, nil
	}
	if s.staleUpdate {
		s.staleUpdate = false
		return 0, nil
	}
	applyColumns(&rec, updMap)
	s.records[id] = rec
	return 1, nil
}

func (s *fakeNcpStore) UpdateAudited(id uint, updMap map[string]interface{}, entries []dbmodels.AuditLog) (int64, error) {
	rec, ok := s.records[id]
	if !ok {
		return 0, nil
	}
	applyColumns(&rec, updMap)
	s.records[id] = rec
	s.audit = append(s.audit, entries...)
	return 1, nil
}

func (s *fakeNcpStore) Delete(id uint) (int64, error) {
	if _, ok := s.records[id]; !ok {
		return 0, nil
	}
	delete(s.records, id)
	return 1, nil
}

// applyColumns sets struct fields by their column names, the way an UPDATE with a map does.
func applyColumns(rec *dbmodels.NcpReport, updMap map[string]interface{}) {
	namer := schema.NamingStrategy{}
	v := reflect.ValueOf(rec).Elem()
	t := v.Type()
	for column, value := range updMap {
		for n := 0; n < t.NumField(); n++ {
			if namer.ColumnName("", t.Field(n).Name) != column {
				continue
			}
			field := v.Field(n)
			newValue := reflect.ValueOf(value)
			if value == nil || (newValue.Kind() == reflect.Ptr && newValue.IsNil()) {
				field.Set(reflect.Zero(field.Type()))
			} else {
				field.Set(newValue.Convert(field.Type()))
			}
		}
	}
}

type fakeAuditStore struct {
	store *fakeNcpStore
}

func (s fakeAuditStore) Create(rec dbmodels.AuditLog) error {
	s.store.audit = append(s.store.audit, rec)
	return nil
}

func (s fakeAuditStore) List(ncpID string) (list []dbmodels.AuditLog, err error) {
	for _, rec := range s.store.audit {
		if rec.NcpID == ncpID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeUsersStore struct {
	users []dbmodels.User
}

func (s *fakeUsersStore) Create(rec dbmodels.User) (string, error) {
	return "", errors.New("not implemented")
}

func (s *fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	return errors.New("not implemented")
}

func (s *fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *fakeUsersStore) GetByUsername(username string) (*dbmodels.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *fakeUsersStore) GetList() ([]dbmodels.User, error) {
	return s.users, nil
}

func (s *fakeUsersStore) GetActiveByRole(role models.UserRole) (list []dbmodels.User, err error) {
	for _, user := range s.users {
		if user.Role == role && user.IsActive {
			list = append(list, user)
		}
	}
	return list, nil
}

func (s *fakeUsersStore) ExistByRole(role models.UserRole) (bool, error) {
	list, _ := s.GetActiveByRole(role)
	return len(list) != 0, nil
}

type sentNotification struct {
	Username string
	Msg      notificationapimodels.Message
}

// fakeNotifier resolves role fan-out against the fake users, only the delivery methods are used.
type fakeNotifier struct {
	users *fakeUsersStore
	sent  []sentNotification
	err   error
}

func (n *fakeNotifier) NotifyUser(username string, msg notificationapimodels.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{Username: username, Msg: msg})
	return nil
}

func (n *fakeNotifier) NotifyRole(role models.UserRole, msg notificationapimodels.Message) error {
	if n.err != nil {
		return n.err
	}
	users, _ := n.users.GetActiveByRole(role)
	for _, user := range users {
		n.sent = append(n.sent, sentNotification{Username: user.Username, Msg: msg})
	}
	return nil
}

func (n *fakeNotifier) List(userID string, filter notificationapimodels.NotificationFilter) ([]notificationapimodels.NotificationView, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (n *fakeNotifier) UnreadCount(userID string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (n *fakeNotifier) MarkRead(userID, id string) error {
	return errors.New("not implemented")
}

func (n *fakeNotifier) MarkAllRead(userID string) error {
	return errors.New("not implemented")
}

func (n *fakeNotifier) recipients() []string {
	result := make([]string, 0, len(n.sent))
	for _, item := range n.sent {
		result = append(result, item.Username)
	}
	return result
}

type systemLogEntry struct {
	Level   models.SystemLogLevel
	Message string
	Details map[string]any
}

type fakeSystemLog struct {
	entries []systemLogEntry
}

func (l *fakeSystemLog) Write(level models.SystemLogLevel, message string, details map[string]any) {
	l.entries = append(l.entries, systemLogEntry{Level: level, Message: message, Details: details})
}

type testEnv struct {
	engine    impl
	store     *fakeNcpStore
	users     *fakeUsersStore
	notifier  *fakeNotifier
	systemLog *fakeSystemLog
	clock     time.Time
}

func newUser(id, username string, role models.UserRole, active bool) dbmodels.User {
	user := dbmodels.User{
		Username: username,
		Role:     role,
		IsActive: active,
	}
	user.ID = id
	return user
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: newFakeNcpStore(),
		users: &fakeUsersStore{users: []dbmodels.User{
			newUser("1", "alice", models.UserRoleUser, true),
			newUser("2", "qa1", models.UserRoleQALeader, true),
			newUser("3", "qa2", models.UserRoleQALeader, false),
			newUser("4", "tl1", models.UserRoleTeamLeader, true),
			newUser("5", "tl2", models.UserRoleTeamLeader, true),
			newUser("6", "pl1", models.UserRoleProcessLead, true),
			newUser("7", "mgr1", models.UserRoleQAManager, true),
			newUser("8", "admin1", models.UserRoleAdmin, true),
			newUser("9", "root", models.UserRoleSuperAdmin, true),
		}},
		systemLog: &fakeSystemLog{},
		clock:     time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC),
	}
	env.notifier = &fakeNotifier{users: env.users}
	engine, ok := NewInstance(env.store, env.users, auditloghandler.NewInstance(fakeAuditStore{store: env.store}),
		env.notifier, env.systemLog, rbac.NewPolicy()).(impl)
	require.True(t, ok)
	engine.now = func() time.Time { return env.clock }
	env.engine = engine
	return env
}

func (env *testEnv) who(t *testing.T, username string) *models.Identity {
	t.Helper()
	user, _ := env.users.GetByUsername(username)
	require.NotNil(t, user, username)
	return &models.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
}

func (env *testEnv) record(t *testing.T, id uint) dbmodels.NcpReport {
	t.Helper()
	rec, ok := env.store.records[id]
	require.True(t, ok)
	return rec
}
