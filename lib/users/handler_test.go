package usershandler

import (
	"ncp-tracker-backend/lib/rbac"
	"ncp-tracker-backend/lib/utils/helpers"
	"ncp-tracker-backend/models"
	authapimodels "ncp-tracker-backend/models/api/auth"
	userapimodels "ncp-tracker-backend/models/api/user"
	dbmodels "ncp-tracker-backend/models/db"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users   []dbmodels.User
	updates []map[string]interface{}
}

func (s *fakeStore) Create(rec dbmodels.User) (string, error) {
	rec.ID = "u" + strconv.Itoa(len(s.users)+1)
	s.users = append(s.users, rec)
	return rec.ID, nil
}

func (s *fakeStore) Update(userID string, updMap map[string]interface{}) error {
	s.updates = append(s.updates, updMap)
	for n := range s.users {
		if s.users[n].ID != userID {
			continue
		}
		if isActive, ok := updMap["is_active"]; ok {
			s.users[n].IsActive = isActive.(bool)
		}
	}
	return nil
}

func (s *fakeStore) GetByID(userID string) (*dbmodels.User, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetByUsername(username string) (*dbmodels.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetList() ([]dbmodels.User, error) {
	return s.users, nil
}

func (s *fakeStore) GetActiveByRole(role models.UserRole) (list []dbmodels.User, err error) {
	for _, user := range s.users {
		if user.Role == role && user.IsActive {
			list = append(list, user)
		}
	}
	return list, nil
}

func (s *fakeStore) ExistByRole(role models.UserRole) (bool, error) {
	for _, user := range s.users {
		if user.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func fakeToken(userID, name string, role models.UserRole) (string, time.Time, error) {
	return "token-" + name, time.Now().Add(time.Hour), nil
}

func getInstance(t *testing.T) (impl, *fakeStore) {
	hash, err := helpers.HashPassword("secret-pass")
	require.NoError(t, err)
	store := &fakeStore{}
	for _, user := range []dbmodels.User{
		{Username: "alice", Role: models.UserRoleUser, IsActive: true, PasswordHash: hash},
		{Username: "bob", Role: models.UserRoleTeamLeader, IsActive: false, PasswordHash: hash},
		{Username: "tl1", Role: models.UserRoleTeamLeader, IsActive: true, PasswordHash: hash},
		{Username: "root", Role: models.UserRoleSuperAdmin, IsActive: true, PasswordHash: hash},
	} {
		_, err = store.Create(user)
		require.NoError(t, err)
	}
	return NewInstance(store, rbac.NewPolicy(), fakeToken).(impl), store
}

func TestLogin(t *testing.T) {
	t.Run(`valid credentials`, func(t *testing.T) {
		i, store := getInstance(t)
		resp, err := i.Login(authapimodels.LoginRequest{Username: "alice", Password: "secret-pass"})
		require.NoError(t, err)
		require.Equal(t, "token-alice", resp.Token)
		require.Equal(t, "alice", resp.User.Username)
		require.Contains(t, resp.User.Permissions, models.NcpActionSubmit)
		require.Len(t, store.updates, 1)
		require.Contains(t, store.updates[0], "last_login")
	})

	t.Run(`wrong password and unknown user`, func(t *testing.T) {
		i, _ := getInstance(t)
		_, err := i.Login(authapimodels.LoginRequest{Username: "alice", Password: "nope"})
		require.True(t, errors.Is(err, models.ErrUnauthorized))
		_, err = i.Login(authapimodels.LoginRequest{Username: "ghost", Password: "secret-pass"})
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run(`deactivated user is rejected with correct password`, func(t *testing.T) {
		i, _ := getInstance(t)
		_, err := i.Login(authapimodels.LoginRequest{Username: "bob", Password: "secret-pass"})
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})
}

func TestUsers(t *testing.T) {
	root := &models.Identity{ID: "u4", Username: "root", Role: models.UserRoleSuperAdmin}
	alice := &models.Identity{ID: "u1", Username: "alice", Role: models.UserRoleUser}

	t.Run(`leaders exclude deactivated users`, func(t *testing.T) {
		i, _ := getInstance(t)
		list, err := i.GetLeaders(alice, models.UserRoleTeamLeader)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "tl1", list[0].Username)

		_, err = i.GetLeaders(alice, models.UserRoleAdmin)
		require.True(t, models.IsValidationError(err))

		_, err = i.GetLeaders(nil, models.UserRoleTeamLeader)
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run(`me check`, func(t *testing.T) {
		i, _ := getInstance(t)
		me, err := i.Me(root)
		require.NoError(t, err)
		require.Equal(t, models.UserRoleSuperAdmin, me.Role)
		require.Contains(t, me.Permissions, models.NcpActionSuperEdit)

		_, err = i.Me(&models.Identity{ID: "u2", Username: "bob", Role: models.UserRoleTeamLeader})
		require.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run(`create requires super admin`, func(t *testing.T) {
		i, store := getInstance(t)
		data := userapimodels.UserCreateData{Username: " qa2 ", Password: "password1", Role: models.UserRoleQALeader}
		_, err := i.Create(alice, data)
		require.True(t, errors.Is(err, models.ErrForbidden))

		id, err := i.Create(root, data)
		require.NoError(t, err)
		user, _ := store.GetByID(id)
		require.Equal(t, "qa2", user.Username)
		require.NoError(t, helpers.ComparePassword(user.PasswordHash, "password1"))

		_, err = i.Create(root, data)
		require.True(t, models.IsValidationError(err))

		data.Role = "boss"
		data.Username = "qa3"
		_, err = i.Create(root, data)
		require.True(t, models.IsValidationError(err))
	})

	t.Run(`set active`, func(t *testing.T) {
		i, store := getInstance(t)
		require.NoError(t, i.SetActive(root, "u3", false))
		user, _ := store.GetByID("u3")
		require.False(t, user.IsActive)

		err := i.SetActive(root, "u4", false)
		require.True(t, models.IsValidationError(err))
		err = i.SetActive(root, "u99", true)
		require.True(t, errors.Is(err, models.ErrNotFound))
		err = i.SetActive(alice, "u3", true)
		require.True(t, errors.Is(err, models.ErrForbidden))
	})

	t.Run(`super admin seed runs once`, func(t *testing.T) {
		i, store := getInstance(t)
		require.NoError(t, i.InitSuperAdmin("admin2", "password"))
		require.Len(t, store.users, 4)

		store.users = store.users[:3]
		require.NoError(t, i.InitSuperAdmin("admin2", "password"))
		require.Len(t, store.users, 4)
		require.Equal(t, "admin2", store.users[3].Username)
	})
}
