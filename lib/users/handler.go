package usershandler

import (
	"ncp-tracker-backend/db"
	"ncp-tracker-backend/lib/rbac"
	usersstore "ncp-tracker-backend/lib/users/store"
	authutils "ncp-tracker-backend/lib/utils/auth-utils"
	"ncp-tracker-backend/lib/utils/helpers"
	initchecker "ncp-tracker-backend/lib/utils/init-checker"
	"ncp-tracker-backend/models"
	authapimodels "ncp-tracker-backend/models/api/auth"
	userapimodels "ncp-tracker-backend/models/api/user"
	dbmodels "ncp-tracker-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(data authapimodels.LoginRequest) (authapimodels.JWTResponse, error)
	Me(identity *models.Identity) (authapimodels.MeView, error)
	// GetLeaders lists active users of a leader role for the assignee pickers.
	GetLeaders(identity *models.Identity, role models.UserRole) ([]userapimodels.UserView, error)
	List(identity *models.Identity) ([]userapimodels.UserView, error)
	Create(identity *models.Identity, data userapimodels.UserCreateData) (id string, err error)
	SetActive(identity *models.Identity, userID string, isActive bool) error
	// InitSuperAdmin creates the first super_admin when none exists.
	InitSuperAdmin(username, password string) error
}

var Instance Provider

// TokenFunc issues a bearer token for a user.
type TokenFunc func(userID, name string, role models.UserRole) (string, time.Time, error)

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"rbac", rbac.Instance,
	)
	Instance = NewInstance(usersstore.NewInstance(db.DB), rbac.Instance, authutils.GetToken)
}

func NewInstance(store usersstore.Provider, policy rbac.Provider, tokenFn TokenFunc) Provider {
	return impl{
		store:   store,
		policy:  policy,
		tokenFn: tokenFn,
	}
}

type impl struct {
	store   usersstore.Provider
	policy  rbac.Provider
	tokenFn TokenFunc
}

func (i impl) Login(data authapimodels.LoginRequest) (authapimodels.JWTResponse, error) {
	logger := log.WithField("user", data.Username)
	user, err := i.store.GetByUsername(data.Username)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "failed to read user")
	}
	if user == nil {
		logger.Info("login with unknown username")
		return authapimodels.JWTResponse{}, errors.Wrap(models.ErrUnauthorized, "invalid username or password")
	}
	if err = helpers.ComparePassword(user.PasswordHash, data.Password); err != nil {
		logger.Info("login with wrong password")
		return authapimodels.JWTResponse{}, errors.Wrap(models.ErrUnauthorized, "invalid username or password")
	}
	// a correct password does not help a deactivated account
	if !user.IsActive {
		logger.Info("login of deactivated user")
		return authapimodels.JWTResponse{}, errors.Wrap(models.ErrUnauthorized, "user is deactivated")
	}
	token, expiresAt, err := i.tokenFn(user.ID, user.Username, user.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "failed to sign token")
	}
	now := time.Now()
	err = i.store.Update(user.ID, map[string]interface{}{"last_login": &now})
	if err != nil {
		logger.WithError(err).Warn("failed to save last login time")
	}
	return authapimodels.JWTResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      i.meView(*user),
	}, nil
}

func (i impl) Me(identity *models.Identity) (authapimodels.MeView, error) {
	if !identity.IsAuthenticated() {
		return authapimodels.MeView{}, models.ErrUnauthorized
	}
	user, err := i.store.GetByID(identity.ID)
	if err != nil {
		return authapimodels.MeView{}, errors.Wrap(err, "failed to read user")
	}
	if user == nil || !user.IsActive {
		return authapimodels.MeView{}, models.ErrUnauthorized
	}
	return i.meView(*user), nil
}

func (i impl) meView(user dbmodels.User) authapimodels.MeView {
	return authapimodels.MeView{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayName(),
		Role:        user.Role,
		RoleHuman:   user.Role.ToHuman(),
		Permissions: i.policy.GetPermissions(user.Role),
	}
}

func (i impl) GetLeaders(identity *models.Identity, role models.UserRole) ([]userapimodels.UserView, error) {
	if !identity.IsAuthenticated() {
		return nil, models.ErrUnauthorized
	}
	if !role.IsLeader() {
		return nil, models.NewValidationError("Role %q is not a leader role", role)
	}
	list, err := i.store.GetActiveByRole(role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read leaders")
	}
	return convertList(list), nil
}

func (i impl) List(identity *models.Identity) ([]userapimodels.UserView, error) {
	if err := i.checkManage(identity); err != nil {
		return nil, err
	}
	list, err := i.store.GetList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read users")
	}
	return convertList(list), nil
}

func (i impl) Create(identity *models.Identity, data userapimodels.UserCreateData) (id string, err error) {
	if err = i.checkManage(identity); err != nil {
		return "", err
	}
	if err = data.Validate(); err != nil {
		return "", err
	}
	exist, err := i.store.GetByUsername(data.Username)
	if err != nil {
		return "", errors.Wrap(err, "failed to read user")
	}
	if exist != nil {
		return "", models.NewValidationError("Username %v is already taken", data.Username)
	}
	hash, err := helpers.HashPassword(data.Password)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	rec := dbmodels.User{
		Username:     data.Username,
		PasswordHash: hash,
		Role:         data.Role,
		DisplayName:  data.DisplayName,
		Email:        data.Email,
		IsActive:     true,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	log.WithField("user", data.Username).WithField("created_by", identity.Username).Info("user created")
	return id, nil
}

func (i impl) SetActive(identity *models.Identity, userID string, isActive bool) error {
	if err := i.checkManage(identity); err != nil {
		return err
	}
	if userID == identity.ID && !isActive {
		return models.NewValidationError("You cannot deactivate yourself")
	}
	user, err := i.store.GetByID(userID)
	if err != nil {
		return errors.Wrap(err, "failed to read user")
	}
	if user == nil {
		return errors.Wrap(models.ErrNotFound, "user")
	}
	err = i.store.Update(userID, map[string]interface{}{"is_active": isActive})
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	log.
		WithField("user", user.Username).
		WithField("is_active", isActive).
		WithField("changed_by", identity.Username).
		Info("user activity changed")
	return nil
}

func (i impl) InitSuperAdmin(username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	exist, err := i.store.ExistByRole(models.UserRoleSuperAdmin)
	if err != nil {
		return errors.Wrap(err, "failed to check super admin")
	}
	if exist {
		return nil
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	_, err = i.store.Create(dbmodels.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.UserRoleSuperAdmin,
		IsActive:     true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create super admin")
	}
	log.WithField("user", username).Info("super admin created")
	return nil
}

func (i impl) checkManage(identity *models.Identity) error {
	if !identity.IsAuthenticated() {
		return models.ErrUnauthorized
	}
	if !i.policy.IsAllowed(identity.Role, models.NcpActionManageUsers) {
		return models.ErrForbidden
	}
	return nil
}

func convertList(list []dbmodels.User) []userapimodels.UserView {
	result := make([]userapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, userapimodels.UserConvert(rec))
	}
	return result
}
