package notificationhandler

import (
	"ncp-tracker-backend/config"
	"ncp-tracker-backend/db"
	notificationstore "ncp-tracker-backend/lib/notification/store"
	"ncp-tracker-backend/lib/smtp"
	usersstore "ncp-tracker-backend/lib/users/store"
	initchecker "ncp-tracker-backend/lib/utils/init-checker"
	connectionhub "ncp-tracker-backend/lib/ws/hub/connection-hub"
	"ncp-tracker-backend/models"
	notificationapimodels "ncp-tracker-backend/models/api/notification"
	dbmodels "ncp-tracker-backend/models/db"
	wsmodels "ncp-tracker-backend/models/ws"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// NotifyUser delivers msg to the user with the given username.
	NotifyUser(username string, msg notificationapimodels.Message) error
	// NotifyRole delivers msg to every active holder of role.
	NotifyRole(role models.UserRole, msg notificationapimodels.Message) error
	List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"connectionhub", connectionhub.Instance,
		"smtp", smtp.Instance,
	)
	Instance = NewInstance(
		notificationstore.NewInstance(db.DB),
		usersstore.NewInstance(db.DB),
		connectionhub.Instance,
		smtp.Instance,
		*config.Conf.Notification.MailEnabled,
		config.Conf.Notification.MailSender,
	)
}

func NewInstance(store notificationstore.Provider, usersStore usersstore.Provider, hub connectionhub.Provider,
	mailer smtp.Provider, mailEnabled bool, mailSender string) Provider {
	return impl{
		store:       store,
		usersStore:  usersStore,
		hub:         hub,
		mailer:      mailer,
		mailEnabled: mailEnabled,
		mailSender:  mailSender,
	}
}

type impl struct {
	store       notificationstore.Provider
	usersStore  usersstore.Provider
	hub         connectionhub.Provider
	mailer      smtp.Provider
	mailEnabled bool
	mailSender  string
}

func (i impl) getLogger(ncpID string) *log.Entry {
	return log.WithField("ncp_id", ncpID)
}

func (i impl) NotifyUser(username string, msg notificationapimodels.Message) error {
	user, err := i.usersStore.GetByUsername(username)
	if err != nil {
		return errors.Wrapf(err, "failed to read recipient %v", username)
	}
	if user == nil {
		return errors.Wrapf(models.ErrNotFound, "recipient %v", username)
	}
	return i.deliver(*user, msg)
}

func (i impl) NotifyRole(role models.UserRole, msg notificationapimodels.Message) error {
	users, err := i.usersStore.GetActiveByRole(role)
	if err != nil {
		return errors.Wrapf(err, "failed to read recipients with role %v", role)
	}
	var lastErr error
	for _, user := range users {
		if err = i.deliver(user, msg); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (i impl) deliver(user dbmodels.User, msg notificationapimodels.Message) error {
	logger := i.getLogger(msg.NcpID).WithField("user", user.Username)
	rec := dbmodels.Notification{
		UserID:  user.ID,
		NcpID:   msg.NcpID,
		Title:   msg.Title,
		Message: msg.Message,
		Type:    msg.Type,
	}
	rec.CreatedAt = time.Now()
	id, err := i.store.Create(rec)
	if err != nil {
		return errors.Wrapf(err, "failed to save notification for %v", user.Username)
	}
	rec.ID = id
	if i.hub != nil {
		i.hub.SendMessage(wsmodels.NotificationMessage(rec))
	}
	if i.mailEnabled && i.mailer != nil && user.Email != "" && i.mailer.IsConfigured() {
		go func() {
			if err := i.mailer.SendEMail(i.mailSender, user.Email, msg.Title, msg.Message); err != nil {
				logger.WithError(err).Warn("notification mail not sent")
			}
		}()
	}
	logger.WithField("type", msg.Type).Info("notification sent")
	return nil
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error) {
	page, limit := filter.GetPage()
	recs, rowCount, err := i.store.List(userID, filter.UnreadOnly, page, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read notifications")
	}
	list = make([]notificationapimodels.NotificationView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, notificationapimodels.NotificationConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) UnreadCount(userID string) (int64, error) {
	count, err := i.store.CountUnread(userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}
	return count, nil
}

func (i impl) MarkRead(userID, id string) error {
	rows, err := i.store.MarkRead(userID, id)
	if err != nil {
		return errors.Wrap(err, "failed to mark notification as read")
	}
	if rows == 0 {
		return errors.Wrap(models.ErrNotFound, "notification")
	}
	return nil
}

func (i impl) MarkAllRead(userID string) error {
	err := i.store.MarkAllRead(userID)
	if err != nil {
		return errors.Wrap(err, "failed to mark notifications as read")
	}
	return nil
}
