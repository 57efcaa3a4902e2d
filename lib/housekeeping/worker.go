package housekeepingworker

import (
	"context"
	"ncp-tracker-backend/config"
	"ncp-tracker-backend/db"
	housekeepingstore "ncp-tracker-backend/lib/housekeeping/store"
	systemloghandler "ncp-tracker-backend/lib/system-log"
	baseworker "ncp-tracker-backend/lib/utils/base-worker"
	"ncp-tracker-backend/lib/utils/helpers"
	"ncp-tracker-backend/models"
	"time"
)

const day = 24 * time.Hour

func StartWorker(ctx context.Context) {
	i := newWorker(
		housekeepingstore.NewInstance(db.DB),
		systemloghandler.Instance,
		config.Conf.Housekeeping.NotificationRetentionDays,
		config.Conf.Housekeeping.SystemLogRetentionDays,
	)
	go i.Run(ctx, i.handle)
}

func newWorker(store housekeepingstore.Provider, systemLog systemloghandler.Provider, notificationDays, systemLogDays int) *impl {
	return &impl{
		BaseImpl:         *baseworker.NewInstance("HousekeepingWorker", time.Minute, 6*time.Hour),
		store:            store,
		systemLog:        systemLog,
		notificationDays: notificationDays,
		systemLogDays:    systemLogDays,
		now:              time.Now,
	}
}

type impl struct {
	baseworker.BaseImpl
	store            housekeepingstore.Provider
	systemLog        systemloghandler.Provider
	notificationDays int
	systemLogDays    int
	now              func() time.Time
}

// handle purges read notifications and old system log entries, zero days keeps everything.
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := i.now()
	details := map[string]any{}

	if i.notificationDays > 0 {
		count, err := i.store.DeleteReadNotifications(now.Add(-time.Duration(i.notificationDays) * day))
		if err != nil {
			logger.WithError(err).Error("failed to delete read notifications")
		} else {
			details["notifications"] = count
		}
	}
	if helpers.IsContextDone(ctx) {
		return
	}
	if i.systemLogDays > 0 {
		count, err := i.store.DeleteSystemLogs(now.Add(-time.Duration(i.systemLogDays) * day))
		if err != nil {
			logger.WithError(err).Error("failed to delete system logs")
		} else {
			details["system_logs"] = count
		}
	}

	if len(details) != 0 {
		logger.WithFields(details).Info("housekeeping done")
		i.systemLog.Write(models.SystemLogInfo, "housekeeping done", details)
	}
}
