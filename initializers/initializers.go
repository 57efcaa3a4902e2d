package initializers

import (
	"context"
	"ncp-tracker-backend/config"
	"ncp-tracker-backend/fiberlog"
	auditloghandler "ncp-tracker-backend/lib/audit-log"
	dashboardhandler "ncp-tracker-backend/lib/dashboard"
	xlsexport "ncp-tracker-backend/lib/export/xls"
	filestorage "ncp-tracker-backend/lib/file-storage"
	housekeepingworker "ncp-tracker-backend/lib/housekeeping"
	ncphandler "ncp-tracker-backend/lib/ncp"
	notificationhandler "ncp-tracker-backend/lib/notification"
	"ncp-tracker-backend/lib/rbac"
	systemloghandler "ncp-tracker-backend/lib/system-log"
	usershandler "ncp-tracker-backend/lib/users"
	connectionhub "ncp-tracker-backend/lib/ws/hub/connection-hub"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	rbac.NewHandler()
	systemloghandler.NewHandler()
	auditloghandler.NewHandler()
	connectionhub.Init()
	notificationhandler.NewHandler()
	usershandler.NewHandler()
	ncphandler.NewHandler()
	filestorage.NewHandler()
	dashboardhandler.NewHandler()
	xlsexport.NewHandler()
	initSuperAdmin()
	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	if *config.Conf.Housekeeping.Enabled {
		// read notifications and system log retention
		housekeepingworker.StartWorker(ctx)
	}
}

func initSuperAdmin() {
	username := config.Conf.SuperAdmin.Username
	if username == "" {
		return
	}
	if err := usershandler.Instance.InitSuperAdmin(username, config.Conf.SuperAdmin.Password); err != nil {
		log.WithError(err).WithField("user", username).Error("failed to create super admin")
	}
}
