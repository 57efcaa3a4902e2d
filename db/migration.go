package db

import (
	dbmodels "ncp-tracker-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Running migrations")
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "failed to migrate User")
	}
	if err := DB.AutoMigrate(&dbmodels.NcpReport{}); err != nil {
		return errors.Wrap(err, "failed to migrate NcpReport")
	}
	if err := DB.AutoMigrate(&dbmodels.AuditLog{}); err != nil {
		return errors.Wrap(err, "failed to migrate AuditLog")
	}
	if err := DB.AutoMigrate(&dbmodels.Notification{}); err != nil {
		return errors.Wrap(err, "failed to migrate Notification")
	}
	if err := DB.AutoMigrate(&dbmodels.SystemLog{}); err != nil {
		return errors.Wrap(err, "failed to migrate SystemLog")
	}
	log.Info("Migrations finished")
	return nil
}
