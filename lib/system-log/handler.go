package systemloghandler

import (
	"ncp-tracker-backend/db"
	systemlogstore "ncp-tracker-backend/lib/system-log/store"
	"ncp-tracker-backend/models"
	dbmodels "ncp-tracker-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// Provider is a write-only sink, a failed write is logged and otherwise ignored.
type Provider interface {
	Write(level models.SystemLogLevel, message string, details map[string]any)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(systemlogstore.NewInstance(db.DB))
}

func NewInstance(store systemlogstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store systemlogstore.Provider
}

func (i impl) Write(level models.SystemLogLevel, message string, details map[string]any) {
	rec := dbmodels.SystemLog{
		Level:   level,
		Message: message,
		Details: details,
	}
	err := i.store.Create(rec)
	if err != nil {
		log.
			WithError(err).
			WithField("system_log", message).
			Error("failed to write system log")
	}
}
