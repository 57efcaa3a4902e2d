package auditloghandler

import (
	"ncp-tracker-backend/db"
	auditlogstore "ncp-tracker-backend/lib/audit-log/store"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"

	"github.com/pkg/errors"
)

type Provider interface {
	List(ncpID string) ([]ncpapimodels.AuditLogView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(auditlogstore.NewInstance(db.DB))
}

func NewInstance(store auditlogstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store auditlogstore.Provider
}

func (i impl) List(ncpID string) ([]ncpapimodels.AuditLogView, error) {
	list, err := i.store.List(ncpID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read audit log")
	}
	result := make([]ncpapimodels.AuditLogView, 0, len(list))
	for _, rec := range list {
		result = append(result, ncpapimodels.AuditLogConvert(rec))
	}
	return result, nil
}
