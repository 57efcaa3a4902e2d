package dashboardhandler

import (
	"context"
	"fmt"
	"ncp-tracker-backend/db"
	dashboardstore "ncp-tracker-backend/lib/dashboard/store"
	"ncp-tracker-backend/lib/utils/lock"
	"ncp-tracker-backend/models"
	dashboardapimodels "ncp-tracker-backend/models/api/dashboard"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	cacheKeyPattern = "ncp-stats:%v"
	cacheTTL        = 30 * time.Second
	topLimit        = 5
	lockWait        = 10 * time.Second
)

type Provider interface {
	Stats(identity *models.Identity) (dashboardapimodels.Stats, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(dashboardstore.NewInstance(db.DB))
}

func NewInstance(store dashboardstore.Provider) Provider {
	return impl{
		store: store,
		cache: cache.New(cacheTTL, 2*cacheTTL),
		now:   time.Now,
	}
}

type impl struct {
	store dashboardstore.Provider
	cache *cache.Cache
	now   func() time.Time
}

func (i impl) Stats(identity *models.Identity) (dashboardapimodels.Stats, error) {
	if identity == nil {
		return dashboardapimodels.Stats{}, models.ErrUnauthorized
	}
	year := i.now().Year()
	cacheKey := fmt.Sprintf(cacheKeyPattern, year)
	if cached, ok := i.cache.Get(cacheKey); ok {
		return cached.(dashboardapimodels.Stats), nil
	}
	var stats dashboardapimodels.Stats
	// one collector per key, concurrent callers wait for its result
	success, err := lock.WithDelay(context.Background(), cacheKey, lockWait, func() (err error) {
		if cached, ok := i.cache.Get(cacheKey); ok {
			stats = cached.(dashboardapimodels.Stats)
			return nil
		}
		stats, err = i.collect(year)
		if err != nil {
			return err
		}
		i.cache.Set(cacheKey, stats, cache.DefaultExpiration)
		return nil
	})
	if err != nil {
		return dashboardapimodels.Stats{}, err
	}
	if !success {
		return i.collect(year)
	}
	return stats, nil
}

func (i impl) collect(year int) (dashboardapimodels.Stats, error) {
	stats := dashboardapimodels.Stats{}
	byStatus, err := i.store.CountByStatus()
	if err != nil {
		return stats, errors.Wrap(err, "failed to count NCP reports by status")
	}
	for _, status := range models.NcpStatuses {
		count := byStatus[status]
		stats.Total += count
		if status == models.NcpStatusManagerApproved {
			stats.Archived = count
		}
		if !status.IsTerminal() {
			stats.Open += count
		}
		stats.ByStatus = append(stats.ByStatus, dashboardapimodels.StatusCount{
			Status:      status,
			StatusHuman: status.ToHuman(),
			Count:       count,
		})
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	byMonth, err := i.store.CountByMonth(from, from.AddDate(1, 0, 0))
	if err != nil {
		return stats, errors.Wrap(err, "failed to count NCP reports by month")
	}
	for month := from; month.Year() == year; month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		stats.ByMonth = append(stats.ByMonth, dashboardapimodels.MonthCount{Month: key, Count: byMonth[key]})
	}

	stats.TopSkus, err = i.store.TopKeys(dashboardstore.GroupBySku, topLimit)
	if err != nil {
		return stats, errors.Wrap(err, "failed to count NCP reports by SKU")
	}
	stats.Machines, err = i.store.TopKeys(dashboardstore.GroupByMachine, topLimit)
	if err != nil {
		return stats, errors.Wrap(err, "failed to count NCP reports by machine")
	}
	return stats, nil
}
