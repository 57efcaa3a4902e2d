package dashboardhandler

import (
	dashboardstore "ncp-tracker-backend/lib/dashboard/store"
	"ncp-tracker-backend/models"
	dashboardapimodels "ncp-tracker-backend/models/api/dashboard"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls    int
	byStatus map[models.NcpStatus]int64
	byMonth  map[string]int64
	from, to time.Time
	err      error
}

func (s *fakeStore) CountByStatus() (map[models.NcpStatus]int64, error) {
	s.calls++
	return s.byStatus, s.err
}

func (s *fakeStore) CountByMonth(from, to time.Time) (map[string]int64, error) {
	s.from, s.to = from, to
	return s.byMonth, nil
}

func (s *fakeStore) TopKeys(column dashboardstore.GroupColumn, limit int) ([]dashboardapimodels.KeyCount, error) {
	if column == dashboardstore.GroupBySku {
		return []dashboardapimodels.KeyCount{{Key: "SKU-100", Count: 4}}, nil
	}
	return []dashboardapimodels.KeyCount{{Key: "M-07", Count: 3}}, nil
}

func TestStats(t *testing.T) {
	identity := &models.Identity{ID: "1", Username: "alice", Role: models.UserRoleUser}
	newHandler := func(store *fakeStore) impl {
		handler := NewInstance(store).(impl)
		handler.now = func() time.Time { return time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC) }
		return handler
	}

	t.Run(`totals and zero filled months`, func(t *testing.T) {
		store := &fakeStore{
			byStatus: map[models.NcpStatus]int64{
				models.NcpStatusPending:         2,
				models.NcpStatusQARejected:      1,
				models.NcpStatusTLProcessed:     3,
				models.NcpStatusManagerApproved: 4,
			},
			byMonth: map[string]int64{"2025-01": 6, "2025-03": 4},
		}
		stats, err := newHandler(store).Stats(identity)
		require.NoError(t, err)
		require.Equal(t, int64(10), stats.Total)
		require.Equal(t, int64(4), stats.Archived)
		require.Equal(t, int64(5), stats.Open)
		require.Len(t, stats.ByStatus, len(models.NcpStatuses))
		require.Equal(t, models.NcpStatusPending, stats.ByStatus[0].Status)
		require.Equal(t, "Waiting for QA Leader", stats.ByStatus[0].StatusHuman)

		require.Len(t, stats.ByMonth, 12)
		require.Equal(t, dashboardapimodels.MonthCount{Month: "2025-01", Count: 6}, stats.ByMonth[0])
		require.Equal(t, dashboardapimodels.MonthCount{Month: "2025-02", Count: 0}, stats.ByMonth[1])
		require.Equal(t, "2025-12", stats.ByMonth[11].Month)
		require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), store.from)
		require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), store.to)
		require.Equal(t, "SKU-100", stats.TopSkus[0].Key)
		require.Equal(t, "M-07", stats.Machines[0].Key)
	})

	t.Run(`cached between calls`, func(t *testing.T) {
		store := &fakeStore{byStatus: map[models.NcpStatus]int64{}}
		handler := newHandler(store)
		_, err := handler.Stats(identity)
		require.NoError(t, err)
		_, err = handler.Stats(identity)
		require.NoError(t, err)
		require.Equal(t, 1, store.calls)
	})

	t.Run(`concurrent callers share one collection`, func(t *testing.T) {
		store := &fakeStore{byStatus: map[models.NcpStatus]int64{models.NcpStatusPending: 2}}
		handler := newHandler(store)
		wg := sync.WaitGroup{}
		results := make([]dashboardapimodels.Stats, 8)
		for n := range results {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				stats, err := handler.Stats(identity)
				require.NoError(t, err)
				results[n] = stats
			}(n)
		}
		wg.Wait()
		require.Equal(t, 1, store.calls)
		for _, stats := range results {
			require.Equal(t, int64(2), stats.Total)
		}
	})

	t.Run(`errors`, func(t *testing.T) {
		_, err := newHandler(&fakeStore{}).Stats(nil)
		require.True(t, errors.Is(err, models.ErrUnauthorized))

		store := &fakeStore{err: errors.New("connection refused")}
		handler := newHandler(store)
		_, err = handler.Stats(identity)
		require.Error(t, err)
		// failures are not cached
		_, err = handler.Stats(identity)
		require.Error(t, err)
		require.Equal(t, 2, store.calls)
	})
}
