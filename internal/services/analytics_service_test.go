package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/models/db_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

// memoryEvents keeps analytics rows in memory and answers the report queries naively.
type memoryEvents struct {
	mu     sync.Mutex
	views  []db_models.PageView
	clicks []db_models.LinkClick
	since  *time.Time
}

func (m *memoryEvents) RecordPageView(_ context.Context, v *db_models.PageView) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, *v)
	return nil
}

func (m *memoryEvents) RecordLinkClick(_ context.Context, c *db_models.LinkClick) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, *c)
	return nil
}

func (m *memoryEvents) CountViews(_ context.Context, _ []uuid.UUID, since *time.Time) (int64, error) {
	m.since = since
	return int64(len(m.views)), nil
}

func (m *memoryEvents) CountClicks(context.Context, []uuid.UUID, *time.Time) (int64, error) {
	return int64(len(m.clicks)), nil
}

func (m *memoryEvents) ViewsByDay(context.Context, []uuid.UUID, *time.Time) ([]repositories.DayCountRow, error) {
	times := make([]time.Time, 0, len(m.views))
	for _, v := range m.views {
		times = append(times, v.CreatedAt)
	}
	return countByDay(times), nil
}

func (m *memoryEvents) ClicksByDay(context.Context, []uuid.UUID, *time.Time) ([]repositories.DayCountRow, error) {
	times := make([]time.Time, 0, len(m.clicks))
	for _, c := range m.clicks {
		times = append(times, c.CreatedAt)
	}
	return countByDay(times), nil
}

// countByDay buckets ascending timestamps into UTC days.
func countByDay(times []time.Time) []repositories.DayCountRow {
	var out []repositories.DayCountRow
	for _, t := range times {
		day := t.UTC().Format("2006-01-02")
		if n := len(out); n > 0 && out[n-1].Day == day {
			out[n-1].Count++
			continue
		}
		out = append(out, repositories.DayCountRow{Day: day, Count: 1})
	}
	return out
}

func (m *memoryEvents) TopLinks(context.Context, []uuid.UUID, *time.Time, int) ([]repositories.TopLinkRow, error) {
	return []repositories.TopLinkRow{{ID: uuid.New(), Title: "Site", URL: "https://site.example", Clicks: 1}}, nil
}

func (m *memoryEvents) TopReferrers(context.Context, []uuid.UUID, *time.Time, int) ([]repositories.GroupCountRow, error) {
	return []repositories.GroupCountRow{{Label: "direct", Count: 3}}, nil
}

func (m *memoryEvents) TopCountries(context.Context, []uuid.UUID, *time.Time, int) ([]repositories.GroupCountRow, error) {
	return []repositories.GroupCountRow{{Label: "BR", Count: 3}}, nil
}

func (m *memoryEvents) recorded() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views), len(m.clicks)
}

func newTestAnalytics(t *testing.T, queueSize int) (*AnalyticsService, *memoryEvents, pageStack) {
	t.Helper()
	s := newPageStack(t)
	events := &memoryEvents{}
	svc := newAnalyticsService(events, repositories.NewPageRepository(s.db), s.pages, queueSize, 2, testClock(), zap.NewNop())
	return svc, events, s
}

func TestTrackEventsAreRecordedByWorkers(t *testing.T) {
	svc, events, _ := newTestAnalytics(t, 16)
	svc.Start()

	pageID := uuid.New()
	svc.TrackView(context.Background(), pageID, "https://Twitter.com/some/post", "br")
	svc.TrackClick(context.Background(), &db_models.Link{BaseModel: db_models.BaseModel{ID: uuid.New()}, PageID: pageID}, "", "")

	require.NoError(t, svc.Stop(context.Background()))
	views, clicks := events.recorded()
	assert.Equal(t, 1, views)
	assert.Equal(t, 1, clicks)
	assert.Equal(t, "twitter.com", events.views[0].Referrer)
	assert.Equal(t, "BR", events.views[0].Country)
	assert.Equal(t, "direct", events.clicks[0].Referrer)
	assert.Equal(t, "Unknown", events.clicks[0].Country)
	assert.Equal(t, pageID, events.clicks[0].PageID)
}

func TestTrackDropsWhenQueueIsFull(t *testing.T) {
	svc, events, _ := newTestAnalytics(t, 0)

	done := make(chan struct{})
	go func() {
		svc.TrackView(context.Background(), uuid.New(), "", "")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TrackView blocked on a full queue")
	}

	svc.Start()
	require.NoError(t, svc.Stop(context.Background()))
	views, _ := events.recorded()
	assert.Zero(t, views)
}

func TestTrackAfterStopIsDropped(t *testing.T) {
	svc, events, _ := newTestAnalytics(t, 4)
	svc.Start()
	require.NoError(t, svc.Stop(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))

	svc.TrackView(context.Background(), uuid.New(), "", "")
	views, _ := events.recorded()
	assert.Zero(t, views)
}

func TestGetForUserBuildsReport(t *testing.T) {
	svc, events, s := newTestAnalytics(t, 4)
	user := seedUser(t, s.db, db_models.RoleFree)
	seedPage(t, s.db, user.ID, "stats")

	day1 := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 30, 0, 0, time.UTC)
	events.views = []db_models.PageView{{CreatedAt: day1}, {CreatedAt: day1.Add(time.Minute)}, {CreatedAt: day2}, {CreatedAt: day2}}
	events.clicks = []db_models.LinkClick{{CreatedAt: day2}}

	res, err := svc.GetForUser(context.Background(), user.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "30d", res.Period)
	assert.EqualValues(t, 4, res.TotalViews)
	assert.EqualValues(t, 1, res.TotalClicks)
	assert.InDelta(t, 25.0, res.ClickThroughRate, 0.001)
	require.Len(t, res.ViewsOverTime, 2)
	assert.Equal(t, "2025-03-01", res.ViewsOverTime[0].Date)
	assert.EqualValues(t, 2, res.ViewsOverTime[1].Views)
	require.Len(t, res.ClicksOverTime, 1)
	assert.Len(t, res.TopLinks, 1)
	assert.Equal(t, "direct", res.TopReferrers[0].Source)
	assert.Equal(t, "BR", res.TopCountries[0].Country)

	require.NotNil(t, events.since)
	assert.Equal(t, testClock().Now().AddDate(0, 0, -30), *events.since)

	_, err = svc.GetForUser(context.Background(), user.ID, "all", nil)
	require.NoError(t, err)
	assert.Nil(t, events.since)
}

func TestGetForUserErrors(t *testing.T) {
	svc, _, s := newTestAnalytics(t, 4)
	user := seedUser(t, s.db, db_models.RoleFree)

	_, err := svc.GetForUser(context.Background(), user.ID, "1y", nil)
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.GetForUser(context.Background(), user.ID, "7d", nil)
	assert.ErrorIs(t, err, utils.ErrPageNotFound)
	assert.Equal(t, "Página não encontrada para este usuário.", err.Error())

	foreign := seedPage(t, s.db, seedUser(t, s.db, db_models.RoleFree).ID, "foreign").ID
	_, err = svc.GetForUser(context.Background(), user.ID, "7d", &foreign)
	assert.ErrorIs(t, err, utils.ErrPageNotFound)
}

func TestReferrerHost(t *testing.T) {
	assert.Equal(t, "direct", referrerHost(""))
	assert.Equal(t, "direct", referrerHost("not a url"))
	assert.Equal(t, "instagram.com", referrerHost("https://INSTAGRAM.com/p/1?x=y"))
	assert.Equal(t, "Unknown", countryOrUnknown("XX"))
	assert.Equal(t, "PT", countryOrUnknown(" pt "))
}
