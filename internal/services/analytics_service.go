package services

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/models/db_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	"linkbio/pkg/logger"
	"linkbio/pkg/metrics"
	"linkbio/pkg/utils"
)

const (
	eventPageView  = "page_view"
	eventLinkClick = "link_click"

	topAnalyticsRows   = 5
	recordEventTimeout = 5 * time.Second
)

var analyticsPeriods = map[string]int{"7d": 7, "30d": 30, "90d": 90, "all": 0}

type AnalyticsServiceInterface interface {
	// TrackView and TrackClick queue an event and never block; a full queue drops it.
	TrackView(ctx context.Context, pageID uuid.UUID, referer, country string)
	TrackClick(ctx context.Context, link *db_models.Link, referer, country string)
	GetForUser(ctx context.Context, userID uuid.UUID, period string, pageID *uuid.UUID) (*response_models.AnalyticsResponse, error)
}

type analyticsEvent struct {
	kind  string
	view  *db_models.PageView
	click *db_models.LinkClick
}

type AnalyticsService struct {
	events   repositories.AnalyticsRepository
	pageRepo repositories.PageRepository
	pages    PageServiceInterface
	clock    clock.Clock
	log      *zap.Logger

	workers int
	queue   chan analyticsEvent
	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAnalyticsService wires the event workers into the app lifecycle.
func NewAnalyticsService(
	lc fx.Lifecycle,
	events repositories.AnalyticsRepository,
	pageRepo repositories.PageRepository,
	pages PageServiceInterface,
	cfg config.Config,
	clk clock.Clock,
	log *zap.Logger,
) AnalyticsServiceInterface {
	s := newAnalyticsService(events, pageRepo, pages, cfg.AnalyticsQueueSize, cfg.AnalyticsWorkers, clk, log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
	return s
}

func newAnalyticsService(
	events repositories.AnalyticsRepository,
	pageRepo repositories.PageRepository,
	pages PageServiceInterface,
	queueSize, workers int,
	clk clock.Clock,
	log *zap.Logger,
) *AnalyticsService {
	if workers < 1 {
		workers = 1
	}
	return &AnalyticsService{
		events:   events,
		pageRepo: pageRepo,
		pages:    pages,
		clock:    clk,
		log:      log,
		workers:  workers,
		queue:    make(chan analyticsEvent, queueSize),
	}
}

func (s *AnalyticsService) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.work()
	}
	s.log.Info("analytics workers started", zap.Int("workers", s.workers), zap.Int("queue_size", cap(s.queue)))
}

// Stop closes the queue and waits for workers to drain it or for ctx to end.
func (s *AnalyticsService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.queue)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.log.Warn("analytics drain interrupted", zap.Int("pending", len(s.queue)))
		return ctx.Err()
	}
}

func (s *AnalyticsService) work() {
	defer s.wg.Done()
	for ev := range s.queue {
		s.record(ev)
	}
}

func (s *AnalyticsService) record(ev analyticsEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), recordEventTimeout)
	defer cancel()

	var err error
	switch ev.kind {
	case eventPageView:
		err = s.events.RecordPageView(ctx, ev.view)
	case eventLinkClick:
		err = s.events.RecordLinkClick(ctx, ev.click)
	}
	if err != nil {
		metrics.RecordAnalyticsEvent(ev.kind, "failed")
		s.log.Error("analytics event not recorded", zap.String("kind", ev.kind), zap.Error(err))
		return
	}
	metrics.RecordAnalyticsEvent(ev.kind, "recorded")
}

func (s *AnalyticsService) enqueue(ctx context.Context, ev analyticsEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.stopped {
		select {
		case s.queue <- ev:
			return
		default:
		}
	}
	metrics.RecordAnalyticsEvent(ev.kind, "dropped")
	logger.WithContext(ctx, s.log).Warn("analytics event dropped", zap.String("kind", ev.kind))
}

func (s *AnalyticsService) TrackView(ctx context.Context, pageID uuid.UUID, referer, country string) {
	s.enqueue(ctx, analyticsEvent{
		kind: eventPageView,
		view: &db_models.PageView{
			PageID:    pageID,
			Referrer:  referrerHost(referer),
			Country:   countryOrUnknown(country),
			CreatedAt: s.clock.Now(),
		},
	})
}

func (s *AnalyticsService) TrackClick(ctx context.Context, link *db_models.Link, referer, country string) {
	s.enqueue(ctx, analyticsEvent{
		kind: eventLinkClick,
		click: &db_models.LinkClick{
			LinkID:    link.ID,
			PageID:    link.PageID,
			Referrer:  referrerHost(referer),
			Country:   countryOrUnknown(country),
			CreatedAt: s.clock.Now(),
		},
	})
}

func referrerHost(raw string) string {
	if raw == "" {
		return "direct"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "direct"
	}
	return strings.ToLower(u.Hostname())
}

func countryOrUnknown(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" || c == "XX" {
		return "Unknown"
	}
	return c
}

func (s *AnalyticsService) GetForUser(ctx context.Context, userID uuid.UUID, period string, pageID *uuid.UUID) (*response_models.AnalyticsResponse, error) {
	if period == "" {
		period = "30d"
	}
	days, ok := analyticsPeriods[period]
	if !ok {
		return nil, utils.WithMessage(utils.ErrValidation, "Período inválido. Use 7d, 30d, 90d ou all.")
	}
	var since *time.Time
	if days > 0 {
		t := s.clock.Now().AddDate(0, 0, -days)
		since = &t
	}

	pageIDs, err := s.scope(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	out := &response_models.AnalyticsResponse{Period: period}
	if out.TotalViews, err = s.events.CountViews(ctx, pageIDs, since); err != nil {
		return nil, dbFailure(ctx, s.log, "count views", err)
	}
	if out.TotalClicks, err = s.events.CountClicks(ctx, pageIDs, since); err != nil {
		return nil, dbFailure(ctx, s.log, "count clicks", err)
	}
	if out.TotalViews > 0 {
		out.ClickThroughRate = float64(out.TotalClicks) / float64(out.TotalViews) * 100
	}

	viewDays, err := s.events.ViewsByDay(ctx, pageIDs, since)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "views by day", err)
	}
	clickDays, err := s.events.ClicksByDay(ctx, pageIDs, since)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "clicks by day", err)
	}
	out.ViewsOverTime = make([]response_models.DailyViews, 0, len(viewDays))
	for _, d := range viewDays {
		out.ViewsOverTime = append(out.ViewsOverTime, response_models.DailyViews{Date: d.Day, Views: d.Count})
	}
	out.ClicksOverTime = make([]response_models.DailyClicks, 0, len(clickDays))
	for _, d := range clickDays {
		out.ClicksOverTime = append(out.ClicksOverTime, response_models.DailyClicks{Date: d.Day, Clicks: d.Count})
	}

	links, err := s.events.TopLinks(ctx, pageIDs, since, topAnalyticsRows)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "top links", err)
	}
	out.TopLinks = make([]response_models.TopLink, 0, len(links))
	for _, l := range links {
		out.TopLinks = append(out.TopLinks, response_models.TopLink{ID: l.ID.String(), Title: l.Title, URL: l.URL, Clicks: l.Clicks})
	}

	referrers, err := s.events.TopReferrers(ctx, pageIDs, since, topAnalyticsRows)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "top referrers", err)
	}
	out.TopReferrers = make([]response_models.TopReferrer, 0, len(referrers))
	for _, r := range referrers {
		out.TopReferrers = append(out.TopReferrers, response_models.TopReferrer{Source: r.Label, Views: r.Count})
	}

	countries, err := s.events.TopCountries(ctx, pageIDs, since, topAnalyticsRows)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "top countries", err)
	}
	out.TopCountries = make([]response_models.TopCountry, 0, len(countries))
	for _, c := range countries {
		out.TopCountries = append(out.TopCountries, response_models.TopCountry{Country: c.Label, Views: c.Count})
	}
	return out, nil
}

// scope returns the pages the report covers: one owned page, or all of the user's pages.
func (s *AnalyticsService) scope(ctx context.Context, userID uuid.UUID, pageID *uuid.UUID) ([]uuid.UUID, error) {
	if pageID != nil {
		if _, err := s.pages.RequireOwned(ctx, userID, *pageID); err != nil {
			return nil, err
		}
		return []uuid.UUID{*pageID}, nil
	}
	ids, err := s.pageRepo.ListIDsByUser(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list page ids", err)
	}
	if len(ids) == 0 {
		return nil, utils.WithMessage(utils.ErrPageNotFound, "Página não encontrada para este usuário.")
	}
	return ids, nil
}
