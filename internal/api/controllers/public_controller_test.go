package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type fakePages struct {
	services.PageServiceInterface
	pages map[string]*response_models.PublicPageResponse
}

func (f fakePages) GetPublicPage(_ context.Context, slug string) (*response_models.PublicPageResponse, error) {
	page, ok := f.pages[slug]
	if !ok {
		return nil, utils.ErrPageNotFound
	}
	return page, nil
}

type fakeLinks struct {
	services.LinkServiceInterface
	links map[uuid.UUID]*db_models.Link
}

func (f fakeLinks) Resolve(_ context.Context, id uuid.UUID) (*db_models.Link, error) {
	link, ok := f.links[id]
	if !ok {
		return nil, utils.WithMessage(utils.ErrLinkNotFound, "Link não encontrado.")
	}
	return link, nil
}

type trackedEvent struct {
	kind    string
	id      uuid.UUID
	referer string
	country string
}

type fakeAnalytics struct {
	services.AnalyticsServiceInterface
	events []trackedEvent
}

func (f *fakeAnalytics) TrackView(_ context.Context, pageID uuid.UUID, referer, country string) {
	f.events = append(f.events, trackedEvent{"view", pageID, referer, country})
}

func (f *fakeAnalytics) TrackClick(_ context.Context, link *db_models.Link, referer, country string) {
	f.events = append(f.events, trackedEvent{"click", link.ID, referer, country})
}

func newPublicEngine(t *testing.T) (*gin.Engine, *fakeAnalytics, uuid.UUID, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	page := &response_models.PublicPageResponse{}
	page.ID = uuid.New()
	page.Slug = "ana"
	link := &db_models.Link{URL: "https://example.com/shop"}
	link.ID = uuid.New()

	analytics := &fakeAnalytics{}
	ctrl := NewPublicController(
		fakePages{pages: map[string]*response_models.PublicPageResponse{"ana": page}},
		fakeLinks{links: map[uuid.UUID]*db_models.Link{link.ID: link}},
		analytics,
	)

	r := gin.New()
	r.GET("/redirect/:linkId", ctrl.Redirect)
	r.GET("/:slug", ctrl.GetPublicPage)
	return r, analytics, page.ID, link.ID
}

func TestPublicPageRecordsView(t *testing.T) {
	r, analytics, pageID, _ := newPublicEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/ana", nil)
	req.Header.Set("Referer", "https://instagram.com/ana")
	req.Header.Set("CF-IPCountry", "BR")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"ana"`)
	assert.Equal(t, []trackedEvent{{"view", pageID, "https://instagram.com/ana", "BR"}}, analytics.events)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, analytics.events, 1)
}

func TestRedirectFollowsLink(t *testing.T) {
	r, analytics, _, linkID := newPublicEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/redirect/"+linkID.String(), nil)
	req.Header.Set("X-Vercel-IP-Country", "PT")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/shop", w.Header().Get("Location"))
	assert.Equal(t, []trackedEvent{{"click", linkID, "", "PT"}}, analytics.events)

	for _, path := range []string{"/redirect/not-a-uuid", "/redirect/" + uuid.NewString()} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Link não encontrado.")
	}
	assert.Len(t, analytics.events, 1)
}
