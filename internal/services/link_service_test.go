package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/pkg/utils"
)

func createLinks(t *testing.T, s pageStack, userID, pageID uuid.UUID, titles ...string) []*db_models.Link {
	t.Helper()
	out := make([]*db_models.Link, 0, len(titles))
	for _, title := range titles {
		link, err := s.links.Create(context.Background(), userID, pageID, request_models.CreateLinkRequest{
			Title: title,
			URL:   "https://" + title + ".example",
		})
		require.NoError(t, err)
		out = append(out, link)
	}
	return out
}

func TestCreateLinkAppendsInOrder(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "links")

	links := createLinks(t, s, user.ID, page.ID, "a", "b", "c")
	for i, link := range links {
		assert.Equal(t, i, link.Order)
		assert.True(t, link.IsActive)
	}
}

func TestCreateLinkScheduledInFutureStartsInactive(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "scheduled")

	later := testClock().Now().Add(time.Hour)
	link, err := s.links.Create(context.Background(), user.ID, page.ID, request_models.CreateLinkRequest{
		Title: "soon", URL: "https://soon.example", ScheduledAt: &later,
	})
	require.NoError(t, err)
	assert.False(t, link.IsActive)

	before := later.Add(-2 * time.Hour)
	_, err = s.links.Create(context.Background(), user.ID, page.ID, request_models.CreateLinkRequest{
		Title: "bad", URL: "https://bad.example", ScheduledAt: &later, ExpiresAt: &before,
	})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestReorderLinksReversesOrder(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "reorder")
	links := createLinks(t, s, user.ID, page.ID, "a", "b", "c")

	items := []request_models.ReorderItem{
		{ID: links[0].ID.String(), Order: 2},
		{ID: links[1].ID.String(), Order: 1},
		{ID: links[2].ID.String(), Order: 0},
	}
	require.NoError(t, s.links.Reorder(context.Background(), user.ID, page.ID, items))

	listed, err := s.links.ListByPage(context.Background(), user.ID, page.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{listed[0].Title, listed[1].Title, listed[2].Title})
}

func TestReorderLinksRejectsForeignItems(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "home")
	other := seedPage(t, s.db, user.ID, "elsewhere")
	own := createLinks(t, s, user.ID, page.ID, "a")
	foreign := createLinks(t, s, user.ID, other.ID, "x")

	err := s.links.Reorder(context.Background(), user.ID, page.ID, []request_models.ReorderItem{
		{ID: own[0].ID.String(), Order: 5},
		{ID: foreign[0].ID.String(), Order: 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Equal(t, "Um ou mais itens não pertencem a esta página.", err.Error())

	listed, err := s.links.ListByPage(context.Background(), user.ID, page.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, listed[0].Order)
}

func TestUpdateLinkRequiresOwnership(t *testing.T) {
	s := newPageStack(t)
	owner := seedUser(t, s.db, db_models.RoleFree)
	intruder := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, owner.ID, "owned")
	link := createLinks(t, s, owner.ID, page.ID, "a")[0]

	_, err := s.links.Update(context.Background(), intruder.ID, link.ID, request_models.LinkPatch{Title: utils.Some("stolen")})
	assert.ErrorIs(t, err, utils.ErrLinkNotFound)

	updated, err := s.links.Update(context.Background(), owner.ID, link.ID, request_models.LinkPatch{
		Title:    utils.Some("renamed"),
		IsActive: utils.Some(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.False(t, updated.IsActive)

	_, err = s.links.Update(context.Background(), owner.ID, link.ID, request_models.LinkPatch{URL: utils.Some("  ")})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestResolveFindsAnyLink(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "resolve")
	link := createLinks(t, s, user.ID, page.ID, "a")[0]

	got, err := s.links.Resolve(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", got.URL)

	require.NoError(t, s.links.Delete(context.Background(), user.ID, link.ID))
	_, err = s.links.Resolve(context.Background(), link.ID)
	assert.ErrorIs(t, err, utils.ErrLinkNotFound)
}

func TestUpdateLinkValidatesLikeCreate(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "patched")
	link := createLinks(t, s, user.ID, page.ID, "a")[0]
	ctx := context.Background()

	for _, raw := range []string{"javascript:alert(1)", "ftp://files.example/x", "/relative"} {
		_, err := s.links.Update(ctx, user.ID, link.ID, request_models.LinkPatch{URL: utils.Some(raw)})
		assert.ErrorIs(t, err, utils.ErrValidation, raw)
	}
	_, err := s.links.Create(ctx, user.ID, page.ID, request_models.CreateLinkRequest{Title: "x", URL: "javascript:alert(1)"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	now := testClock().Now()
	scheduled := now.Add(2 * time.Hour)
	_, err = s.links.Update(ctx, user.ID, link.ID, request_models.LinkPatch{
		ScheduledAt: utils.Some(scheduled),
		ExpiresAt:   utils.Some(now.Add(time.Hour)),
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	got, err := s.links.Resolve(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", got.URL)
	assert.True(t, got.IsActive)
}

func TestUpdateLinkScheduleRecomputesActive(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "window")
	link := createLinks(t, s, user.ID, page.ID, "a")[0]
	ctx := context.Background()
	now := testClock().Now()

	updated, err := s.links.Update(ctx, user.ID, link.ID, request_models.LinkPatch{ScheduledAt: utils.Some(now.Add(2 * time.Hour))})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	public, err := s.pages.GetPublicPage(ctx, "window")
	require.NoError(t, err)
	assert.Empty(t, public.Links)

	// expiry is checked against the stored schedule
	_, err = s.links.Update(ctx, user.ID, link.ID, request_models.LinkPatch{ExpiresAt: utils.Some(now.Add(time.Hour))})
	assert.ErrorIs(t, err, utils.ErrValidation)

	updated, err = s.links.Update(ctx, user.ID, link.ID, request_models.LinkPatch{ScheduledAt: utils.Null[time.Time]()})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	updated, err = s.links.Update(ctx, user.ID, link.ID, request_models.LinkPatch{
		ScheduledAt: utils.Some(now.Add(time.Hour)),
		IsActive:    utils.Some(true),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}
