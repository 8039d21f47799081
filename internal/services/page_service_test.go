package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/pkg/utils"
)

func TestCreatePageEnforcesPerUserLimit(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	ctx := context.Background()

	for i := 0; i < MaxPagesPerUser; i++ {
		_, err := s.pages.CreatePage(ctx, callerOf(user), request_models.CreatePageRequest{Slug: fmt.Sprintf("page-%d", i)})
		require.NoError(t, err)
	}

	_, err := s.pages.CreatePage(ctx, callerOf(user), request_models.CreatePageRequest{Slug: "one-too-many"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrLimitReached))
	assert.Equal(t, "Limite máximo de 5 páginas atingido.", err.Error())
}

func TestCreatePageRejectsTakenSlug(t *testing.T) {
	s := newPageStack(t)
	owner := seedUser(t, s.db, db_models.RoleFree)
	other := seedUser(t, s.db, db_models.RoleFree)
	seedPage(t, s.db, owner.ID, "taken")

	_, err := s.pages.CreatePage(context.Background(), callerOf(other), request_models.CreatePageRequest{Slug: "taken"})
	assert.ErrorIs(t, err, utils.ErrSlugTaken)
}

func TestCreatePageValidatesSlug(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)

	for _, slug := range []string{"ab", "Upper", "has space", "under_score"} {
		_, err := s.pages.CreatePage(context.Background(), callerOf(user), request_models.CreatePageRequest{Slug: slug})
		assert.ErrorIs(t, err, utils.ErrValidation, slug)
	}
}

func TestGetOrCreateMyPageCreatesOnce(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	ctx := context.Background()

	first, err := s.pages.GetOrCreateMyPage(ctx, callerOf(user))
	require.NoError(t, err)
	assert.Regexp(t, `^ana-[a-z0-9]{4}$`, first.Slug)
	assert.Equal(t, "Ana's Page", first.Title)
	assert.NotNil(t, first.Links)

	second, err := s.pages.GetOrCreateMyPage(ctx, callerOf(user))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpdatePageAppliesPatchSemantics(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "patch-me")
	ctx := context.Background()

	updated, err := s.pages.UpdatePage(ctx, user.ID, page.ID, request_models.PagePatch{
		Bio:       utils.Some("hello"),
		TextColor: utils.Some("#fff"),
		LinkStyle: utils.Some("brutalist"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "hello", *updated.Bio)
	assert.Equal(t, "brutalist", updated.LinkStyle)

	updated, err = s.pages.UpdatePage(ctx, user.ID, page.ID, request_models.PagePatch{
		Bio: utils.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Bio)
	require.NotNil(t, updated.TextColor)
	assert.Equal(t, "#fff", *updated.TextColor)
}

func TestUpdatePageRejectsInvalidFields(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "strict")

	cases := map[string]request_models.PagePatch{
		"bad color":      {TextColor: utils.Some("red")},
		"bad enum":       {LayoutType: utils.Some("carousel")},
		"null theme":     {Theme: utils.Null[string]()},
		"opacity":        {ProfileCardOpacity: utils.Some(1.5)},
		"too many rings": {ProfileRingColors: utils.Some([]string{"#000", "#111", "#222", "#333"})},
		"null slug":      {Slug: utils.Null[string]()},
	}
	for name, patch := range cases {
		_, err := s.pages.UpdatePage(context.Background(), user.ID, page.ID, patch)
		assert.ErrorIs(t, err, utils.ErrValidation, name)
	}
}

func TestUpdatePageOfAnotherUserIsNotFound(t *testing.T) {
	s := newPageStack(t)
	owner := seedUser(t, s.db, db_models.RoleFree)
	intruder := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, owner.ID, "mine")

	_, err := s.pages.UpdatePage(context.Background(), intruder.ID, page.ID, request_models.PagePatch{Bio: utils.Some("x")})
	assert.ErrorIs(t, err, utils.ErrPageNotFound)

	err = s.pages.DeletePage(context.Background(), intruder.ID, page.ID)
	assert.ErrorIs(t, err, utils.ErrPageNotFound)
}

func TestGetPublicPageHidesInactiveContent(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "public")

	require.NoError(t, s.db.Create(&db_models.Link{PageID: page.ID, Title: "on", URL: "https://on.example", IsActive: true}).Error)
	require.NoError(t, s.db.Create(&db_models.Link{PageID: page.ID, Title: "off", URL: "https://off.example", Order: 1}).Error)
	require.NoError(t, s.db.Create(&db_models.Block{PageID: page.ID, Type: db_models.BlockText, IsVisible: false}).Error)

	res, err := s.pages.GetPublicPage(context.Background(), "public")
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, "on", res.Links[0].Title)
	assert.Empty(t, res.Blocks)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Nil(t, res.Page.User)

	_, err = s.pages.GetPublicPage(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrPageNotFound)
}

func TestListMyPagesPaginates(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	for i := 0; i < 3; i++ {
		seedPage(t, s.db, user.ID, fmt.Sprintf("list-%d", i))
	}
	seedPage(t, s.db, seedUser(t, s.db, db_models.RoleFree).ID, "someone-else")

	res, err := s.pages.ListMyPages(context.Background(), user.ID, 1, 2, "")
	require.NoError(t, err)
	assert.Len(t, res.Pages, 2)
	assert.EqualValues(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages)

	_, err = s.pages.RequireOwned(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, utils.ErrPageNotFound)
}
