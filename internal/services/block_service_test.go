package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/pkg/utils"
)

func TestBlockLifecycle(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "blocks")
	ctx := context.Background()

	header, err := s.blocks.Create(ctx, user.ID, page.ID, request_models.CreateBlockRequest{
		Type:    db_models.BlockHeader,
		Content: map[string]interface{}{"text": "Hi"},
	})
	require.NoError(t, err)
	assert.True(t, header.IsVisible)
	assert.Equal(t, 0, header.Order)

	hidden := false
	divider, err := s.blocks.Create(ctx, user.ID, page.ID, request_models.CreateBlockRequest{
		Type:      db_models.BlockDivider,
		IsVisible: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, divider.Order)

	updated, err := s.blocks.Update(ctx, user.ID, header.ID, request_models.BlockPatch{
		Content: utils.Some(map[string]interface{}{"text": "Hello"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Content["text"])

	require.NoError(t, s.blocks.Reorder(ctx, user.ID, page.ID, []request_models.ReorderItem{
		{ID: header.ID.String(), Order: 1},
		{ID: divider.ID.String(), Order: 0},
	}))
	listed, err := s.blocks.ListByPage(ctx, user.ID, page.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, db_models.BlockDivider, listed[0].Type)

	require.NoError(t, s.blocks.Delete(ctx, user.ID, divider.ID))
	assert.ErrorIs(t, s.blocks.Delete(ctx, user.ID, divider.ID), utils.ErrBlockNotFound)
}

func TestBlockRejectsUnknownType(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "typed")

	_, err := s.blocks.Create(context.Background(), user.ID, page.ID, request_models.CreateBlockRequest{Type: "CAROUSEL"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestReorderRejectsMalformedItems(t *testing.T) {
	s := newPageStack(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	page := seedPage(t, s.db, user.ID, "malformed")

	err := s.blocks.Reorder(context.Background(), user.ID, page.ID, []request_models.ReorderItem{{ID: "nope", Order: 0}})
	assert.ErrorIs(t, err, utils.ErrValidation)
}
