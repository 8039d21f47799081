package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

type BlockServiceInterface interface {
	Create(ctx context.Context, userID, pageID uuid.UUID, req request_models.CreateBlockRequest) (*db_models.Block, error)
	ListByPage(ctx context.Context, userID, pageID uuid.UUID) ([]db_models.Block, error)
	Update(ctx context.Context, userID, blockID uuid.UUID, patch request_models.BlockPatch) (*db_models.Block, error)
	Delete(ctx context.Context, userID, blockID uuid.UUID) error
	Reorder(ctx context.Context, userID, pageID uuid.UUID, items []request_models.ReorderItem) error
}

type BlockService struct {
	blocks repositories.BlockRepository
	pages  PageServiceInterface
	log    *zap.Logger
}

func NewBlockService(blocks repositories.BlockRepository, pages PageServiceInterface, log *zap.Logger) BlockServiceInterface {
	return &BlockService{blocks: blocks, pages: pages, log: log}
}

func checkBlockType(t string) error {
	for _, known := range db_models.BlockTypes {
		if t == known {
			return nil
		}
	}
	return utils.WithMessage(utils.ErrValidation, "Tipo de bloco inválido: %s", t)
}

func (s *BlockService) Create(ctx context.Context, userID, pageID uuid.UUID, req request_models.CreateBlockRequest) (*db_models.Block, error) {
	if err := checkBlockType(req.Type); err != nil {
		return nil, err
	}
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}

	max, err := s.blocks.MaxOrder(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "max block order", err)
	}

	content := datatypes.JSONMap{}
	for k, v := range req.Content {
		content[k] = v
	}
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	block := &db_models.Block{
		PageID:    pageID,
		Type:      req.Type,
		Content:   content,
		IsVisible: visible,
		Order:     max + 1,
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, dbFailure(ctx, s.log, "create block", err)
	}
	return block, nil
}

func (s *BlockService) ListByPage(ctx context.Context, userID, pageID uuid.UUID) ([]db_models.Block, error) {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}
	blocks, err := s.blocks.ListByPage(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list blocks", err)
	}
	return blocks, nil
}

func (s *BlockService) owned(ctx context.Context, userID, blockID uuid.UUID) (*db_models.Block, error) {
	block, err := s.blocks.FindOwned(ctx, blockID, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find block", err)
	}
	if block == nil {
		return nil, utils.ErrBlockNotFound
	}
	return block, nil
}

func (s *BlockService) Update(ctx context.Context, userID, blockID uuid.UUID, patch request_models.BlockPatch) (*db_models.Block, error) {
	if err := firstError(requireValue(patch.Type, "type"), requireValue(patch.IsVisible, "isVisible")); err != nil {
		return nil, err
	}
	if patch.Type.HasValue() {
		if err := checkBlockType(patch.Type.Value); err != nil {
			return nil, err
		}
	}

	block, err := s.owned(ctx, userID, blockID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	patch.Type.Apply(updates, "type")
	patch.IsVisible.Apply(updates, "is_visible")
	if patch.Content.Set {
		content := datatypes.JSONMap{}
		for k, v := range patch.Content.Value {
			content[k] = v
		}
		updates["content"] = content
	}

	if err := s.blocks.Update(ctx, block.ID, block.PageID, updates); err != nil {
		return nil, dbFailure(ctx, s.log, "update block", err)
	}
	return s.owned(ctx, userID, blockID)
}

func (s *BlockService) Delete(ctx context.Context, userID, blockID uuid.UUID) error {
	block, err := s.owned(ctx, userID, blockID)
	if err != nil {
		return err
	}
	if _, err := s.blocks.Delete(ctx, block.ID, block.PageID); err != nil {
		return dbFailure(ctx, s.log, "delete block", err)
	}
	return nil
}

func (s *BlockService) Reorder(ctx context.Context, userID, pageID uuid.UUID, items []request_models.ReorderItem) error {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return err
	}
	err := reorderPage(ctx, s.blocks, pageID, items)
	if err != nil && !errors.Is(err, utils.ErrNotFound) && !errors.Is(err, utils.ErrValidation) {
		return dbFailure(ctx, s.log, "reorder blocks", err)
	}
	return err
}
