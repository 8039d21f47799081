package services

import (
	"context"

	"github.com/google/uuid"

	"linkbio/internal/models/request_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

// orderedStore is the slice of a page-ordered repository that reorder needs.
type orderedStore interface {
	CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error)
	Reorder(ctx context.Context, pageID uuid.UUID, items []repositories.OrderUpdate) error
}

var errForeignItems = utils.WithMessage(utils.ErrNotFound, "Um ou mais itens não pertencem a esta página.")

func parseReorder(items []request_models.ReorderItem) ([]repositories.OrderUpdate, []uuid.UUID, error) {
	updates := make([]repositories.OrderUpdate, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	distinct := make([]uuid.UUID, 0, len(items))

	for _, item := range items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, nil, utils.WithMessage(utils.ErrValidation, "ID inválido: %s", item.ID)
		}
		if item.Order < 0 {
			return nil, nil, utils.WithMessage(utils.ErrValidation, "A ordem deve ser maior ou igual a 0.")
		}
		updates = append(updates, repositories.OrderUpdate{ID: id, Order: item.Order})
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			distinct = append(distinct, id)
		}
	}
	return updates, distinct, nil
}

// reorderPage checks that every id belongs to the page before writing anything.
func reorderPage(ctx context.Context, store orderedStore, pageID uuid.UUID, items []request_models.ReorderItem) error {
	updates, ids, err := parseReorder(items)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	owned, err := store.CountInPage(ctx, pageID, ids)
	if err != nil {
		return err
	}
	if owned != int64(len(ids)) {
		return errForeignItems
	}

	if err := store.Reorder(ctx, pageID, updates); err != nil {
		if repositories.IsReorderMismatch(err) {
			return errForeignItems
		}
		return err
	}
	return nil
}
