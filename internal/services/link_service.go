package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	"linkbio/pkg/utils"
)

type LinkServiceInterface interface {
	Create(ctx context.Context, userID, pageID uuid.UUID, req request_models.CreateLinkRequest) (*db_models.Link, error)
	ListByPage(ctx context.Context, userID, pageID uuid.UUID) ([]db_models.Link, error)
	Update(ctx context.Context, userID, linkID uuid.UUID, patch request_models.LinkPatch) (*db_models.Link, error)
	Delete(ctx context.Context, userID, linkID uuid.UUID) error
	Reorder(ctx context.Context, userID, pageID uuid.UUID, items []request_models.ReorderItem) error
	// Resolve returns the link behind a public redirect.
	Resolve(ctx context.Context, linkID uuid.UUID) (*db_models.Link, error)
}

type LinkService struct {
	links repositories.LinkRepository
	pages PageServiceInterface
	clock clock.Clock
	log   *zap.Logger
}

func NewLinkService(links repositories.LinkRepository, pages PageServiceInterface, clk clock.Clock, log *zap.Logger) LinkServiceInterface {
	return &LinkService{links: links, pages: pages, clock: clk, log: log}
}

func (s *LinkService) Create(ctx context.Context, userID, pageID uuid.UUID, req request_models.CreateLinkRequest) (*db_models.Link, error) {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}
	if !validURL(req.URL) {
		return nil, utils.WithMessage(utils.ErrValidation, "O campo url deve ser uma URL válida.")
	}
	if err := checkWindow(req.ScheduledAt, req.ExpiresAt); err != nil {
		return nil, err
	}

	max, err := s.links.MaxOrder(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "max link order", err)
	}

	link := &db_models.Link{
		PageID:      pageID,
		Title:       strings.TrimSpace(req.Title),
		URL:         strings.TrimSpace(req.URL),
		Order:       max + 1,
		IsActive:    req.ScheduledAt == nil || !req.ScheduledAt.After(s.clock.Now()),
		ScheduledAt: req.ScheduledAt,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, dbFailure(ctx, s.log, "create link", err)
	}
	return link, nil
}

func (s *LinkService) ListByPage(ctx context.Context, userID, pageID uuid.UUID) ([]db_models.Link, error) {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}
	links, err := s.links.ListByPage(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list links", err)
	}
	return links, nil
}

func (s *LinkService) owned(ctx context.Context, userID, linkID uuid.UUID) (*db_models.Link, error) {
	link, err := s.links.FindOwned(ctx, linkID, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find link", err)
	}
	if link == nil {
		return nil, utils.ErrLinkNotFound
	}
	return link, nil
}

func (s *LinkService) Update(ctx context.Context, userID, linkID uuid.UUID, patch request_models.LinkPatch) (*db_models.Link, error) {
	if err := firstError(
		requireText(patch.Title, "title"),
		requireText(patch.URL, "url"),
		checkURL(patch.URL, "url"),
		requireValue(patch.IsActive, "isActive"),
	); err != nil {
		return nil, err
	}

	link, err := s.owned(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	scheduledAt := patch.ScheduledAt.Merge(link.ScheduledAt)
	expiresAt := patch.ExpiresAt.Merge(link.ExpiresAt)
	if err := checkWindow(scheduledAt, expiresAt); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	patch.Title.Apply(updates, "title")
	patch.URL.Apply(updates, "url")
	patch.IsActive.Apply(updates, "is_active")
	patch.ScheduledAt.Apply(updates, "scheduled_at")
	patch.ExpiresAt.Apply(updates, "expires_at")
	if !patch.IsActive.Set && (patch.ScheduledAt.Set || patch.ExpiresAt.Set) {
		updates["is_active"] = inWindow(scheduledAt, expiresAt, s.clock.Now())
	}

	if err := s.links.Update(ctx, link.ID, link.PageID, updates); err != nil {
		return nil, dbFailure(ctx, s.log, "update link", err)
	}
	return s.owned(ctx, userID, linkID)
}

func (s *LinkService) Delete(ctx context.Context, userID, linkID uuid.UUID) error {
	link, err := s.owned(ctx, userID, linkID)
	if err != nil {
		return err
	}
	if _, err := s.links.Delete(ctx, link.ID, link.PageID); err != nil {
		return dbFailure(ctx, s.log, "delete link", err)
	}
	return nil
}

func (s *LinkService) Reorder(ctx context.Context, userID, pageID uuid.UUID, items []request_models.ReorderItem) error {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return err
	}
	err := reorderPage(ctx, s.links, pageID, items)
	if err != nil && !errors.Is(err, utils.ErrNotFound) && !errors.Is(err, utils.ErrValidation) {
		return dbFailure(ctx, s.log, "reorder links", err)
	}
	return err
}

func (s *LinkService) Resolve(ctx context.Context, linkID uuid.UUID) (*db_models.Link, error) {
	link, err := s.links.FindByID(ctx, linkID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find link", err)
	}
	if link == nil {
		return nil, utils.WithMessage(utils.ErrLinkNotFound, "Link não encontrado.")
	}
	return link, nil
}

func checkWindow(scheduledAt, expiresAt *time.Time) error {
	if scheduledAt != nil && expiresAt != nil && !expiresAt.After(*scheduledAt) {
		return utils.WithMessage(utils.ErrValidation, "A data de expiração deve ser posterior ao agendamento.")
	}
	return nil
}

// inWindow mirrors the sweeper: started (or unscheduled) and not yet expired.
func inWindow(scheduledAt, expiresAt *time.Time, now time.Time) bool {
	return (scheduledAt == nil || !scheduledAt.After(now)) && (expiresAt == nil || expiresAt.After(now))
}
