package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

const (
	freeAudioLimit    = 1
	premiumAudioLimit = 4
)

type AudioServiceInterface interface {
	Create(ctx context.Context, userID, pageID uuid.UUID, req request_models.CreateAudioRequest) (*db_models.Audio, error)
	ListByPage(ctx context.Context, userID, pageID uuid.UUID) ([]db_models.Audio, error)
	Update(ctx context.Context, userID, audioID uuid.UUID, patch request_models.AudioPatch) (*db_models.Audio, error)
	Delete(ctx context.Context, userID, audioID uuid.UUID) error
	Reorder(ctx context.Context, userID, pageID uuid.UUID, items []request_models.ReorderItem) error
	SetActive(ctx context.Context, userID, audioID uuid.UUID) (*db_models.Audio, error)
}

type AudioService struct {
	audios repositories.AudioRepository
	users  repositories.UserRepository
	pages  PageServiceInterface
	log    *zap.Logger
}

func NewAudioService(
	audios repositories.AudioRepository,
	users repositories.UserRepository,
	pages PageServiceInterface,
	log *zap.Logger,
) AudioServiceInterface {
	return &AudioService{audios: audios, users: users, pages: pages, log: log}
}

// audioLimit reads the role from the store so an upgrade applies before the token is reissued.
func (s *AudioService) audioLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, dbFailure(ctx, s.log, "find user", err)
	}
	if user == nil {
		return 0, utils.ErrUserNotFound
	}
	if user.IsPremium() {
		return premiumAudioLimit, nil
	}
	return freeAudioLimit, nil
}

func (s *AudioService) Create(ctx context.Context, userID, pageID uuid.UUID, req request_models.CreateAudioRequest) (*db_models.Audio, error) {
	if !validURL(req.URL) || (req.CoverURL != nil && !validURL(*req.CoverURL)) {
		return nil, utils.WithMessage(utils.ErrValidation, "O campo url deve ser uma URL válida.")
	}
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}

	limit, err := s.audioLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.audios.CountByPage(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "count audios", err)
	}
	if count >= int64(limit) {
		return nil, utils.WithMessage(utils.ErrLimitReached, "Limite de %d áudio(s) atingido.", limit)
	}

	max, err := s.audios.MaxOrder(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "max audio order", err)
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = db_models.AudioSourceUpload
	}
	audio := &db_models.Audio{
		PageID:     pageID,
		Title:      strings.TrimSpace(req.Title),
		URL:        strings.TrimSpace(req.URL),
		SourceType: sourceType,
		CoverURL:   req.CoverURL,
		Order:      max + 1,
		IsActive:   count == 0,
	}
	if err := s.audios.Create(ctx, audio); err != nil {
		return nil, dbFailure(ctx, s.log, "create audio", err)
	}
	return audio, nil
}

func (s *AudioService) ListByPage(ctx context.Context, userID, pageID uuid.UUID) ([]db_models.Audio, error) {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}
	audios, err := s.audios.ListByPage(ctx, pageID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list audios", err)
	}
	return audios, nil
}

func (s *AudioService) owned(ctx context.Context, userID, audioID uuid.UUID) (*db_models.Audio, error) {
	audio, err := s.audios.FindOwned(ctx, audioID, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find audio", err)
	}
	if audio == nil {
		return nil, utils.ErrAudioNotFound
	}
	return audio, nil
}

func (s *AudioService) Update(ctx context.Context, userID, audioID uuid.UUID, patch request_models.AudioPatch) (*db_models.Audio, error) {
	if err := firstError(
		requireText(patch.Title, "title"),
		requireText(patch.URL, "url"),
		checkURL(patch.URL, "url"),
		checkURL(patch.CoverURL, "coverUrl"),
	); err != nil {
		return nil, err
	}
	if patch.Title.HasValue() && len(patch.Title.Value) > 100 {
		return nil, utils.WithMessage(utils.ErrValidation, "O título deve ter no máximo 100 caracteres.")
	}

	audio, err := s.owned(ctx, userID, audioID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	patch.Title.Apply(updates, "title")
	patch.URL.Apply(updates, "url")
	patch.CoverURL.Apply(updates, "cover_url")

	if err := s.audios.Update(ctx, audio.ID, audio.PageID, updates); err != nil {
		return nil, dbFailure(ctx, s.log, "update audio", err)
	}
	return s.owned(ctx, userID, audioID)
}

func (s *AudioService) Delete(ctx context.Context, userID, audioID uuid.UUID) error {
	audio, err := s.owned(ctx, userID, audioID)
	if err != nil {
		return err
	}
	if _, err := s.audios.Delete(ctx, audio.ID, audio.PageID); err != nil {
		return dbFailure(ctx, s.log, "delete audio", err)
	}
	return nil
}

func (s *AudioService) Reorder(ctx context.Context, userID, pageID uuid.UUID, items []request_models.ReorderItem) error {
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return err
	}
	err := reorderPage(ctx, s.audios, pageID, items)
	if err != nil && !errors.Is(err, utils.ErrNotFound) && !errors.Is(err, utils.ErrValidation) {
		return dbFailure(ctx, s.log, "reorder audios", err)
	}
	return err
}

func (s *AudioService) SetActive(ctx context.Context, userID, audioID uuid.UUID) (*db_models.Audio, error) {
	audio, err := s.owned(ctx, userID, audioID)
	if err != nil {
		return nil, err
	}
	if err := s.audios.SetActive(ctx, audio.ID, audio.PageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrAudioNotFound
		}
		return nil, dbFailure(ctx, s.log, "activate audio", err)
	}
	audio.IsActive = true
	return audio, nil
}
