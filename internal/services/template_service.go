package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

const (
	templatePageSize   = 12
	recentTemplates    = 12
	popularTagsLimit   = 10
	maxTemplateTags    = 5
	templateNameMinLen = 3
	templateNameMaxLen = 50
)

type TemplateServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, req request_models.CreateTemplateRequest) (*response_models.TemplateResponse, error)
	ListPublic(ctx context.Context, viewerID uuid.UUID, q request_models.ListTemplatesQuery) (*response_models.TemplateListResponse, error)
	GetByID(ctx context.Context, viewerID, templateID uuid.UUID) (*response_models.TemplateResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]response_models.TemplateResponse, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]response_models.TemplateResponse, error)
	ListRecent(ctx context.Context, viewerID uuid.UUID) ([]response_models.TemplateResponse, error)
	PopularTags(ctx context.Context) ([]response_models.TagUsage, error)
	// Apply overwrites the page with the fields captured in the template.
	Apply(ctx context.Context, userID, templateID, pageID uuid.UUID) (*db_models.Page, error)
	Favorite(ctx context.Context, userID, templateID uuid.UUID) error
	Unfavorite(ctx context.Context, userID, templateID uuid.UUID) error
	Delete(ctx context.Context, userID, templateID uuid.UUID) error
}

type TemplateService struct {
	templates repositories.TemplateRepository
	tags      repositories.TagRepositoryInterface
	pageRepo  repositories.PageRepository
	pages     PageServiceInterface
	log       *zap.Logger
}

func NewTemplateService(
	templates repositories.TemplateRepository,
	tags repositories.TagRepositoryInterface,
	pageRepo repositories.PageRepository,
	pages PageServiceInterface,
	log *zap.Logger,
) TemplateServiceInterface {
	return &TemplateService{templates: templates, tags: tags, pageRepo: pageRepo, pages: pages, log: log}
}

func (s *TemplateService) Create(ctx context.Context, userID uuid.UUID, req request_models.CreateTemplateRequest) (*response_models.TemplateResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < templateNameMinLen || len(name) > templateNameMaxLen {
		return nil, utils.WithMessage(utils.ErrValidation, "O nome deve ter entre %d e %d caracteres.", templateNameMinLen, templateNameMaxLen)
	}
	if len(req.Tags) == 0 || len(req.Tags) > maxTemplateTags {
		return nil, utils.WithMessage(utils.ErrValidation, "Informe entre 1 e %d tags.", maxTemplateTags)
	}
	for _, tag := range req.Tags {
		if n := len(strings.TrimSpace(tag)); n < 2 || n > 20 {
			return nil, utils.WithMessage(utils.ErrValidation, "Cada tag deve ter entre 2 e 20 caracteres.")
		}
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = db_models.VisibilityPublic
	}

	pageID, err := uuid.Parse(req.PageID)
	if err != nil {
		return nil, utils.ErrPageNotFound
	}
	page, err := s.pages.GetMyPage(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	template := &db_models.Template{
		CreatorID:       userID,
		Name:            name,
		Description:     req.Description,
		PreviewImageURL: req.PreviewImageURL,
		Visibility:      visibility,
		PageData:        datatypes.NewJSONType(snapshotOf(page)),
	}
	if err := s.templates.Create(ctx, template, req.Tags); err != nil {
		return nil, dbFailure(ctx, s.log, "create template", err)
	}
	return s.GetByID(ctx, userID, template.ID)
}

func (s *TemplateService) ListPublic(ctx context.Context, viewerID uuid.UUID, q request_models.ListTemplatesQuery) (*response_models.TemplateListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = templatePageSize
	}
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}

	templates, total, err := s.templates.ListPublic(ctx, repositories.TemplateFilter{
		Search:      q.Search,
		CreatorName: q.CreatorName,
		Tags:        tags,
		SortBy:      q.SortBy,
		Offset:      (q.Page - 1) * q.Limit,
		Limit:       q.Limit,
	})
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list public templates", err)
	}

	items, err := s.decorate(ctx, viewerID, templates)
	if err != nil {
		return nil, err
	}
	return &response_models.TemplateListResponse{
		Templates: items,
		Total:     total,
		Page:      q.Page,
		Limit:     q.Limit,
	}, nil
}

// visible reports whether viewerID may see or apply the template.
func visible(t *db_models.Template, viewerID uuid.UUID) bool {
	return t.Visibility != db_models.VisibilityPrivate || t.CreatorID == viewerID
}

func (s *TemplateService) find(ctx context.Context, viewerID, templateID uuid.UUID) (*db_models.Template, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find template", err)
	}
	if template == nil || !visible(template, viewerID) {
		return nil, utils.ErrTemplateNotFound
	}
	return template, nil
}

func (s *TemplateService) GetByID(ctx context.Context, viewerID, templateID uuid.UUID) (*response_models.TemplateResponse, error) {
	template, err := s.find(ctx, viewerID, templateID)
	if err != nil {
		return nil, err
	}
	items, err := s.decorate(ctx, viewerID, []db_models.Template{*template})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *TemplateService) ListMine(ctx context.Context, userID uuid.UUID) ([]response_models.TemplateResponse, error) {
	templates, err := s.templates.ListByCreator(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list own templates", err)
	}
	return s.decorate(ctx, userID, templates)
}

func (s *TemplateService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]response_models.TemplateResponse, error) {
	templates, err := s.templates.ListFavoritedBy(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list favorite templates", err)
	}
	return s.decorate(ctx, userID, templates)
}

func (s *TemplateService) ListRecent(ctx context.Context, viewerID uuid.UUID) ([]response_models.TemplateResponse, error) {
	templates, err := s.templates.ListRecentPublic(ctx, recentTemplates)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list recent templates", err)
	}
	return s.decorate(ctx, viewerID, templates)
}

func (s *TemplateService) PopularTags(ctx context.Context) ([]response_models.TagUsage, error) {
	tags, err := s.tags.PopularTags(ctx, popularTagsLimit)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "popular tags", err)
	}
	return tags, nil
}

func (s *TemplateService) Apply(ctx context.Context, userID, templateID, pageID uuid.UUID) (*db_models.Page, error) {
	template, err := s.find(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}

	updates := snapshotUpdates(template.PageData.Data())
	if _, err := s.pageRepo.UpdateForUser(ctx, pageID, userID, updates); err != nil {
		return nil, dbFailure(ctx, s.log, "apply template", err)
	}
	return s.pages.GetMyPage(ctx, userID, pageID)
}

func (s *TemplateService) Favorite(ctx context.Context, userID, templateID uuid.UUID) error {
	if _, err := s.find(ctx, userID, templateID); err != nil {
		return err
	}
	if err := s.templates.AddFavorite(ctx, userID, templateID); err != nil {
		return dbFailure(ctx, s.log, "favorite template", err)
	}
	return nil
}

func (s *TemplateService) Unfavorite(ctx context.Context, userID, templateID uuid.UUID) error {
	removed, err := s.templates.RemoveFavorite(ctx, userID, templateID)
	if err != nil {
		return dbFailure(ctx, s.log, "unfavorite template", err)
	}
	if removed == 0 {
		return utils.ErrFavoriteNotFound
	}
	return nil
}

func (s *TemplateService) Delete(ctx context.Context, userID, templateID uuid.UUID) error {
	removed, err := s.templates.DeleteForCreator(ctx, templateID, userID)
	if err != nil {
		return dbFailure(ctx, s.log, "delete template", err)
	}
	if removed == 0 {
		return utils.ErrTemplateNotFound
	}
	return nil
}

// decorate attaches creator names and favorite state, dropping the creator row itself.
func (s *TemplateService) decorate(ctx context.Context, viewerID uuid.UUID, templates []db_models.Template) ([]response_models.TemplateResponse, error) {
	ids := make([]uuid.UUID, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	counts, err := s.templates.FavoriteCounts(ctx, ids)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "favorite counts", err)
	}
	favorited, err := s.templates.FavoritedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "favorited set", err)
	}

	out := make([]response_models.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		item := response_models.TemplateResponse{
			Template:      t,
			FavoriteCount: counts[t.ID],
			IsFavorited:   favorited[t.ID],
		}
		if t.Creator != nil {
			item.CreatorName = t.Creator.Name
		}
		item.Template.Creator = nil
		if item.Template.Tags == nil {
			item.Template.Tags = []db_models.Tag{}
		}
		out = append(out, item)
	}
	return out, nil
}

func snapshotOf(p *db_models.Page) db_models.TemplateSnapshot {
	title := p.Title
	theme := p.Theme
	backgroundType := p.BackgroundType
	showProfileCard := p.ShowProfileCard
	linkStyle := p.LinkStyle
	layoutType := p.LayoutType
	titleEffect := p.TitleEffect
	glowEffect := p.GlowEffect
	standardIcons := p.UseStandardIconColors
	ringType := p.ProfileRingType

	snap := db_models.TemplateSnapshot{
		Title:                 &title,
		Bio:                   p.Bio,
		AvatarURL:             p.AvatarURL,
		Theme:                 &theme,
		BackgroundType:        &backgroundType,
		GradientDirection:     p.GradientDirection,
		GradientColorA:        p.GradientColorA,
		GradientColorB:        p.GradientColorB,
		BackgroundURL:         p.BackgroundURL,
		BackgroundColor:       p.BackgroundColor,
		BackgroundVideoURL:    p.BackgroundVideoURL,
		Location:              p.Location,
		CursorURL:             p.CursorURL,
		TextColor:             p.TextColor,
		IconColor:             p.IconColor,
		ProfileCardColor:      p.ProfileCardColor,
		ProfileCardOpacity:    p.ProfileCardOpacity,
		ShowProfileCard:       &showProfileCard,
		LinkStyle:             &linkStyle,
		LayoutType:            &layoutType,
		TitleEffect:           &titleEffect,
		GlowEffect:            &glowEffect,
		UseStandardIconColors: &standardIcons,
		ProfileRingType:       &ringType,
		ProfileRingColors:     []string(p.ProfileRingColors),
	}
	for _, l := range p.Links {
		snap.Links = append(snap.Links, db_models.SnapshotLink{Title: l.Title, URL: l.URL, Order: l.Order})
	}
	for _, a := range p.Audios {
		snap.Audios = append(snap.Audios, db_models.SnapshotAudio{Title: a.Title, URL: a.URL, CoverURL: a.CoverURL, Order: a.Order})
	}
	return snap
}

// snapshotUpdates maps the captured fields onto page columns; nil fields are skipped.
func snapshotUpdates(snap db_models.TemplateSnapshot) map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, v interface{}, present bool) {
		if present {
			updates[column] = v
		}
	}
	setString := func(column string, v *string) {
		if v != nil {
			set(column, *v, true)
		}
	}

	setString("title", snap.Title)
	setString("bio", snap.Bio)
	setString("avatar_url", snap.AvatarURL)
	setString("theme", snap.Theme)
	setString("background_type", snap.BackgroundType)
	setString("gradient_direction", snap.GradientDirection)
	setString("gradient_color_a", snap.GradientColorA)
	setString("gradient_color_b", snap.GradientColorB)
	setString("background_url", snap.BackgroundURL)
	setString("background_color", snap.BackgroundColor)
	setString("background_video_url", snap.BackgroundVideoURL)
	setString("location", snap.Location)
	setString("cursor_url", snap.CursorURL)
	setString("text_color", snap.TextColor)
	setString("icon_color", snap.IconColor)
	setString("profile_card_color", snap.ProfileCardColor)
	setString("link_style", snap.LinkStyle)
	setString("layout_type", snap.LayoutType)
	setString("title_effect", snap.TitleEffect)
	setString("glow_effect", snap.GlowEffect)
	setString("profile_ring_type", snap.ProfileRingType)

	if snap.ProfileCardOpacity != nil {
		set("profile_card_opacity", *snap.ProfileCardOpacity, true)
	}
	if snap.ShowProfileCard != nil {
		set("show_profile_card", *snap.ShowProfileCard, true)
	}
	if snap.UseStandardIconColors != nil {
		set("use_standard_icon_colors", *snap.UseStandardIconColors, true)
	}
	set("profile_ring_colors", pq.StringArray(snap.ProfileRingColors), snap.ProfileRingColors != nil)
	return updates
}
