package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/identity"
	"linkbio/pkg/utils"
)

const MaxPagesPerUser = 5

var (
	slugPattern       = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorPattern   = regexp.MustCompile(`(?i)^#([0-9a-f]{3}){1,2}$`)
	hexColorAlphaExpr = regexp.MustCompile(`(?i)^#([0-9a-f]{3,4}){1,2}$`)

	backgroundTypes  = []string{"solid", "gradient", "image", "video"}
	linkStyles       = []string{"classic", "minimal", "brutalist", "spotlight"}
	layoutTypes      = []string{"list", "grid", "icons_only", "stacked"}
	titleEffects     = []string{"none", "typewriter", "rainbow", "neon", "outline", "glitch"}
	glowEffects      = []string{"none", "title", "icons", "both"}
	profileRingTypes = []string{"none", "solid", "gradient", "animated"}
)

type PageServiceInterface interface {
	GetOrCreateMyPage(ctx context.Context, caller identity.Identity) (*db_models.Page, error)
	CreatePage(ctx context.Context, caller identity.Identity, req request_models.CreatePageRequest) (*db_models.Page, error)
	ListMyPages(ctx context.Context, userID uuid.UUID, page, limit int, search string) (*response_models.PageListResponse, error)
	GetMyPage(ctx context.Context, userID, pageID uuid.UUID) (*db_models.Page, error)
	UpdatePage(ctx context.Context, userID, pageID uuid.UUID, patch request_models.PagePatch) (*db_models.Page, error)
	DeletePage(ctx context.Context, userID, pageID uuid.UUID) error
	GetPublicPage(ctx context.Context, slug string) (*response_models.PublicPageResponse, error)
	// RequireOwned returns ErrPageNotFound unless pageID belongs to userID.
	RequireOwned(ctx context.Context, userID, pageID uuid.UUID) (*db_models.Page, error)
}

type PageService struct {
	pages repositories.PageRepository
	log   *zap.Logger
}

func NewPageService(pages repositories.PageRepository, log *zap.Logger) PageServiceInterface {
	return &PageService{pages: pages, log: log}
}

func newPage(userID uuid.UUID, slug, title string) *db_models.Page {
	return &db_models.Page{
		UserID:          userID,
		Slug:            slug,
		Title:           title,
		Theme:           "default",
		BackgroundType:  "solid",
		ShowProfileCard: true,
		LinkStyle:       "classic",
		LayoutType:      "list",
		TitleEffect:     "none",
		GlowEffect:      "none",
		ProfileRingType: "none",
	}
}

func (s *PageService) GetOrCreateMyPage(ctx context.Context, caller identity.Identity) (*db_models.Page, error) {
	page, err := s.pages.FindFirstByUser(ctx, caller.UserID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find first page", err)
	}
	if page != nil {
		if err := s.pages.LoadContent(ctx, page, false); err != nil {
			return nil, dbFailure(ctx, s.log, "load page content", err)
		}
		return page, nil
	}

	name := strings.TrimSpace(caller.Name)
	base := slug.Make(name)
	if base == "" {
		base = "user"
	}
	title := "Minha Página"
	if name != "" {
		title = fmt.Sprintf("%s's Page", name)
	}

	for attempt := 0; attempt < 5; attempt++ {
		suffix, err := utils.RandomBase36(4)
		if err != nil {
			return nil, err
		}
		page = newPage(caller.UserID, base+"-"+suffix, title)
		err = s.pages.Create(ctx, page)
		if err == nil {
			page.Links, page.Audios, page.Blocks = []db_models.Link{}, []db_models.Audio{}, []db_models.Block{}
			return page, nil
		}
		if !utils.IsDuplicateKeyErr(err) {
			return nil, dbFailure(ctx, s.log, "create default page", err)
		}
	}
	return nil, utils.ErrSlugTaken
}

func (s *PageService) CreatePage(ctx context.Context, caller identity.Identity, req request_models.CreatePageRequest) (*db_models.Page, error) {
	count, err := s.pages.CountByUser(ctx, caller.UserID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "count pages", err)
	}
	if count >= MaxPagesPerUser {
		return nil, utils.WithMessage(utils.ErrLimitReached, "Limite máximo de %d páginas atingido.", MaxPagesPerUser)
	}

	pageSlug := strings.TrimSpace(req.Slug)
	if err := validateSlug(pageSlug); err != nil {
		return nil, err
	}
	taken, err := s.pages.SlugExists(ctx, pageSlug, uuid.Nil)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "check slug", err)
	}
	if taken {
		return nil, utils.ErrSlugTaken
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = pageSlug
	}
	page := newPage(caller.UserID, pageSlug, title)
	if err := s.pages.Create(ctx, page); err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, utils.ErrSlugTaken
		}
		return nil, dbFailure(ctx, s.log, "create page", err)
	}
	return page, nil
}

func (s *PageService) ListMyPages(ctx context.Context, userID uuid.UUID, page, limit int, search string) (*response_models.PageListResponse, error) {
	pages, total, err := s.pages.ListByUser(ctx, userID, search, (page-1)*limit, limit)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "list pages", err)
	}
	return &response_models.PageListResponse{
		Pages:       pages,
		Total:       total,
		TotalPages:  utils.TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (s *PageService) RequireOwned(ctx context.Context, userID, pageID uuid.UUID) (*db_models.Page, error) {
	page, err := s.pages.FindByIDForUser(ctx, pageID, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find page", err)
	}
	if page == nil {
		return nil, utils.ErrPageNotFound
	}
	return page, nil
}

func (s *PageService) GetMyPage(ctx context.Context, userID, pageID uuid.UUID) (*db_models.Page, error) {
	page, err := s.RequireOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	if err := s.pages.LoadContent(ctx, page, false); err != nil {
		return nil, dbFailure(ctx, s.log, "load page content", err)
	}
	return page, nil
}

func (s *PageService) UpdatePage(ctx context.Context, userID, pageID uuid.UUID, patch request_models.PagePatch) (*db_models.Page, error) {
	updates, err := pageUpdates(patch)
	if err != nil {
		return nil, err
	}

	if _, err := s.RequireOwned(ctx, userID, pageID); err != nil {
		return nil, err
	}

	if patch.Slug.HasValue() {
		taken, err := s.pages.SlugExists(ctx, patch.Slug.Value, pageID)
		if err != nil {
			return nil, dbFailure(ctx, s.log, "check slug", err)
		}
		if taken {
			return nil, utils.ErrSlugTaken
		}
	}

	if _, err := s.pages.UpdateForUser(ctx, pageID, userID, updates); err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, utils.ErrSlugTaken
		}
		return nil, dbFailure(ctx, s.log, "update page", err)
	}
	return s.GetMyPage(ctx, userID, pageID)
}

func (s *PageService) DeletePage(ctx context.Context, userID, pageID uuid.UUID) error {
	removed, err := s.pages.DeleteForUser(ctx, pageID, userID)
	if err != nil {
		return dbFailure(ctx, s.log, "delete page", err)
	}
	if removed == 0 {
		return utils.ErrPageNotFound
	}
	return nil
}

func (s *PageService) GetPublicPage(ctx context.Context, pageSlug string) (*response_models.PublicPageResponse, error) {
	page, err := s.pages.FindBySlug(ctx, pageSlug)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find page by slug", err)
	}
	if page == nil {
		return nil, utils.ErrPageNotFound
	}
	if err := s.pages.LoadContent(ctx, page, true); err != nil {
		return nil, dbFailure(ctx, s.log, "load page content", err)
	}

	res := &response_models.PublicPageResponse{Page: *page}
	if page.User != nil {
		res.User = response_models.PublicProfile{
			Name:          page.User.Name,
			Image:         page.User.Image,
			ImageProvider: page.User.ImageProvider,
			Role:          page.User.Role,
		}
	}
	res.Page.User = nil
	return res, nil
}

func validateSlug(s string) error {
	if len(s) < 3 || !slugPattern.MatchString(s) {
		return utils.WithMessage(utils.ErrValidation,
			"O slug deve ter ao menos 3 caracteres e conter apenas letras minúsculas, números e hifens.")
	}
	return nil
}

func requireValue[T any](field utils.Optional[T], name string) error {
	if field.Set && field.Null {
		return utils.WithMessage(utils.ErrValidation, "O campo %s não pode ser nulo.", name)
	}
	return nil
}

func checkEnum(field utils.Optional[string], name string, allowed []string) error {
	if err := requireValue(field, name); err != nil || !field.Set {
		return err
	}
	for _, v := range allowed {
		if field.Value == v {
			return nil
		}
	}
	return utils.WithMessage(utils.ErrValidation, "Valor inválido para %s. Use: %s.", name, strings.Join(allowed, ", "))
}

func checkColor(field utils.Optional[string], name string, pattern *regexp.Regexp) error {
	if field.HasValue() && !pattern.MatchString(field.Value) {
		return utils.WithMessage(utils.ErrValidation, "Cor inválida para %s. Use o formato hexadecimal.", name)
	}
	return nil
}

// pageUpdates validates a patch and turns it into a column map.
func pageUpdates(p request_models.PagePatch) (map[string]interface{}, error) {
	if p.Slug.Set {
		if p.Slug.Null {
			return nil, utils.WithMessage(utils.ErrValidation, "O slug não pode ser nulo.")
		}
		p.Slug.Value = strings.TrimSpace(p.Slug.Value)
		if err := validateSlug(p.Slug.Value); err != nil {
			return nil, err
		}
	}

	if err := firstError(
		requireValue(p.Theme, "theme"),
		requireValue(p.ShowAudioButton, "showAudioButton"),
		requireValue(p.ShowProfileCard, "showProfileCard"),
		requireValue(p.ShowViewCount, "showViewCount"),
		requireValue(p.UseStandardIconColors, "useStandardIconColors"),
		checkEnum(p.BackgroundType, "backgroundType", backgroundTypes),
		checkEnum(p.LinkStyle, "linkStyle", linkStyles),
		checkEnum(p.LayoutType, "layoutType", layoutTypes),
		checkEnum(p.TitleEffect, "titleEffect", titleEffects),
		checkEnum(p.GlowEffect, "glowEffect", glowEffects),
		checkColor(p.GradientColorA, "gradientColorA", hexColorPattern),
		checkColor(p.GradientColorB, "gradientColorB", hexColorPattern),
		checkColor(p.BackgroundColor, "backgroundColor", hexColorPattern),
		checkColor(p.TextColor, "textColor", hexColorPattern),
		checkColor(p.IconColor, "iconColor", hexColorPattern),
		checkColor(p.ProfileCardColor, "profileCardColor", hexColorAlphaExpr),
	); err != nil {
		return nil, err
	}

	if p.ProfileRingType.HasValue() {
		if err := checkEnum(p.ProfileRingType, "profileRingType", profileRingTypes); err != nil {
			return nil, err
		}
	}
	if p.ProfileCardOpacity.HasValue() && (p.ProfileCardOpacity.Value < 0 || p.ProfileCardOpacity.Value > 1) {
		return nil, utils.WithMessage(utils.ErrValidation, "A opacidade do card deve estar entre 0 e 1.")
	}
	if p.ProfileRingColors.HasValue() {
		if len(p.ProfileRingColors.Value) > 3 {
			return nil, utils.WithMessage(utils.ErrValidation, "Você pode ter no máximo 3 cores na borda.")
		}
		for _, c := range p.ProfileRingColors.Value {
			if !hexColorPattern.MatchString(c) {
				return nil, utils.WithMessage(utils.ErrValidation, "Cor inválida na borda.")
			}
		}
	}

	updates := map[string]interface{}{}
	p.Slug.Apply(updates, "slug")
	if p.Title.Set {
		updates["title"] = p.Title.Value
	}
	p.Bio.Apply(updates, "bio")
	p.AvatarURL.Apply(updates, "avatar_url")
	p.Theme.Apply(updates, "theme")

	p.BackgroundType.Apply(updates, "background_type")
	p.GradientDirection.Apply(updates, "gradient_direction")
	p.GradientColorA.Apply(updates, "gradient_color_a")
	p.GradientColorB.Apply(updates, "gradient_color_b")
	p.BackgroundURL.Apply(updates, "background_url")
	p.BackgroundColor.Apply(updates, "background_color")
	p.BackgroundVideoURL.Apply(updates, "background_video_url")

	p.Location.Apply(updates, "location")
	p.AudioURL.Apply(updates, "audio_url")
	p.CursorURL.Apply(updates, "cursor_url")
	p.ShowAudioButton.Apply(updates, "show_audio_button")

	p.TextColor.Apply(updates, "text_color")
	p.IconColor.Apply(updates, "icon_color")
	p.ShowProfileCard.Apply(updates, "show_profile_card")
	p.ProfileCardColor.Apply(updates, "profile_card_color")
	p.ProfileCardOpacity.Apply(updates, "profile_card_opacity")
	p.ShowViewCount.Apply(updates, "show_view_count")
	p.LinkStyle.Apply(updates, "link_style")
	p.LayoutType.Apply(updates, "layout_type")
	p.TitleEffect.Apply(updates, "title_effect")
	p.UseStandardIconColors.Apply(updates, "use_standard_icon_colors")
	p.GlowEffect.Apply(updates, "glow_effect")

	if p.ProfileRingType.Set {
		ring := "none"
		if !p.ProfileRingType.Null {
			ring = p.ProfileRingType.Value
		}
		updates["profile_ring_type"] = ring
	}
	if p.ProfileRingColors.Set {
		updates["profile_ring_colors"] = pq.StringArray(p.ProfileRingColors.Value)
	}
	return updates, nil
}
