package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/infra"
	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

var hostnamePattern = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

type DomainServiceInterface interface {
	Add(ctx context.Context, userID uuid.UUID, req request_models.AddDomainRequest) (*db_models.CustomDomain, error)
	Get(ctx context.Context, userID uuid.UUID) (*db_models.CustomDomain, error)
	Remove(ctx context.Context, userID uuid.UUID) error
	// Verify checks the CNAME record of the user's domain. Lookup problems are
	// reported in the result, not as errors.
	Verify(ctx context.Context, userID uuid.UUID) (*response_models.DomainVerification, error)
}

type DomainService struct {
	domains  repositories.DomainRepository
	pages    PageServiceInterface
	resolver infra.DNSResolver
	target   string
	appHost  string
	clock    clock.Clock
	log      *zap.Logger
}

func NewDomainService(
	domains repositories.DomainRepository,
	pages PageServiceInterface,
	resolver infra.DNSResolver,
	cfg config.Config,
	clk clock.Clock,
	log *zap.Logger,
) DomainServiceInterface {
	return &DomainService{
		domains:  domains,
		pages:    pages,
		resolver: resolver,
		target:   canonicalHost(cfg.CNAMETarget),
		appHost:  canonicalHost(cfg.AppDomain),
		clock:    clk,
		log:      log,
	}
}

// normalizeDomain lowercases the input and strips scheme, a leading www. and any path.
func normalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

func canonicalHost(h string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
}

func (s *DomainService) Add(ctx context.Context, userID uuid.UUID, req request_models.AddDomainRequest) (*db_models.CustomDomain, error) {
	name := normalizeDomain(req.Domain)
	if !hostnamePattern.MatchString(name) || name == s.appHost {
		return nil, utils.WithMessage(utils.ErrValidation, "Formato de domínio inválido.")
	}

	existing, err := s.domains.FindByUser(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find user domain", err)
	}
	if existing != nil {
		return nil, utils.WithMessage(utils.ErrDomainAlreadyConfigured, "Você já possui um domínio configurado.")
	}

	taken, err := s.domains.FindByDomain(ctx, name)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find domain", err)
	}
	if taken != nil {
		return nil, utils.WithMessage(utils.ErrDomainTaken, "Este domínio já está em uso.")
	}

	domain := &db_models.CustomDomain{UserID: userID, Domain: name}
	if req.PageID != nil {
		pageID, err := uuid.Parse(*req.PageID)
		if err != nil {
			return nil, utils.ErrPageNotFound
		}
		if _, err := s.pages.RequireOwned(ctx, userID, pageID); err != nil {
			return nil, err
		}
		domain.PageID = &pageID
	}

	if err := s.domains.Create(ctx, domain); err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, utils.WithMessage(utils.ErrDomainTaken, "Este domínio já está em uso.")
		}
		return nil, dbFailure(ctx, s.log, "create domain", err)
	}
	return domain, nil
}

func (s *DomainService) Get(ctx context.Context, userID uuid.UUID) (*db_models.CustomDomain, error) {
	domain, err := s.domains.FindByUser(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find user domain", err)
	}
	if domain == nil {
		return nil, utils.ErrDomainNotFound
	}
	return domain, nil
}

func (s *DomainService) Remove(ctx context.Context, userID uuid.UUID) error {
	removed, err := s.domains.DeleteByUser(ctx, userID)
	if err != nil {
		return dbFailure(ctx, s.log, "delete domain", err)
	}
	if removed == 0 {
		return utils.ErrDomainNotFound
	}
	return nil
}

func (s *DomainService) Verify(ctx context.Context, userID uuid.UUID) (*response_models.DomainVerification, error) {
	domain, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cname, err := s.resolver.LookupCNAME(ctx, domain.Domain)
	switch {
	case errors.Is(err, infra.ErrNoCNAME):
		return &response_models.DomainVerification{
			Message: fmt.Sprintf("Não foi possível encontrar um registro CNAME para '%s'.", domain.Domain),
		}, nil
	case err != nil:
		logger.WithContext(ctx, s.log).Warn("cname lookup failed",
			zap.String("domain", domain.Domain), zap.Error(err))
		return &response_models.DomainVerification{Message: "Ocorreu um erro ao verificar o domínio."}, nil
	}

	if got := canonicalHost(cname); got != s.target {
		return &response_models.DomainVerification{
			Message: fmt.Sprintf("O registro CNAME aponta para '%s', mas esperava '%s'.", got, s.target),
		}, nil
	}

	if err := s.domains.MarkVerified(ctx, domain.ID, s.clock.Now()); err != nil {
		return nil, dbFailure(ctx, s.log, "mark domain verified", err)
	}
	return &response_models.DomainVerification{Verified: true, Message: "Domínio verificado com sucesso."}, nil
}
