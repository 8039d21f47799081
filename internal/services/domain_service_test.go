package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/infra"
	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

type stubResolver struct {
	cname string
	err   error
	calls int
}

func (r *stubResolver) LookupCNAME(_ context.Context, _ string) (string, error) {
	r.calls++
	return r.cname, r.err
}

type domainStack struct {
	pageStack
	repo     repositories.DomainRepository
	resolver *stubResolver
	domains  DomainServiceInterface
}

func newDomainStack(t *testing.T) domainStack {
	t.Helper()
	s := newPageStack(t)
	repo := repositories.NewDomainRepository(s.db)
	resolver := &stubResolver{}
	cfg := config.Config{AppDomain: "linkbio.app", CNAMETarget: "cname.linkbio.app"}
	return domainStack{
		pageStack: s,
		repo:      repo,
		resolver:  resolver,
		domains:   NewDomainService(repo, s.pages, resolver, cfg, testClock(), zap.NewNop()),
	}
}

func TestAddDomainNormalizesInput(t *testing.T) {
	s := newDomainStack(t)
	user := seedUser(t, s.db, db_models.RolePremium)

	domain, err := s.domains.Add(context.Background(), user.ID, request_models.AddDomainRequest{Domain: "HTTPS://www.Ana.Example.com/profile"})
	require.NoError(t, err)
	assert.Equal(t, "ana.example.com", domain.Domain)
	assert.False(t, domain.Verified)
}

func TestAddDomainRejections(t *testing.T) {
	s := newDomainStack(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, db_models.RolePremium)
	other := seedUser(t, s.db, db_models.RolePremium)

	for _, bad := range []string{"localhost", "no_underscores.com", "linkbio.app", "-bad.com"} {
		_, err := s.domains.Add(ctx, owner.ID, request_models.AddDomainRequest{Domain: bad})
		assert.ErrorIs(t, err, utils.ErrValidation, bad)
	}

	_, err := s.domains.Add(ctx, owner.ID, request_models.AddDomainRequest{Domain: "owner.example.com"})
	require.NoError(t, err)

	_, err = s.domains.Add(ctx, owner.ID, request_models.AddDomainRequest{Domain: "second.example.com"})
	assert.ErrorIs(t, err, utils.ErrDomainAlreadyConfigured)

	_, err = s.domains.Add(ctx, other.ID, request_models.AddDomainRequest{Domain: "owner.example.com"})
	assert.ErrorIs(t, err, utils.ErrDomainTaken)

	foreign := seedPage(t, s.db, owner.ID, "not-yours").ID.String()
	_, err = s.domains.Add(ctx, other.ID, request_models.AddDomainRequest{Domain: "other.example.com", PageID: &foreign})
	assert.ErrorIs(t, err, utils.ErrPageNotFound)
}

func TestVerifyDomainOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		cname    string
		err      error
		verified bool
		message  string
	}{
		{"no record", "", infra.ErrNoCNAME, false, "Não foi possível encontrar um registro CNAME para 'ana.example.com'."},
		{"lookup failure", "", errors.New("timeout"), false, "Ocorreu um erro ao verificar o domínio."},
		{"wrong target", "elsewhere.net.", nil, false, "O registro CNAME aponta para 'elsewhere.net', mas esperava 'cname.linkbio.app'."},
		{"match", "CNAME.linkbio.app.", nil, true, "Domínio verificado com sucesso."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newDomainStack(t)
			user := seedUser(t, s.db, db_models.RolePremium)
			_, err := s.domains.Add(context.Background(), user.ID, request_models.AddDomainRequest{Domain: "ana.example.com"})
			require.NoError(t, err)

			s.resolver.cname, s.resolver.err = tc.cname, tc.err
			res, err := s.domains.Verify(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.verified, res.Verified)
			assert.Equal(t, tc.message, res.Message)

			stored, err := s.domains.Get(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.verified, stored.Verified)
			assert.Equal(t, tc.verified, stored.VerifiedAt != nil)
		})
	}
}

func TestResolveSlugServesVerifiedDomains(t *testing.T) {
	s := newDomainStack(t)
	ctx := context.Background()
	user := seedUser(t, s.db, db_models.RolePremium)
	seedPage(t, s.db, user.ID, "first")
	second := seedPage(t, s.db, user.ID, "second")
	pageID := second.ID.String()

	_, err := s.domains.Add(ctx, user.ID, request_models.AddDomainRequest{Domain: "ana.example.com", PageID: &pageID})
	require.NoError(t, err)

	slug, err := s.repo.ResolveSlug(ctx, "ana.example.com")
	require.NoError(t, err)
	assert.Empty(t, slug)

	s.resolver.cname = "cname.linkbio.app"
	_, err = s.domains.Verify(ctx, user.ID)
	require.NoError(t, err)

	slug, err = s.repo.ResolveSlug(ctx, "ana.example.com")
	require.NoError(t, err)
	assert.Equal(t, "second", slug)
}

func TestRemoveDomain(t *testing.T) {
	s := newDomainStack(t)
	user := seedUser(t, s.db, db_models.RolePremium)

	assert.ErrorIs(t, s.domains.Remove(context.Background(), user.ID), utils.ErrDomainNotFound)
	_, err := s.domains.Verify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrDomainNotFound)
	assert.Zero(t, s.resolver.calls)
}
