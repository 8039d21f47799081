package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"linkbio/internal/infra"
	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	mem "linkbio/pkg/memcache"
	"linkbio/pkg/utils"
)

type captureMailer struct {
	to   string
	code string
	err  error
}

func (m *captureMailer) SendVerificationCode(_ context.Context, to, _, code string) error {
	m.to, m.code = to, code
	return m.err
}

type stubDiscord struct {
	profile *infra.DiscordUser
	err     error
}

func (d *stubDiscord) AuthCodeURL(state string) string {
	return "https://discord.test/authorize?state=" + state
}

func (d *stubDiscord) Exchange(context.Context, string) (*oauth2.Token, *infra.DiscordUser, error) {
	if d.err != nil {
		return nil, nil, d.err
	}
	return &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}, d.profile, nil
}

type authStack struct {
	pageStack
	auth    AuthServiceInterface
	mailer  *captureMailer
	discord *stubDiscord
	states  *mem.TTLStore
	clock   *clock.FakeClock
	issuer  *utils.TokenIssuer
}

func newAuthStack(t *testing.T) authStack {
	t.Helper()
	s := newPageStack(t)
	clk := testClock()
	stack := authStack{
		pageStack: s,
		mailer:    &captureMailer{},
		discord:   &stubDiscord{},
		states:    mem.NewTTLStore(clk),
		clock:     clk,
		issuer:    utils.NewTokenIssuer("test-secret", time.Hour),
	}
	stack.auth = NewAuthService(
		repositories.NewUserRepository(s.db),
		repositories.NewAccountRepository(s.db),
		repositories.NewVerificationTokenRepository(s.db),
		stack.mailer,
		stack.issuer,
		stack.discord,
		stack.states,
		clk,
		zap.NewNop(),
	)
	return stack
}

func register(t *testing.T, s authStack, email string) *db_models.User {
	t.Helper()
	user, err := s.auth.Register(context.Background(), request_models.RegisterRequest{
		Name: "Bia", Email: email, Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterVerifyLogin(t *testing.T) {
	s := newAuthStack(t)
	ctx := context.Background()

	user := register(t, s, "  Bia@Example.com ")
	require.NotNil(t, user.Email)
	assert.Equal(t, "bia@example.com", *user.Email)
	assert.Equal(t, "bia@example.com", s.mailer.to)
	assert.Len(t, s.mailer.code, 6)

	_, err := s.auth.Login(ctx, request_models.LoginRequest{Email: "bia@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, utils.ErrUnverifiedEmail)

	_, err = s.auth.VerifyEmail(ctx, request_models.VerifyEmailRequest{Email: "bia@example.com", Code: "000000x"})
	assert.ErrorIs(t, err, utils.ErrInvalidCode)

	res, err := s.auth.VerifyEmail(ctx, request_models.VerifyEmailRequest{Email: "bia@example.com", Code: s.mailer.code})
	require.NoError(t, err)
	assert.True(t, res.User.EmailVerified)
	assert.NotEmpty(t, res.Token)

	res, err = s.auth.Login(ctx, request_models.LoginRequest{Email: "BIA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	claims, err := s.issuer.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, db_models.RoleFree, claims.Role)

	_, err = s.auth.Login(ctx, request_models.LoginRequest{Email: "bia@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrIncorrectPassword)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s := newAuthStack(t)
	register(t, s, "dup@example.com")

	_, err := s.auth.Register(context.Background(), request_models.RegisterRequest{
		Name: "Other", Email: "DUP@example.com", Password: "another-pass",
	})
	assert.ErrorIs(t, err, utils.ErrEmailInUse)
}

func TestVerificationCodeExpires(t *testing.T) {
	s := newAuthStack(t)
	register(t, s, "late@example.com")

	s.clock.Advance(16 * time.Minute)
	_, err := s.auth.VerifyEmail(context.Background(), request_models.VerifyEmailRequest{Email: "late@example.com", Code: s.mailer.code})
	assert.ErrorIs(t, err, utils.ErrInvalidCode)
}

func TestResendReplacesCode(t *testing.T) {
	s := newAuthStack(t)
	ctx := context.Background()
	register(t, s, "again@example.com")
	old := s.mailer.code

	require.NoError(t, s.auth.ResendVerificationCode(ctx, "again@example.com"))
	if s.mailer.code != old {
		_, err := s.auth.VerifyEmail(ctx, request_models.VerifyEmailRequest{Email: "again@example.com", Code: old})
		assert.ErrorIs(t, err, utils.ErrInvalidCode)
	}
	_, err := s.auth.VerifyEmail(ctx, request_models.VerifyEmailRequest{Email: "again@example.com", Code: s.mailer.code})
	require.NoError(t, err)

	err = s.auth.ResendVerificationCode(ctx, "again@example.com")
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.ErrorIs(t, s.auth.ResendVerificationCode(ctx, "nobody@example.com"), utils.ErrUserNotFound)
}

func TestMailFailureDoesNotFailRegistration(t *testing.T) {
	s := newAuthStack(t)
	s.mailer.err = errors.New("smtp down")

	register(t, s, "quiet@example.com")
}

func TestDiscordCallbackCreatesThenReusesUser(t *testing.T) {
	s := newAuthStack(t)
	ctx := context.Background()
	email := "Gamer@Example.com"
	avatar := "a_abc"
	s.discord.profile = &infra.DiscordUser{ID: "42", Username: "gamer", Email: &email, Verified: true, Avatar: &avatar}

	_, err := s.auth.DiscordCallback(ctx, "forged", "code")
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	login := func() string {
		url, err := s.auth.DiscordLoginURL()
		require.NoError(t, err)
		state := url[len("https://discord.test/authorize?state="):]
		token, err := s.auth.DiscordCallback(ctx, state, "code")
		require.NoError(t, err)
		return token
	}

	first, err := s.issuer.ValidateToken(login())
	require.NoError(t, err)
	second, err := s.issuer.ValidateToken(login())
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, "gamer@example.com", first.Email)

	var user db_models.User
	require.NoError(t, s.db.First(&user, "email = ?", "gamer@example.com").Error)
	require.NotNil(t, user.DiscordAvatarURL)
	assert.Contains(t, *user.DiscordAvatarURL, "a_abc.gif")
	assert.True(t, user.EmailVerified)

	var accounts int64
	require.NoError(t, s.db.Model(&db_models.Account{}).Where("user_id = ?", user.ID).Count(&accounts).Error)
	assert.EqualValues(t, 1, accounts)
}

func TestDiscordCallbackLinksExistingEmail(t *testing.T) {
	s := newAuthStack(t)
	existing := register(t, s, "linked@example.com")
	email := "linked@example.com"
	s.discord.profile = &infra.DiscordUser{ID: "7", Username: "linky", Email: &email, Verified: true}

	url, err := s.auth.DiscordLoginURL()
	require.NoError(t, err)
	token, err := s.auth.DiscordCallback(context.Background(), url[len("https://discord.test/authorize?state="):], "code")
	require.NoError(t, err)

	claims, err := s.issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, existing.ID.String(), claims.UserID)
}

func TestDiscordExchangeFailure(t *testing.T) {
	s := newAuthStack(t)
	s.discord.err = errors.New("bad code")

	url, err := s.auth.DiscordLoginURL()
	require.NoError(t, err)
	_, err = s.auth.DiscordCallback(context.Background(), url[len("https://discord.test/authorize?state="):], "code")
	assert.ErrorIs(t, err, utils.ErrExternalService)
}
