package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/internal/infra"
	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	"linkbio/pkg/logger"
	mem "linkbio/pkg/memcache"
	"linkbio/pkg/utils"
)

const (
	verificationCodeTTL = 15 * time.Minute
	oauthStateTTL       = 10 * time.Minute
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (*db_models.User, error)
	SendVerificationCode(ctx context.Context, userID uuid.UUID) error
	ResendVerificationCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, req request_models.VerifyEmailRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error)
	DiscordLoginURL() (string, error)
	// DiscordCallback signs the caller in with Discord and returns a JWT.
	DiscordCallback(ctx context.Context, state, code string) (string, error)
}

type AuthService struct {
	users    repositories.UserRepository
	accounts repositories.AccountRepository
	tokens   repositories.VerificationTokenRepository
	mailer   IMailService
	issuer   *utils.TokenIssuer
	discord  infra.DiscordClient
	states   mem.StateStore
	clock    clock.Clock
	log      *zap.Logger
}

func NewAuthService(
	users repositories.UserRepository,
	accounts repositories.AccountRepository,
	tokens repositories.VerificationTokenRepository,
	mailer IMailService,
	issuer *utils.TokenIssuer,
	discord infra.DiscordClient,
	states mem.StateStore,
	clk clock.Clock,
	log *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		users:    users,
		accounts: accounts,
		tokens:   tokens,
		mailer:   mailer,
		issuer:   issuer,
		discord:  discord,
		states:   states,
		clock:    clk,
		log:      log,
	}
}

func (a *AuthService) Register(ctx context.Context, req request_models.RegisterRequest) (*db_models.User, error) {
	email := normalizeEmail(req.Email)

	existing, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbFailure(ctx, a.log, "find user by email", err)
	}
	if existing != nil {
		return nil, utils.ErrEmailInUse
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &db_models.User{
		Name:         req.Name,
		Email:        &email,
		PasswordHash: &hash,
		Role:         db_models.RoleFree,
	}
	if err := a.users.Create(ctx, user); err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, utils.ErrEmailInUse
		}
		return nil, dbFailure(ctx, a.log, "create user", err)
	}

	if err := a.SendVerificationCode(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *AuthService) SendVerificationCode(ctx context.Context, userID uuid.UUID) error {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return dbFailure(ctx, a.log, "find user", err)
	}
	if user == nil || user.Email == nil {
		return utils.ErrUserNotFound
	}

	code, err := utils.GenerateOtpCode(6)
	if err != nil {
		return err
	}
	token := &db_models.VerificationToken{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: a.clock.Now().Add(verificationCodeTTL),
	}
	if err := a.tokens.Replace(ctx, token); err != nil {
		return dbFailure(ctx, a.log, "replace verification token", err)
	}

	if err := a.mailer.SendVerificationCode(ctx, *user.Email, user.Name, code); err != nil {
		logger.WithContext(ctx, a.log).Error("verification mail failed",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return nil
}

func (a *AuthService) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := a.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return dbFailure(ctx, a.log, "find user by email", err)
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if user.EmailVerified {
		return utils.WithMessage(utils.ErrValidation, "Este e-mail já foi verificado.")
	}
	return a.SendVerificationCode(ctx, user.ID)
}

func (a *AuthService) VerifyEmail(ctx context.Context, req request_models.VerifyEmailRequest) (*response_models.AuthResponse, error) {
	user, err := a.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, dbFailure(ctx, a.log, "find user by email", err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCode
	}

	if err := a.tokens.ConsumeAndVerify(ctx, user.ID, req.Code, a.clock.Now()); err != nil {
		if errors.Is(err, repositories.ErrTokenMismatch) {
			return nil, utils.ErrInvalidCode
		}
		return nil, dbFailure(ctx, a.log, "verify email", err)
	}
	user.EmailVerified = true

	return a.authResponse(ctx, user)
}

func (a *AuthService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error) {
	user, err := a.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, dbFailure(ctx, a.log, "find user by email", err)
	}
	if user == nil || !user.HasPassword() {
		return nil, utils.ErrIncorrectPassword
	}
	if err := utils.ComparePasswords(*user.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrIncorrectPassword
	}
	if !user.EmailVerified {
		return nil, utils.WithMessage(utils.ErrUnverifiedEmail,
			"Por favor, verifique seu e-mail antes de fazer login.")
	}
	return a.authResponse(ctx, user)
}

func (a *AuthService) DiscordLoginURL() (string, error) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", err
	}
	a.states.Put(state, "", oauthStateTTL)
	return a.discord.AuthCodeURL(state), nil
}

func (a *AuthService) DiscordCallback(ctx context.Context, state, code string) (string, error) {
	if _, ok := a.states.Consume(state); !ok || code == "" {
		return "", utils.ErrInvalidState
	}

	token, profile, err := a.discord.Exchange(ctx, code)
	if err != nil {
		logger.WithContext(ctx, a.log).Warn("discord exchange failed", zap.Error(err))
		return "", fmt.Errorf("%w: discord", utils.ErrExternalService)
	}
	avatar := profile.AvatarURL()

	user, err := a.resolveDiscordUser(ctx, profile, avatar)
	if err != nil {
		return "", err
	}

	account := &db_models.Account{
		UserID:            user.ID,
		Provider:          db_models.ProviderDiscord,
		ProviderAccountID: profile.ID,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		account.ExpiresAt = &expiry
	}
	if err := a.accounts.Upsert(ctx, account); err != nil {
		return "", dbFailure(ctx, a.log, "upsert discord account", err)
	}

	return a.issue(user)
}

// resolveDiscordUser finds the user behind a Discord profile: the linked
// account first, then a user with the same verified email, else a new user.
func (a *AuthService) resolveDiscordUser(ctx context.Context, profile *infra.DiscordUser, avatar *string) (*db_models.User, error) {
	linked, err := a.accounts.FindByProvider(ctx, db_models.ProviderDiscord, profile.ID)
	if err != nil {
		return nil, dbFailure(ctx, a.log, "find discord account", err)
	}
	if linked != nil {
		user, err := a.users.FindByID(ctx, linked.UserID)
		if err != nil {
			return nil, dbFailure(ctx, a.log, "find user", err)
		}
		if user == nil {
			return nil, utils.ErrUserNotFound
		}
		if err := a.users.Update(ctx, user.ID, map[string]interface{}{"discord_avatar_url": avatar}); err != nil {
			return nil, dbFailure(ctx, a.log, "refresh discord avatar", err)
		}
		user.DiscordAvatarURL = avatar
		return user, nil
	}

	var verifiedEmail *string
	if profile.Email != nil && profile.Verified {
		email := normalizeEmail(*profile.Email)
		verifiedEmail = &email

		existing, err := a.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, dbFailure(ctx, a.log, "find user by email", err)
		}
		if existing != nil {
			if err := a.users.Update(ctx, existing.ID, map[string]interface{}{"discord_avatar_url": avatar}); err != nil {
				return nil, dbFailure(ctx, a.log, "refresh discord avatar", err)
			}
			existing.DiscordAvatarURL = avatar
			return existing, nil
		}
	}

	user := &db_models.User{
		Name:             profile.Username,
		Email:            verifiedEmail,
		EmailVerified:    verifiedEmail != nil,
		DiscordAvatarURL: avatar,
		Role:             db_models.RoleFree,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, dbFailure(ctx, a.log, "create discord user", err)
	}
	return user, nil
}

func (a *AuthService) issue(user *db_models.User) (string, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	return a.issuer.CreateToken(user.ID, email, user.Name, user.Role)
}

func (a *AuthService) authResponse(ctx context.Context, user *db_models.User) (*response_models.AuthResponse, error) {
	token, err := a.issue(user)
	if err != nil {
		return nil, err
	}
	linked, err := a.accounts.FindByUserAndProvider(ctx, user.ID, db_models.ProviderDiscord)
	if err != nil {
		return nil, dbFailure(ctx, a.log, "find discord account", err)
	}
	return &response_models.AuthResponse{
		Token: token,
		User:  response_models.NewUserResponse(user, linked != nil),
	}, nil
}
