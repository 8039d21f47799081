package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

type UserServiceInterface interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req request_models.UpdateProfileRequest) (*response_models.UserResponse, error)
	UpdateEmail(ctx context.Context, userID uuid.UUID, req request_models.UpdateEmailRequest) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, req request_models.UpdatePasswordRequest) error
	UnlinkDiscord(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) error
}

type UserService struct {
	users    repositories.UserRepository
	accounts repositories.AccountRepository
	auth     AuthServiceInterface
	log      *zap.Logger
}

func NewUserService(
	users repositories.UserRepository,
	accounts repositories.AccountRepository,
	auth AuthServiceInterface,
	log *zap.Logger,
) UserServiceInterface {
	return &UserService{users: users, accounts: accounts, auth: auth, log: log}
}

func (s *UserService) load(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find user", err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) respond(ctx context.Context, user *db_models.User) (*response_models.UserResponse, error) {
	linked, err := s.accounts.FindByUserAndProvider(ctx, user.ID, db_models.ProviderDiscord)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find discord account", err)
	}
	res := response_models.NewUserResponse(user, linked != nil)
	return &res, nil
}

func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, user)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req request_models.UpdateProfileRequest) (*response_models.UserResponse, error) {
	if req.Name.Set {
		if req.Name.Null || strings.TrimSpace(req.Name.Value) == "" {
			return nil, utils.WithMessage(utils.ErrValidation, "O nome não pode ficar vazio.")
		}
		req.Name.Value = strings.TrimSpace(req.Name.Value)
	}

	updates := map[string]interface{}{}
	req.Name.Apply(updates, "name")
	req.Image.Apply(updates, "image")

	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, dbFailure(ctx, s.log, "update profile", err)
	}
	return s.GetMe(ctx, userID)
}

func (s *UserService) UpdateEmail(ctx context.Context, userID uuid.UUID, req request_models.UpdateEmailRequest) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return utils.WithMessage(utils.ErrPermissionDenied, "Este usuário deve fazer login com um provedor externo.")
	}
	if err := utils.ComparePasswords(*user.PasswordHash, req.CurrentPassword); err != nil {
		return utils.WithMessage(utils.ErrIncorrectPassword, "Senha atual incorreta.")
	}

	email := normalizeEmail(req.NewEmail)
	other, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return dbFailure(ctx, s.log, "find user by email", err)
	}
	if other != nil && other.ID != userID {
		return utils.ErrEmailInUse
	}

	err = s.users.Update(ctx, userID, map[string]interface{}{
		"email":          email,
		"email_verified": false,
	})
	if err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return utils.ErrEmailInUse
		}
		return dbFailure(ctx, s.log, "update email", err)
	}
	return s.auth.SendVerificationCode(ctx, userID)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, req request_models.UpdatePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return utils.WithMessage(utils.ErrValidation, "As senhas não coincidem.")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	// Accounts created through Discord may set their first password directly.
	if user.HasPassword() {
		if err := utils.ComparePasswords(*user.PasswordHash, req.CurrentPassword); err != nil {
			return utils.WithMessage(utils.ErrIncorrectPassword, "Senha atual incorreta.")
		}
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		return dbFailure(ctx, s.log, "update password", err)
	}
	return nil
}

func (s *UserService) UnlinkDiscord(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() {
		return nil, utils.WithMessage(utils.ErrPermissionDenied,
			"Defina uma senha antes de desvincular o Discord.")
	}

	removed, err := s.accounts.DeleteByUserAndProvider(ctx, userID, db_models.ProviderDiscord)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "unlink discord", err)
	}
	if removed == 0 {
		return nil, utils.WithMessage(utils.ErrNotFound, "Nenhuma conta do Discord vinculada.")
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"discord_avatar_url": nil}); err != nil {
		return nil, dbFailure(ctx, s.log, "clear discord avatar", err)
	}
	user.DiscordAvatarURL = nil
	return s.respond(ctx, user)
}

func (s *UserService) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	removed, err := s.users.Delete(ctx, userID)
	if err != nil {
		return dbFailure(ctx, s.log, "delete user", err)
	}
	if removed == 0 {
		return utils.ErrUserNotFound
	}
	return nil
}
