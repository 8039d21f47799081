package services

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

// dbFailure logs a store error with the request fields and hides it from callers.
func dbFailure(ctx context.Context, log *zap.Logger, op string, err error) error {
	logger.WithContext(ctx, log).Error("database operation failed", zap.String("op", op), zap.Error(err))
	return utils.ErrDatabaseError
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// requireText rejects a patch field that is present but null or blank.
func requireText(field utils.Optional[string], name string) error {
	if field.Set && (field.Null || strings.TrimSpace(field.Value) == "") {
		return utils.WithMessage(utils.ErrValidation, "O campo %s não pode ficar vazio.", name)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// validURL accepts absolute http(s) URLs with a host.
func validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// checkURL rejects a patch field carrying anything but an http(s) URL.
func checkURL(field utils.Optional[string], name string) error {
	if field.HasValue() && !validURL(field.Value) {
		return utils.WithMessage(utils.ErrValidation, "O campo %s deve ser uma URL válida.", name)
	}
	return nil
}
