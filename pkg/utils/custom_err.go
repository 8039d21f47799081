package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrLimitReached     = errors.New("limit reached")
	ErrValidation       = errors.New("validation error")
	ErrExternalService  = errors.New("external service error")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrDatabaseError    = errors.New("database error")
)

var (
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrPageNotFound     = fmt.Errorf("%w: page", ErrNotFound)
	ErrLinkNotFound     = fmt.Errorf("%w: link", ErrNotFound)
	ErrAudioNotFound    = fmt.Errorf("%w: audio", ErrNotFound)
	ErrBlockNotFound    = fmt.Errorf("%w: block", ErrNotFound)
	ErrTemplateNotFound = fmt.Errorf("%w: template", ErrNotFound)
	ErrFavoriteNotFound = fmt.Errorf("%w: favorite", ErrNotFound)
	ErrDomainNotFound   = fmt.Errorf("%w: domain", ErrNotFound)

	ErrPremiumRequired = fmt.Errorf("%w: premium required", ErrPermissionDenied)
	ErrUnverifiedEmail = fmt.Errorf("%w: unverified email", ErrPermissionDenied)

	ErrSlugTaken               = fmt.Errorf("%w: slug taken", ErrConflict)
	ErrDomainTaken             = fmt.Errorf("%w: domain taken", ErrConflict)
	ErrDomainAlreadyConfigured = fmt.Errorf("%w: domain already configured", ErrConflict)
	ErrEmailInUse              = fmt.Errorf("%w: email in use", ErrConflict)

	ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", ErrUnauthenticated)
	ErrInvalidState      = fmt.Errorf("%w: invalid oauth state", ErrUnauthenticated)

	ErrInvalidCode      = fmt.Errorf("%w: invalid code", ErrValidation)
	ErrInvalidPage      = fmt.Errorf("%w: invalid page parameter", ErrValidation)
	ErrInvalidPageSize  = fmt.Errorf("%w: invalid page size parameter", ErrValidation)
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrValidation)
)

// MessageError attaches a user-facing message to a sentinel error.
type MessageError struct {
	Kind    error
	Message string
}

func (e *MessageError) Error() string {
	return e.Message
}

func (e *MessageError) Unwrap() error {
	return e.Kind
}

func WithMessage(kind error, format string, args ...any) error {
	return &MessageError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
