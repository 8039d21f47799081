package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceError(t *testing.T, err error) (int, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleServiceError(c, err)

	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleServiceErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{ErrPageNotFound, http.StatusNotFound, "Página não encontrada."},
		{fmt.Errorf("wrapped: %w", ErrSlugTaken), http.StatusConflict, "Este link já está em uso."},
		{ErrPremiumRequired, http.StatusForbidden, "Funcionalidade Premium."},
		{WithMessage(ErrLimitReached, "Limite de %d áudio(s) atingido.", 1), http.StatusForbidden, "Limite de 1 áudio(s) atingido."},
		{WithMessage(ErrLinkNotFound, "Link não encontrado."), http.StatusNotFound, "Link não encontrado."},
		{ErrIncorrectPassword, http.StatusUnauthorized, "E-mail ou senha incorretos."},
		{ErrInvalidSignature, http.StatusBadRequest, "Assinatura inválida."},
		{ErrDatabaseError, http.StatusInternalServerError, "Internal server error"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, body := serviceError(t, tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.message, body.Message)
		assert.Equal(t, "error", body.Status)
	}
}

func TestWithMessageKeepsKind(t *testing.T) {
	err := WithMessage(ErrFavoriteNotFound, "nope")
	assert.True(t, errors.Is(err, ErrFavoriteNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	id := uuid.New()

	token, err := issuer.CreateToken(id, "a@b.com", "Ana", "PREMIUM")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "PREMIUM", claims.Role)

	_, err = NewTokenIssuer("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	_, err = NewTokenIssuer("", time.Hour).CreateToken(id, "", "", "FREE")
	assert.Error(t, err)
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.True(t, IsDuplicateKeyErr(errors.New(`ERROR: duplicate key value violates unique constraint "idx_pages_slug" (SQLSTATE 23505)`)))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: pages.slug")))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
	assert.False(t, IsDuplicateKeyErr(nil))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
