package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkbio/pkg/logger"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, code int, message string) {
	RespondError(c, code, message)
	c.Abort()
}

type errorMapping struct {
	err     error
	status  int
	message string
}

// Most specific first: errors.Is also matches the generic kind a sentinel wraps.
var errorMappings = []errorMapping{
	{ErrUserNotFound, http.StatusNotFound, "Usuário não encontrado."},
	{ErrPageNotFound, http.StatusNotFound, "Página não encontrada."},
	{ErrLinkNotFound, http.StatusNotFound, "Link não encontrado ou não pertence a você."},
	{ErrAudioNotFound, http.StatusNotFound, "Áudio não encontrado ou não pertence a você."},
	{ErrBlockNotFound, http.StatusNotFound, "Bloco não encontrado ou não pertence a você."},
	{ErrTemplateNotFound, http.StatusNotFound, "Template não encontrado."},
	{ErrFavoriteNotFound, http.StatusNotFound, "Template não está nos seus favoritos."},
	{ErrDomainNotFound, http.StatusNotFound, "Nenhum domínio configurado."},
	{ErrNotFound, http.StatusNotFound, "Recurso não encontrado."},

	{ErrPremiumRequired, http.StatusForbidden, "Funcionalidade Premium."},
	{ErrUnverifiedEmail, http.StatusForbidden, "E-mail ainda não verificado."},
	{ErrPermissionDenied, http.StatusForbidden, "Permissão negada."},

	{ErrSlugTaken, http.StatusConflict, "Este link já está em uso."},
	{ErrDomainTaken, http.StatusConflict, "Este domínio já está em uso por outro usuário."},
	{ErrDomainAlreadyConfigured, http.StatusConflict, "Você já possui um domínio configurado. Remova o atual para adicionar um novo."},
	{ErrEmailInUse, http.StatusConflict, "Este e-mail já está em uso."},
	{ErrConflict, http.StatusConflict, "Conflito com um recurso existente."},

	{ErrLimitReached, http.StatusForbidden, "Limite atingido."},

	{ErrInvalidCode, http.StatusBadRequest, "Código inválido ou expirado."},
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrInvalidSignature, http.StatusBadRequest, "Assinatura inválida."},
	{ErrValidation, http.StatusBadRequest, "Dados inválidos."},

	{ErrIncorrectPassword, http.StatusUnauthorized, "E-mail ou senha incorretos."},
	{ErrInvalidState, http.StatusUnauthorized, "Sessão de login inválida ou expirada."},
	{ErrUnauthenticated, http.StatusUnauthorized, "Não autenticado."},

	{ErrExternalService, http.StatusBadGateway, "Falha ao comunicar com um serviço externo."},
}

// HandleServiceError maps a service error onto the response envelope.
func HandleServiceError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		message := m.message
		var msgErr *MessageError
		if errors.As(err, &msgErr) && msgErr.Message != "" {
			message = msgErr.Message
		}
		if m.status >= http.StatusInternalServerError {
			log.Error("external service failure", zap.Error(err))
		}
		_ = c.Error(err)
		RespondError(c, m.status, message)
		return
	}

	log.Error("unhandled service error", zap.Error(err))
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
