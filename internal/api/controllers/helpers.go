package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkbio/pkg/identity"
	"linkbio/pkg/utils"
)

// caller returns the authenticated identity or writes a 401.
func caller(c *gin.Context) (identity.Identity, bool) {
	id, ok := identity.FromGin(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
	}
	return id, ok
}

// uuidParam parses a path parameter, answering 404 for malformed ids.
func uuidParam(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.HandleServiceError(c, notFound)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}
