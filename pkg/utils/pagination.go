package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePagination reads page/limit query params, limit bounded to 1..100.
func ParsePagination(c *gin.Context, defaultLimit int) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, ErrInvalidPage
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, ErrInvalidPageSize
	}

	return page, limit, nil
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
