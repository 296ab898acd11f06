package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Tabletop_Community/internal/middleware"
	"Tabletop_Community/internal/service"

	"github.com/gin-gonic/gin"
)

func callerID(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

func callerRole(c *gin.Context) int {
	if v, ok := c.Get(middleware.ContextRoleKey); ok {
		if role, ok2 := v.(int); ok2 {
			return role
		}
	}
	return 0
}

func paramID(c *gin.Context, name string) uint64 {
	id, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return id
}

func pageSize(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	return page, size
}

// fail 领域错误到 HTTP 状态码的统一映射
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateApplication),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, service.ErrAlreadyModerated),
		errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}
