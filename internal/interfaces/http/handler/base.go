// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/internal/interfaces/http/middleware"
	"bookforge-api/pkg/logger"
)

// currentUserID 从认证中间件注入的上下文中取用户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// handleError 记录并返回业务错误
func handleError(c *gin.Context, err error) {
	logger.Warn(c.Request.Context(), "request failed",
		"path", c.Request.URL.Path, "error", err)
	dto.AppError(c, err)
}
