package handler

import (
	"github.com/gin-gonic/gin"

	"staffhub/internal/api/middleware"
	"staffhub/pkg/response"
)

// MustGetPrincipal 从 Gin 上下文中安全提取已认证主体。
// JWT 中间件未注入主体时写入 401 响应并返回 false，调用方应直接 return。
func MustGetPrincipal(c *gin.Context) (middleware.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return middleware.Principal{}, false
	}
	return p, true
}

// MustGetEmployeeID 从 Gin 上下文中安全提取当前员工 ID
func MustGetEmployeeID(c *gin.Context) (string, bool) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return "", false
	}
	return p.EmployeeID, true
}
