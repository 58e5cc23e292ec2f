package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"staffhub/internal/model"
	"staffhub/pkg/jwt"
	"staffhub/pkg/response"
)

// 上下文键
const (
	ContextKeyPrincipal = "principal"
	ContextKeyTokenID   = "token_jti"
	ContextKeyTokenExp  = "token_exp"
)

// Principal 已认证主体
type Principal struct {
	EmployeeID string
	Role       model.Role
}

// Blacklist Token 黑名单查询
type Blacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// ActiveLookup 查询员工是否在职
type ActiveLookup func(ctx context.Context, employeeID string) (bool, error)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，
// blacklist 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, blacklist Blacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 类型无效")
			c.Abort()
			return
		}

		role := model.Role(claims.Role)
		if !role.Valid() {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 角色无效")
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 出错时降级放行
				logger.Warn("检查 Token 黑名单失败", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, response.CodeUnauthorized, "Token 已注销")
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyPrincipal, Principal{EmployeeID: claims.EmployeeID, Role: role})
		c.Set(ContextKeyTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextKeyTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// GetPrincipal 读取 JWTAuth 注入的主体
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	if !ok || p.EmployeeID == "" {
		return Principal{}, false
	}
	return p, true
}

// GetTokenMeta 读取当前 Access Token 的 JTI 与过期时间
func GetTokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ContextKeyTokenID)
	exp, _ := c.Get(ContextKeyTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}

// RequireAdmin 仅允许 admin 角色
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}
		if p.Role != model.RoleAdmin {
			response.Forbidden(c, response.CodeForbidden, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission 检查当前角色是否具备指定能力
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}
		if !p.Role.Can(perm) {
			response.Forbidden(c, response.CodeForbidden, "无权限访问")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireActiveEmployee 要求当前主体对应的员工记录处于 active 状态
func RequireActiveEmployee(lookup ActiveLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		active, err := lookup(c.Request.Context(), p.EmployeeID)
		if err != nil {
			response.InternalError(c)
			c.Abort()
			return
		}
		if !active {
			response.Forbidden(c, response.CodeForbidden, "员工账号未激活")
			c.Abort()
			return
		}
		c.Next()
	}
}
