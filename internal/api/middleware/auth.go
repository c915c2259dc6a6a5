package middleware

import (
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// bearerToken 从 Authorization 头取出 Token
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
}

// parseToken 校验签名、有效期与黑名单
func parseToken(ctx context.Context, token string) (*security.UserClaims, error) {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil, err
	}
	revoked, err := redis.Exists(ctx, consts.TokenBlacklistKey+signature)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errTokenRevoked
	}
	return security.ValidateToken(token)
}

func setIdentity(c *gin.Context, token string, claims *security.UserClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("token", token)

	newCtx := context.WithValue(c.Request.Context(), "user_id", claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := parseToken(c.Request.Context(), token)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}

// QueryAuthMiddleware websocket 握手无法携带请求头，从 token 查询参数鉴权
func QueryAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			response.Fail(c, response.Unauthorized, "Token 缺失")
			c.Abort()
			return
		}
		claims, err := parseToken(c.Request.Context(), token)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}
