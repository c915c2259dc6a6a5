package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var errTokenRevoked = errors.New("token 已注销")

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Set("user_id", uint64(0))
			c.Next()
			return
		}

		claims, err := parseToken(c.Request.Context(), token)
		if err != nil {
			c.Set("user_id", uint64(0))
		} else {
			setIdentity(c, token, claims)
		}

		c.Next()
	}
}
