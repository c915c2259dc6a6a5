package security

import (
	"Lokiz/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret     = []byte("lokiz-dev-secret")
	jwtExpiration = 7 * 24 * time.Hour
	jwtIssuer     = "lokiz"
)

// UserClaims Token 中携带的业务信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Init 使用配置覆盖默认的签名参数
func Init(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.ExpireMinutes > 0 {
		jwtExpiration = time.Duration(cfg.ExpireMinutes) * time.Minute
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
}

// TokenTTL Token 有效期
func TokenTTL() time.Duration {
	return jwtExpiration
}
