package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pg-hostel-api/internal/core/auth"
	resp "pg-hostel-api/internal/transport/http/response"
)

// AuthJWT 受保护路由三道检查：Bearer 形式、签名/过期、吊销表。
// 过期和非法要区分着报，前者客户端可以走 refresh。
func AuthJWT(j *auth.JWTer, bl *auth.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		token := strings.TrimPrefix(ah, "Bearer ")
		claims, err := j.ParseType(token, auth.TokenAccess)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, msg))
			return
		}
		if bl.Contains(token) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "token revoked"))
			return
		}
		c.Set("userId", claims.Subject)
		c.Set("accessToken", token)
		c.Set("claims", claims)
		c.Next()
	}
}
