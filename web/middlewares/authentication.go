package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"worktally.com/worktally/security"
	"worktally.com/worktally/web/common"
)

const (
	SessionCookie = "worktally.session"

	claimsKey = "claims"
	userIDKey = "userId"
)

// TokenParser validates an identity token.
type TokenParser interface {
	ParseIdentityToken(tokenStr string) (*security.IdentityClaims, error)
}

// Authentication checks for a valid Bearer token, falling back to the session cookie.
func Authentication(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("authentication required"))
				return
			}

			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("authentication required"))
				return
			}

			tokenStr = strings.TrimSpace(parts[1])
		}

		claims, err := tokens.ParseIdentityToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse(security.ErrInvalidToken.Error()))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, claims.UserID)

		c.Next()
	}
}

// UserID returns the authenticated user id set by Authentication.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Claims(c *gin.Context) *security.IdentityClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*security.IdentityClaims)
	return claims
}
