package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mistake-journal/internal/service"
	appErrors "github.com/noah-isme/mistake-journal/pkg/errors"
	"github.com/noah-isme/mistake-journal/pkg/response"
)

// TokenGate enforces the shared bearer token before protected actions reach
// the store. Non-protected actions pass through untouched. The isProtected
// predicate decides per request, so a single endpoint can mix both.
func TokenGate(auth *service.AuthService, isProtected func(c *gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isProtected(c) {
			c.Next()
			return
		}
		if !auth.VerifyHeader(c.GetHeader("Authorization")) {
			response.Fail(c, appErrors.ErrAuthRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}
