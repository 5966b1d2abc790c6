package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/core/apperror"
	appctx "ledgerlens/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens and populates user context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)

		c.Next()
	}
}

// RequireCompanyAccess ensures the authenticated user may read the company
// named in the "company" query or path parameter. Admins pass.
func RequireCompanyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		company := c.Query("company")
		if company == "" {
			company = c.Param("company")
		}
		if company != "" {
			if !user.HasCompanyAccess(company) {
				_ = c.Error(
					apperror.NewForbidden("no access to company").
						WithDetail("company", company),
				)
				c.Abort()
				return
			}
			ctx := appctx.WithTraceCompany(c.Request.Context(), company)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
