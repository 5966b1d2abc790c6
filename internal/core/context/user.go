// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID    string
	Email     string
	Roles     []string
	Companies []string // Companies user has access to
	IsAdmin   bool
	SessionID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasCompanyAccess reports whether the user may read a company's ledger.
// Admins may read every company.
func (u *UserContext) HasCompanyAccess(company string) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	for _, c := range u.Companies {
		if c == company {
			return true
		}
	}
	return false
}

// HasCompanyAccess checks company access for the user in context.
func HasCompanyAccess(ctx context.Context, company string) bool {
	return GetUser(ctx).HasCompanyAccess(company)
}
