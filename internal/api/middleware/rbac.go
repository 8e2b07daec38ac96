package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// OwnerOrAdmin lets the request through when the path parameter param names
// the authenticated user, or when the caller is an admin.
func OwnerOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			userID, _ := c.Get(KeyUserID).(string)
			if role == domain.RoleAdmin {
				return next(c)
			}
			if userID == "" || c.Param(param) != userID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
