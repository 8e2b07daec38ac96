package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/lbsshop/storefront-api/internal/api/middleware"
	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

// currentCaller reads the identity injected by the Auth middleware. A missing
// user id or role means the route was mounted without authentication.
func currentCaller(c echo.Context) (ports.Caller, error) {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	role, _ := c.Get(middleware.KeyRole).(string)
	if userID == "" || role == "" {
		return ports.Caller{}, domain.ErrTokenMissing
	}
	return ports.Caller{UserID: userID, Role: role}, nil
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	return c.Validate(req)
}
