package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// Error kinds rendered in the envelope.
const (
	KindValidation     = "ValidationError"
	KindAuthentication = "AuthenticationFailure"
	KindAuthorization  = "AuthorizationFailure"
	KindNotFound       = "NotFound"
	KindConflict       = "Conflict"
	KindRateLimited    = "TooManyRequests"
	KindInternal       = "InternalError"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders
// {"error": "<message>", "kind": "<Kind>"}. Unknown errors are logged and
// answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Kind: kindForStatus(he.Code)}
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidArtifact):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: KindValidation}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, errorResponse{Error: domain.ErrDuplicateEmail.Error(), Kind: KindConflict}
	case errors.Is(err, domain.ErrDuplicateCategory):
		return http.StatusConflict, errorResponse{Error: domain.ErrDuplicateCategory.Error(), Kind: KindConflict}
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenMissing),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Error: authMessage(err), Kind: KindAuthentication}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: domain.ErrForbidden.Error(), Kind: KindAuthorization}
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error(), Kind: KindNotFound}
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrStatusConflict):
		return http.StatusConflict, errorResponse{Error: err.Error(), Kind: KindConflict}
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, errorResponse{Error: domain.ErrTooManyRequests.Error(), Kind: KindRateLimited}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: KindInternal}
}

// authMessage keeps token parser details out of responses.
func authMessage(err error) string {
	for _, known := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrTokenMissing,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

func kindForStatus(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuthentication
	case code == http.StatusForbidden:
		return KindAuthorization
	case code == http.StatusNotFound, code == http.StatusMethodNotAllowed:
		return KindNotFound
	case code == http.StatusConflict:
		return KindConflict
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= 500:
		return KindInternal
	default:
		return KindValidation
	}
}
