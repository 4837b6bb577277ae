package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/db"
)

type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:         http.StatusUnprocessableEntity,
	apperr.KindNotFound:           http.StatusNotFound,
	apperr.KindConflict:           http.StatusConflict,
	apperr.KindUnauthenticated:    http.StatusUnauthorized,
	apperr.KindAccountInactive:    http.StatusForbidden,
	apperr.KindInvalidTimeZone:    http.StatusBadRequest,
	apperr.KindStorageUnavailable: http.StatusServiceUnavailable,
	apperr.KindRateLimited:        http.StatusTooManyRequests,
}

var kindCode = map[apperr.Kind]string{
	apperr.KindValidation:         "validation_error",
	apperr.KindNotFound:           "not_found",
	apperr.KindConflict:           "conflict",
	apperr.KindUnauthenticated:    "unauthenticated",
	apperr.KindAccountInactive:    "account_inactive",
	apperr.KindInvalidTimeZone:    "invalid_time_zone",
	apperr.KindStorageUnavailable: "storage_unavailable",
	apperr.KindRateLimited:        "rate_limited",
}

// ErrorHandler maps the apperr taxonomy to HTTP statuses and structured JSON
// bodies. Internal errors are logged with detail and returned opaque.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// echo's own errors (404 route, bind failures) pass through.
		if he, ok := err.(*echo.HTTPError); ok {
			msg, _ := he.Message.(string)
			if msg == "" {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, map[string]errorBody{"error": {Code: "http_error", Message: msg}})
			return
		}

		if e := apperr.As(err); e != nil && e.Kind != apperr.KindInternal {
			_ = c.JSON(kindStatus[e.Kind], map[string]errorBody{"error": {
				Code:    kindCode[e.Kind],
				Message: e.Msg,
				Fields:  e.Fields,
			}})
			return
		}

		// Pool acquire and connect failures that escaped the service layer
		// untranslated are retryable, not internal.
		if db.IsUnavailable(err) {
			rid, _ := c.Get("request_id").(string)
			logger.Warn().Err(err).Str("request_id", rid).Msg("storage unavailable")
			_ = c.JSON(kindStatus[apperr.KindStorageUnavailable], map[string]errorBody{"error": {
				Code:    kindCode[apperr.KindStorageUnavailable],
				Message: "storage unavailable",
			}})
			return
		}

		rid, _ := c.Get("request_id").(string)
		logger.Error().Err(err).Str("request_id", rid).Msg("unhandled error")
		_ = c.JSON(http.StatusInternalServerError, map[string]errorBody{"error": {
			Code:    "internal",
			Message: "internal server error",
		}})
	}
}
