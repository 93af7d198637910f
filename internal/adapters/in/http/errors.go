package http

import (
	"errors"
	"net/http"

	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the only error body callers ever see.
type Error struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:         http.StatusBadRequest,
	errs.KindNotFound:           http.StatusNotFound,
	errs.KindStateConflict:      http.StatusConflict,
	errs.KindPermissionDenied:   http.StatusForbidden,
	errs.KindInvalidCredentials: http.StatusUnauthorized,
	errs.KindAccountLocked:      http.StatusLocked,
	errs.KindAccountInactive:    http.StatusForbidden,
	errs.KindRoleLimitExceeded:  http.StatusConflict,
	errs.KindNoCourierAvailable: http.StatusServiceUnavailable,
	errs.KindItemUnavailable:    http.StatusUnprocessableEntity,
	errs.KindTransient:          http.StatusServiceUnavailable,
	errs.KindInternal:           http.StatusInternalServerError,
}

func statusFor(kind errs.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var body Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		body = fromHTTPError(he)
	default:
		body = Error{Kind: errs.KindOf(err), Message: err.Error()}
	}

	status := statusFor(body.Kind)
	if he != nil {
		status = he.Code
	}
	switch body.Kind { //nolint:exhaustive // other kinds carry caller-safe messages
	case errs.KindInternal:
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		body.Message = "internal error"
	case errs.KindTransient:
		s.logger.WarnContext(c.Request().Context(), "request failed, retryable",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		body.Message = "temporarily unavailable, retry later"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.WarnContext(c.Request().Context(), "writing error response failed", "error", err)
	}
}

func fromHTTPError(he *echo.HTTPError) Error {
	msg := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok {
		msg = m
	}
	switch {
	case he.Code == http.StatusNotFound:
		return Error{Kind: errs.KindNotFound, Message: msg}
	case he.Code == http.StatusUnauthorized:
		return Error{Kind: errs.KindInvalidCredentials, Message: msg}
	case he.Code >= 400 && he.Code < 500:
		return Error{Kind: errs.KindValidation, Message: msg}
	default:
		return Error{Kind: errs.KindInternal, Message: msg}
	}
}
