package http

import (
	"strings"
	"time"

	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/metrics"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const actorKey = "actorID"

// provenance attaches the caller's address, agent and request id to the request
// context so ledger entries carry them.
func (s *Server) provenance(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := activity.WithProvenance(req.Context(), activity.Provenance{
			RemoteIP:  c.RealIP(),
			UserAgent: req.UserAgent(),
			RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		})
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			status = statusFor(errs.KindOf(err))
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		metrics.ObserveHTTP(c.Request().Method, c.Path(), status, time.Since(start).Seconds())
		return err
	}
}

// authenticate requires a bearer session token and stores the actor id for handlers.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errs.ErrInvalidCredentials
		}
		session, err := s.tokens.Parse(token)
		if err != nil {
			return errs.ErrInvalidCredentials
		}
		c.Set(actorKey, session.ActorID)
		return next(c)
	}
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func requester(c echo.Context) kernel.UUID {
	id, _ := c.Get(actorKey).(kernel.UUID)
	return id
}

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}
