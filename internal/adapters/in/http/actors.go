package http

import (
	"net/http"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// Login handles POST /api/v1/auth/login. The identifier is an email or a phone number.
func (s *Server) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewAuthenticateCommand(req.Identifier, req.Secret)
	if err != nil {
		return err
	}
	session, err := s.h.Authenticate.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Session{
		Token:     session.Token,
		ActorID:   session.ActorID.String(),
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt,
	})
}

type registerRequest struct {
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
	Role   string `json:"role"`
	Guest  bool   `json:"guest"`
}

// RegisterActor handles POST /api/v1/actors.
func (s *Server) RegisterActor(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewRegisterActorCommand(req.Email, req.Phone, req.Name, req.Secret, req.Role, req.Guest)
	if err != nil {
		return err
	}
	actor, err := s.h.RegisterActor.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toActor(actor))
}

// Authorize handles GET /api/v1/authorize?capability=... for the requester.
func (s *Server) Authorize(c echo.Context) error {
	query, err := queries.NewAuthorizeQuery(requester(c), c.QueryParam("capability"))
	if err != nil {
		return err
	}
	allowed, err := s.h.Authorize.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"allowed": allowed})
}

type promoteRequest struct {
	Role string `json:"role"`
}

// PromoteActor handles POST /api/v1/actors/:id/promote.
func (s *Server) PromoteActor(c echo.Context) error {
	actorID, err := pathID(c)
	if err != nil {
		return err
	}
	var req promoteRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewPromoteActorCommand(actorID, req.Role, requester(c))
	if err != nil {
		return err
	}
	actor, err := s.h.PromoteActor.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActor(actor))
}

// DeactivateActor handles POST /api/v1/actors/:id/deactivate.
func (s *Server) DeactivateActor(c echo.Context) error {
	actorID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeactivateActorCommand(actorID, requester(c))
	if err != nil {
		return err
	}
	actor, err := s.h.DeactivateActor.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActor(actor))
}

type grantRequest struct {
	Capability string    `json:"capability"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// GrantCapability handles POST /api/v1/actors/:id/grants.
func (s *Server) GrantCapability(c echo.Context) error {
	actorID, err := pathID(c)
	if err != nil {
		return err
	}
	var req grantRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewGrantCapabilityCommand(actorID, req.Capability, req.ExpiresAt, requester(c))
	if err != nil {
		return err
	}
	grant, err := s.h.GrantCapability.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Grant{
		ID:         grant.ID.String(),
		ActorID:    grant.ActorID.String(),
		Capability: string(grant.Capability),
		ExpiresAt:  grant.ExpiresAt,
	})
}
