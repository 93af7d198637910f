package http

import (
	"net/http"
	"strconv"
	"time"

	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// QueryActivityLog handles GET /api/v1/activity. Every query parameter is optional;
// from and to are RFC 3339 timestamps.
func (s *Server) QueryActivityLog(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	query, err := queries.NewQueryActivityLogQuery(filter, requester(c))
	if err != nil {
		return err
	}
	entries, err := s.h.QueryActivityLog.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]ActivityEntry, len(entries))
	for i, e := range entries {
		response[i] = toActivityEntry(e)
	}
	return c.JSON(http.StatusOK, response)
}

func parseFilter(c echo.Context) (activity.Filter, error) {
	filter := activity.Filter{
		Action:     activity.Action(c.QueryParam("action")),
		EntityType: c.QueryParam("entityType"),
		EntityID:   c.QueryParam("entityId"),
	}
	if raw := c.QueryParam("actorId"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return activity.Filter{}, err
		}
		filter.ActorID = &id
	}
	var err error
	if filter.From, err = parseTime(c.QueryParam("from"), "from"); err != nil {
		return activity.Filter{}, err
	}
	if filter.To, err = parseTime(c.QueryParam("to"), "to"); err != nil {
		return activity.Filter{}, err
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if filter.Limit, err = strconv.Atoi(raw); err != nil {
			return activity.Filter{}, errs.NewValueIsInvalidErrorWithCause("limit", err)
		}
	}
	return filter, nil
}

func parseTime(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &t, nil
}
