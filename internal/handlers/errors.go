package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/anonto42/tuiter/backend/internal/events"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// bindPath binds path parameters into dst and validates them.
// Every path parameter is an ObjectID; hex is lowercased so cache and event
// keys stay canonical.
func bindPath(c echo.Context, dst interface{}) error {
	vals := c.ParamValues()
	for i, v := range vals {
		vals[i] = strings.ToLower(v)
	}
	c.SetParamValues(vals...)
	if err := (&echo.DefaultBinder{}).BindPathParams(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// storeError maps a repository error to an HTTP error
func storeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(499, "client closed request")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// publish emits ev; the relationship change already succeeded so failures are only logged
func publish(ctx context.Context, p events.Publisher, ev events.Event) {
	if err := p.Publish(ctx, ev); err != nil {
		log.Printf("event publish failed: %v", err)
	}
}
