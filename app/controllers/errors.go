package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/shopadmin/app/services"
	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
)

const invalidBody = "Invalid request body"

// fail answers a service error. The kind picks the status; server-side
// failures are logged in full and answered with a fixed message.
func fail(c *appctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.Error(http.StatusBadRequest, services.Message(err))
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(services.Message(err))
	case errors.Is(err, services.ErrAuth):
		c.Unauthorized(services.Message(err))
	default:
		c.Logger().Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, publicMessage(err))
	}
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrPlacement):
		return "Failed to place order"
	case errors.Is(err, services.ErrSequencing):
		return "Error generating Order ID"
	case errors.Is(err, services.ErrUpdateFailed):
		return "Failed to update product"
	}
	return "Internal Server Error"
}
