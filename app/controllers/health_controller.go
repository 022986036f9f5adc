package controllers

import (
	"context"
	"net/http"
	"time"

	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
)

// HealthController reports whether the database answers.
type HealthController struct {
	check func(context.Context) error
}

func NewHealthController(check func(context.Context) error) *HealthController {
	return &HealthController{check: check}
}

// Show handles GET /healthz.
func (h *HealthController) Show(c *appctx.Context) {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.check(ctx); err != nil {
		c.Logger().Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
