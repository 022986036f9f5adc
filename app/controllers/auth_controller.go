package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login handles POST /admin_login.
func (h *AuthController) Login(c *appctx.Context) {
	var in services.LoginInput
	if err := c.DecodeJSON(&in); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return
	}

	admin, token, err := h.service.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]any{
		"message": "Login Successful",
		"data":    []models.Admin{admin},
		"token":   token,
	})
}
