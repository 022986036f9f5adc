package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/pkg/auth"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
)

// LoginInput is the admin login form.
type LoginInput struct {
	Name     string `json:"admin_name"`
	Password string `json:"admin_pw"`
}

type AuthService struct {
	admins *repositories.AdminRepository
}

func NewAuthService(admins *repositories.AdminRepository) *AuthService {
	return &AuthService{admins: admins}
}

// Login checks the credentials and returns the admin with a signed token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.Admin, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Password == "" {
		return models.Admin{}, "", ErrMissingLogin
	}

	admin, err := s.admins.FindByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return models.Admin{}, "", ErrBadCredentials
		}
		return models.Admin{}, "", persistence(ErrPersistence, err)
	}
	if !auth.CheckPassword(admin.Password, in.Password) {
		logger.WithCtx(ctx).Warn("admin login rejected", "admin_name", name)
		return models.Admin{}, "", ErrBadCredentials
	}

	token, err := auth.IssueToken(admin.ID, admin.Name)
	if err != nil {
		return models.Admin{}, "", persistence(ErrPersistence, err)
	}
	return admin, token, nil
}
