package service

import (
	"github.com/mkline/member-portal/internal/config"
	"github.com/mkline/member-portal/internal/repository"
)

type Services struct {
	Tokens  *TokenService
	Auth    *AuthService
	Profile *ProfileService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Tokens:  NewTokenService(cfg),
		Auth:    NewAuthService(repos.User),
		Profile: NewProfileService(repos.User),
	}
}
