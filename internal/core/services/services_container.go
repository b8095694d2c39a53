package services

import (
	portsrepo "github.com/vidverse/vidverse_backend/internal/core/ports/repositories"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, media portssvc.MediaUploaderSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Media = media
	container.Token = NewTokenService(cfg)
	container.User = NewUserService(repos.UserRepo, media)
	container.Auth = NewAuthService(repos.UserRepo, container.Token)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.TokenSvcFacade = (*tokenService)(nil)
	_ portssvc.AuthSvcFacade  = (*authService)(nil)
	_ portssvc.UserSvcFacade  = (*userService)(nil)
)
