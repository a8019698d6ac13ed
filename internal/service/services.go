package service

import (
	"github.com/deppfellow/dytool-backend/internal/repository"
	"github.com/deppfellow/dytool-backend/internal/server"
)

// Services groups the business services.
type Services struct {
	User *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		User: NewUserService(UserServiceDeps{
			Resolver:        s.Douyin,
			Fetcher:         s.Douyin,
			Cache:           repos.SecUserID,
			MinCookieLength: s.Config.Douyin.MinCookieLength,
			Logger:          s.Logger,
		}),
	}
}
