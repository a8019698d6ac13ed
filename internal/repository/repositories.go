package repository

import (
	"github.com/deppfellow/dytool-backend/internal/server"
)

// Repositories groups the repositories handed to the service layer.
type Repositories struct {
	SecUserID *SecUserIDRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		SecUserID: NewSecUserIDRepository(s.Redis, s.Config.Redis.SecUserIDTTL, s.Logger),
	}
}
