package repository

import (
	"github.com/deppfellow/software-engineers/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	SoftwareEngineers SoftwareEngineerRepository
}

// NewRepositories builds the repositories for whichever driver s.DB was opened with.
func NewRepositories(s *server.Server) *Repositories {
	var engineers SoftwareEngineerRepository
	if s.DB.Pool != nil {
		engineers = NewSoftwareEngineerPostgres(s.DB.Pool)
	} else {
		engineers = NewSoftwareEngineerSQLite(s.DB.SQL)
	}

	return &Repositories{
		SoftwareEngineers: engineers,
	}
}
