package service

import (
	"github.com/deppfellow/software-engineers/internal/repository"
	"github.com/deppfellow/software-engineers/internal/server"
)

type Services struct {
	SoftwareEngineers *SoftwareEngineerService
}

// NewService wires the services on top of repos. Audit events are published
// through the job service when Redis is configured.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var publisher EventPublisher
	if s.Job != nil {
		publisher = s.Job
	}

	return &Services{
		SoftwareEngineers: NewSoftwareEngineerService(repos.SoftwareEngineers, publisher, s.Logger),
	}, nil
}
