package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/software-engineers/internal/model"
	"github.com/deppfellow/software-engineers/internal/repository"
)

type SoftwareEngineerService struct {
	repo      repository.SoftwareEngineerRepository
	publisher EventPublisher
	logger    *zerolog.Logger
}

// NewSoftwareEngineerService builds the service. publisher may be nil.
func NewSoftwareEngineerService(repo repository.SoftwareEngineerRepository, publisher EventPublisher, logger *zerolog.Logger) *SoftwareEngineerService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &SoftwareEngineerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllSoftwareEngineers returns every engineer, or an empty slice.
func (s *SoftwareEngineerService) GetAllSoftwareEngineers(ctx context.Context) ([]model.SoftwareEngineer, error) {
	engineers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list software engineers: %w", err)
	}

	if engineers == nil {
		engineers = []model.SoftwareEngineer{}
	}
	return engineers, nil
}

// GetSoftwareEngineerByID returns *model.NotFoundError when id is absent.
func (s *SoftwareEngineerService) GetSoftwareEngineerByID(ctx context.Context, id int64) (model.SoftwareEngineer, error) {
	engineer, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("failed to get software engineer %d: %w", id, err)
	}
	if !found {
		return model.SoftwareEngineer{}, &model.NotFoundError{ID: id}
	}

	return engineer, nil
}

func (s *SoftwareEngineerService) InsertSoftwareEngineer(ctx context.Context, engineer model.SoftwareEngineer) (model.SoftwareEngineer, error) {
	saved, err := s.repo.Save(ctx, engineer)
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("failed to insert software engineer: %w", err)
	}

	s.publish(ctx, model.ChangeCreated, saved)
	return saved, nil
}

// DeleteSoftwareEngineerByID succeeds whether or not id exists.
func (s *SoftwareEngineerService) DeleteSoftwareEngineerByID(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete software engineer %d: %w", id, err)
	}

	s.publish(ctx, model.ChangeDeleted, model.SoftwareEngineer{ID: id})
	return nil
}

// UpdateSoftwareEngineerByID overwrites name and tech stack of the engineer
// with id. The id carried by update is ignored.
func (s *SoftwareEngineerService) UpdateSoftwareEngineerByID(ctx context.Context, id int64, update model.SoftwareEngineer) (model.SoftwareEngineer, error) {
	engineer, err := s.GetSoftwareEngineerByID(ctx, id)
	if err != nil {
		return model.SoftwareEngineer{}, err
	}

	engineer.Name = update.Name
	engineer.TechStack = update.TechStack

	saved, err := s.repo.Save(ctx, engineer)
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("failed to update software engineer %d: %w", id, err)
	}

	s.publish(ctx, model.ChangeUpdated, saved)
	return saved, nil
}

func (s *SoftwareEngineerService) publish(ctx context.Context, action model.ChangeAction, engineer model.SoftwareEngineer) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishSoftwareEngineerEvent(ctx, action, engineer); err != nil {
		s.logger.Warn().
			Err(err).
			Str("action", string(action)).
			Int64("engineer_id", engineer.ID).
			Msg("failed to publish software engineer event")
	}
}
