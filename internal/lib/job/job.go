// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: tasks are enqueued with asynq.Client
// and processed by the worker server started in Start.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/software-engineers/internal/config"
	"github.com/deppfellow/software-engineers/internal/model"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger
}

// NewJobService creates a JobService using the Redis address from cfg.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				QueueAudit: 1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSoftwareEngineerAudit, j.handleAuditTask)
	return mux
}

// Start registers the task handlers and starts the workers in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(j.mux()); err != nil {
		return err
	}

	return nil
}

// Stop shuts the workers down and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

// PublishSoftwareEngineerEvent enqueues an audit task for a mutation.
func (j *JobService) PublishSoftwareEngineerEvent(ctx context.Context, action model.ChangeAction, engineer model.SoftwareEngineer) error {
	task, err := NewAuditTask(AuditPayload{
		Action:     action,
		EngineerID: engineer.ID,
		Name:       engineer.Name,
		TechStack:  engineer.TechStack,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to build audit task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue audit task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("action", string(action)).
		Msg("audit task enqueued")

	return nil
}
