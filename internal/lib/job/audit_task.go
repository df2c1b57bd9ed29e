package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/software-engineers/internal/model"
)

const (
	// TaskSoftwareEngineerAudit is the task type routed to the audit handler.
	TaskSoftwareEngineerAudit = "software_engineer:audit"

	// QueueAudit is the queue audit tasks are enqueued on.
	QueueAudit = "low"
)

// AuditPayload describes one mutation of a software engineer record.
type AuditPayload struct {
	Action     model.ChangeAction `json:"action"`
	EngineerID int64              `json:"engineer_id"`
	Name       string             `json:"name,omitempty"`
	TechStack  string             `json:"tech_stack,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewAuditTask builds the asynq task for payload: three retries, 30s timeout.
func NewAuditTask(payload AuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSoftwareEngineerAudit,
		data,
		asynq.MaxRetry(3),
		asynq.Queue(QueueAudit),
		asynq.Timeout(30*time.Second),
	), nil
}
