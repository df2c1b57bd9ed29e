package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleAuditTask writes the audit record of a software engineer mutation.
func (j *JobService) handleAuditTask(_ context.Context, t *asynq.Task) error {
	var p AuditPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal audit payload: %w", err)
	}

	j.logger.Info().
		Str("type", "audit").
		Str("action", string(p.Action)).
		Int64("engineer_id", p.EngineerID).
		Str("name", p.Name).
		Str("tech_stack", p.TechStack).
		Time("occurred_at", p.OccurredAt).
		Msg("software engineer changed")

	return nil
}
