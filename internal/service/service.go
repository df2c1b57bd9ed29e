// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"context"

	"github.com/deppfellow/software-engineers/internal/model"
)

// EventPublisher receives a notification after every successful mutation.
type EventPublisher interface {
	PublishSoftwareEngineerEvent(ctx context.Context, action model.ChangeAction, engineer model.SoftwareEngineer) error
}
