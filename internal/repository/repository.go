// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"context"

	"github.com/deppfellow/software-engineers/internal/model"
)

// Repository is the generic persistence contract for an entity T keyed by ID.
type Repository[T any, ID comparable] interface {
	// FindAll returns every record ordered by id.
	FindAll(ctx context.Context) ([]T, error)

	// FindByID reports found=false when no record has id; absence is not an error.
	FindByID(ctx context.Context, id ID) (entity T, found bool, err error)

	// Save inserts entity when its id is unset, otherwise overwrites the record
	// with that id. An id that matches no record is inserted as a new record
	// with a store-generated id. The persisted state is returned.
	Save(ctx context.Context, entity T) (T, error)

	// DeleteByID removes the record with id; a missing id is a no-op.
	DeleteByID(ctx context.Context, id ID) error
}

// SoftwareEngineerRepository persists software engineers keyed by their int64 id.
type SoftwareEngineerRepository = Repository[model.SoftwareEngineer, int64]
