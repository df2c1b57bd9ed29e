package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/software-engineers/internal/model"
)

// SoftwareEngineerPostgres implements SoftwareEngineerRepository on a pgx pool.
type SoftwareEngineerPostgres struct {
	pool *pgxpool.Pool
}

// NewSoftwareEngineerPostgres creates a Postgres-backed repository.
func NewSoftwareEngineerPostgres(pool *pgxpool.Pool) *SoftwareEngineerPostgres {
	return &SoftwareEngineerPostgres{pool: pool}
}

func (r *SoftwareEngineerPostgres) FindAll(ctx context.Context) ([]model.SoftwareEngineer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, tech_stack FROM software_engineers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list software engineers: %w", err)
	}

	engineers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SoftwareEngineer])
	if err != nil {
		return nil, fmt.Errorf("scan software engineers: %w", err)
	}
	return engineers, nil
}

func (r *SoftwareEngineerPostgres) FindByID(ctx context.Context, id int64) (model.SoftwareEngineer, bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, tech_stack FROM software_engineers WHERE id = $1`, id)
	if err != nil {
		return model.SoftwareEngineer{}, false, fmt.Errorf("get software engineer by id: %w", err)
	}

	engineer, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SoftwareEngineer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SoftwareEngineer{}, false, nil
		}
		return model.SoftwareEngineer{}, false, fmt.Errorf("get software engineer by id: %w", err)
	}
	return engineer, true, nil
}

func (r *SoftwareEngineerPostgres) Save(ctx context.Context, engineer model.SoftwareEngineer) (model.SoftwareEngineer, error) {
	if !engineer.IsNew() {
		rows, err := r.pool.Query(ctx,
			`UPDATE software_engineers SET name = $2, tech_stack = $3
			 WHERE id = $1
			 RETURNING id, name, tech_stack`,
			engineer.ID, engineer.Name, engineer.TechStack,
		)
		if err != nil {
			return model.SoftwareEngineer{}, fmt.Errorf("update software engineer: %w", err)
		}

		updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SoftwareEngineer])
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.SoftwareEngineer{}, fmt.Errorf("update software engineer: %w", err)
		}
		// unknown id: fall through to insert with a generated id
	}

	rows, err := r.pool.Query(ctx,
		`INSERT INTO software_engineers (name, tech_stack)
		 VALUES ($1, $2)
		 RETURNING id, name, tech_stack`,
		engineer.Name, engineer.TechStack,
	)
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("insert software engineer: %w", err)
	}

	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SoftwareEngineer])
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("insert software engineer: %w", err)
	}
	return inserted, nil
}

func (r *SoftwareEngineerPostgres) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM software_engineers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete software engineer: %w", err)
	}
	return nil
}
