package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/deppfellow/software-engineers/internal/model"
)

// SoftwareEngineerSQLite implements SoftwareEngineerRepository on SQLite via sqlx.
type SoftwareEngineerSQLite struct {
	db *sqlx.DB
}

// NewSoftwareEngineerSQLite creates a SQLite-backed repository.
func NewSoftwareEngineerSQLite(db *sqlx.DB) *SoftwareEngineerSQLite {
	return &SoftwareEngineerSQLite{db: db}
}

func (r *SoftwareEngineerSQLite) FindAll(ctx context.Context) ([]model.SoftwareEngineer, error) {
	engineers := []model.SoftwareEngineer{}
	if err := r.db.SelectContext(ctx, &engineers,
		`SELECT id, name, tech_stack FROM software_engineers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list software engineers: %w", err)
	}
	return engineers, nil
}

func (r *SoftwareEngineerSQLite) FindByID(ctx context.Context, id int64) (model.SoftwareEngineer, bool, error) {
	var engineer model.SoftwareEngineer
	err := r.db.GetContext(ctx, &engineer,
		`SELECT id, name, tech_stack FROM software_engineers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SoftwareEngineer{}, false, nil
		}
		return model.SoftwareEngineer{}, false, fmt.Errorf("get software engineer by id: %w", err)
	}
	return engineer, true, nil
}

func (r *SoftwareEngineerSQLite) Save(ctx context.Context, engineer model.SoftwareEngineer) (model.SoftwareEngineer, error) {
	if !engineer.IsNew() {
		result, err := r.db.NamedExecContext(ctx,
			`UPDATE software_engineers SET name = :name, tech_stack = :tech_stack WHERE id = :id`,
			engineer)
		if err != nil {
			return model.SoftwareEngineer{}, fmt.Errorf("update software engineer: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return model.SoftwareEngineer{}, fmt.Errorf("update software engineer: %w", err)
		}
		if affected > 0 {
			return engineer, nil
		}
		// unknown id: fall through to insert with a generated id
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO software_engineers (name, tech_stack) VALUES (?, ?)`,
		engineer.Name, engineer.TechStack)
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("insert software engineer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.SoftwareEngineer{}, fmt.Errorf("get last insert id: %w", err)
	}

	engineer.ID = id
	return engineer, nil
}

func (r *SoftwareEngineerSQLite) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM software_engineers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete software engineer: %w", err)
	}
	return nil
}
