package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/pkg/models"
)

// PostgresBlueprintRepository implements BlueprintRepository for PostgreSQL
type PostgresBlueprintRepository struct {
	db *sql.DB
}

// NewPostgresBlueprintRepository creates a new PostgreSQL blueprint repository
func NewPostgresBlueprintRepository(db *sql.DB) repository.BlueprintRepository {
	return &PostgresBlueprintRepository{db: db}
}

// Create inserts a new blueprint record
func (r *PostgresBlueprintRepository) Create(ctx context.Context, blueprint *models.Blueprint) error {
	query := `
		INSERT INTO blueprints (id, project_id, status, progress, file_s3_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		blueprint.ID,
		blueprint.ProjectID,
		blueprint.Status,
		blueprint.Progress,
		blueprint.FileS3Key,
		blueprint.CreatedAt,
		blueprint.UpdatedAt)

	return err
}

// GetByID retrieves a blueprint by ID
func (r *PostgresBlueprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Blueprint, error) {
	query := `
		SELECT id, project_id, status, progress, file_s3_key, error_message, created_at, updated_at, completed_at
		FROM blueprints
		WHERE id = $1`

	return scanBlueprint(r.db.QueryRowContext(ctx, query, id))
}

// GetByProjectID retrieves blueprints for a project, newest first
func (r *PostgresBlueprintRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Blueprint, error) {
	query := `
		SELECT id, project_id, status, progress, file_s3_key, error_message, created_at, updated_at, completed_at
		FROM blueprints
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blueprints []*models.Blueprint
	for rows.Next() {
		blueprint, err := scanBlueprint(rows)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, blueprint)
	}

	return blueprints, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlueprint(row rowScanner) (*models.Blueprint, error) {
	var blueprint models.Blueprint
	var fileS3Key, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&blueprint.ID,
		&blueprint.ProjectID,
		&blueprint.Status,
		&blueprint.Progress,
		&fileS3Key,
		&errorMsg,
		&blueprint.CreatedAt,
		&blueprint.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if fileS3Key.Valid {
		blueprint.FileS3Key = &fileS3Key.String
	}
	if errorMsg.Valid {
		blueprint.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		blueprint.CompletedAt = &completedAt.Time
	}

	return &blueprint, nil
}

// UpdateStatus updates the status and progress of a blueprint analysis
func (r *PostgresBlueprintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE blueprints
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks a blueprint analysis as failed with an error message
func (r *PostgresBlueprintRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE blueprints
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreAnalysis stores a sanitized analysis record. A re-analysis replaces
// the previous record for the blueprint.
func (r *PostgresBlueprintRepository) StoreAnalysis(ctx context.Context, analysis *models.BlueprintAnalysis) error {
	record, err := json.Marshal(analysis.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis record: %w", err)
	}

	warnings, err := json.Marshal(analysis.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM blueprint_analyses WHERE blueprint_id = $1`,
		analysis.BlueprintID); err != nil {
		return err
	}

	query := `
		INSERT INTO blueprint_analyses (id, blueprint_id, record, warnings, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctx, query,
		analysis.ID,
		analysis.BlueprintID,
		string(record),
		string(warnings),
		analysis.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetAnalysis retrieves the stored analysis for a blueprint
func (r *PostgresBlueprintRepository) GetAnalysis(ctx context.Context, blueprintID uuid.UUID) (*models.BlueprintAnalysis, error) {
	query := `
		SELECT id, blueprint_id, record, warnings, created_at
		FROM blueprint_analyses
		WHERE blueprint_id = $1`

	var analysis models.BlueprintAnalysis
	var recordStr string
	var warningsStr sql.NullString

	err := r.db.QueryRowContext(ctx, query, blueprintID).Scan(
		&analysis.ID,
		&analysis.BlueprintID,
		&recordStr,
		&warningsStr,
		&analysis.CreatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(recordStr), &analysis.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis record: %w", err)
	}
	if warningsStr.Valid {
		if err := json.Unmarshal([]byte(warningsStr.String), &analysis.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}

	return &analysis, nil
}
