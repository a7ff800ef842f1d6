package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/pkg/models"
)

// PostgresProjectRepository implements ProjectRepository for PostgreSQL
type PostgresProjectRepository struct {
	db *sql.DB
}

// NewPostgresProjectRepository creates a new PostgreSQL project repository
func NewPostgresProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &PostgresProjectRepository{db: db}
}

// GetByID retrieves a project by ID
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, name, status, catalog_id, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var project models.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Status,
		&project.CatalogID,
		&project.CreatedAt,
		&project.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return &project, nil
}

// UpdateStatus updates the workflow status of a project
func (r *PostgresProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// UpsertQuestionnaire inserts or replaces the questionnaire for a project
func (r *PostgresProjectRepository) UpsertQuestionnaire(ctx context.Context, questionnaire *models.Questionnaire) error {
	roomList, err := json.Marshal(questionnaire.RoomList)
	if err != nil {
		return fmt.Errorf("failed to marshal room list: %w", err)
	}

	query := `
		INSERT INTO questionnaires (id, project_id, room_list, categories_selected, finish_colors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id) DO UPDATE
		SET room_list = EXCLUDED.room_list,
		    categories_selected = EXCLUDED.categories_selected,
		    finish_colors = EXCLUDED.finish_colors,
		    updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		questionnaire.ID,
		questionnaire.ProjectID,
		string(roomList),
		pq.Array(questionnaire.CategoriesSelected),
		pq.Array(questionnaire.FinishColors),
		questionnaire.CreatedAt,
		questionnaire.UpdatedAt)

	return err
}

// GetQuestionnaire retrieves the questionnaire for a project
func (r *PostgresProjectRepository) GetQuestionnaire(ctx context.Context, projectID uuid.UUID) (*models.Questionnaire, error) {
	query := `
		SELECT id, project_id, room_list, categories_selected, finish_colors, created_at, updated_at
		FROM questionnaires
		WHERE project_id = $1`

	var questionnaire models.Questionnaire
	var roomListStr string

	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&questionnaire.ID,
		&questionnaire.ProjectID,
		&roomListStr,
		pq.Array(&questionnaire.CategoriesSelected),
		pq.Array(&questionnaire.FinishColors),
		&questionnaire.CreatedAt,
		&questionnaire.UpdatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(roomListStr), &questionnaire.RoomList); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room list: %w", err)
	}

	return &questionnaire, nil
}

// ListAvailableProducts retrieves available products for a catalog, limited
// to the selected categories
func (r *PostgresProjectRepository) ListAvailableProducts(ctx context.Context, catalogID uuid.UUID, categories []string) ([]models.Product, error) {
	query := `
		SELECT id, catalog_id, name, category, subcategory, finish_options, unit_price, is_available
		FROM products
		WHERE catalog_id = $1
		  AND is_available = TRUE
		  AND category = ANY($2)
		ORDER BY category, subcategory, name`

	rows, err := r.db.QueryContext(ctx, query, catalogID, pq.Array(categories))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		var subcategory, finishOptionsStr sql.NullString

		err := rows.Scan(
			&product.ID,
			&product.CatalogID,
			&product.Name,
			&product.Category,
			&subcategory,
			&finishOptionsStr,
			&product.UnitPrice,
			&product.IsAvailable)

		if err != nil {
			return nil, err
		}

		if subcategory.Valid {
			product.Subcategory = subcategory.String
		}
		if finishOptionsStr.Valid {
			if err := json.Unmarshal([]byte(finishOptionsStr.String), &product.FinishOptions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal finish options: %w", err)
			}
		}

		products = append(products, product)
	}

	return products, rows.Err()
}

// ReplaceSelections deletes all prior selections for a project and inserts
// the fresh set in one transaction. Generation is idempotent by replacement,
// never additive.
func (r *PostgresProjectRepository) ReplaceSelections(ctx context.Context, projectID uuid.UUID, selections []models.Selection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM selections WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	query := `
		INSERT INTO selections (id, project_id, room_name, product_id, product_name, quantity, finish, unit_price, extended_price, sort_order, is_locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for _, selection := range selections {
		if _, err := tx.ExecContext(ctx, query,
			selection.ID,
			selection.ProjectID,
			selection.RoomName,
			selection.ProductID,
			selection.ProductName,
			selection.Quantity,
			selection.Finish,
			selection.UnitPrice,
			selection.ExtendedPrice,
			selection.SortOrder,
			selection.IsLocked,
			selection.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListSelections retrieves a project's selections in display order
func (r *PostgresProjectRepository) ListSelections(ctx context.Context, projectID uuid.UUID) ([]models.Selection, error) {
	query := `
		SELECT id, project_id, room_name, product_id, product_name, quantity, finish, unit_price, extended_price, sort_order, is_locked, created_at
		FROM selections
		WHERE project_id = $1
		ORDER BY sort_order`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []models.Selection
	for rows.Next() {
		var selection models.Selection
		var finish sql.NullString

		err := rows.Scan(
			&selection.ID,
			&selection.ProjectID,
			&selection.RoomName,
			&selection.ProductID,
			&selection.ProductName,
			&selection.Quantity,
			&finish,
			&selection.UnitPrice,
			&selection.ExtendedPrice,
			&selection.SortOrder,
			&selection.IsLocked,
			&selection.CreatedAt)

		if err != nil {
			return nil, err
		}

		if finish.Valid {
			selection.Finish = &finish.String
		}

		selections = append(selections, selection)
	}

	return selections, rows.Err()
}
