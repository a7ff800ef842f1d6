package repository

import (
	"context"

	"github.com/davisolsen/planpick/pkg/models"
	"github.com/google/uuid"
)

// BlueprintRepository defines the interface for blueprint data operations
type BlueprintRepository interface {
	Create(ctx context.Context, blueprint *models.Blueprint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Blueprint, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Blueprint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreAnalysis(ctx context.Context, analysis *models.BlueprintAnalysis) error
	GetAnalysis(ctx context.Context, blueprintID uuid.UUID) (*models.BlueprintAnalysis, error)
}

// ProjectRepository defines the interface for project, questionnaire,
// catalog and selection data operations
type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpsertQuestionnaire(ctx context.Context, questionnaire *models.Questionnaire) error
	GetQuestionnaire(ctx context.Context, projectID uuid.UUID) (*models.Questionnaire, error)
	ListAvailableProducts(ctx context.Context, catalogID uuid.UUID, categories []string) ([]models.Product, error)
	ReplaceSelections(ctx context.Context, projectID uuid.UUID, selections []models.Selection) error
	ListSelections(ctx context.Context, projectID uuid.UUID) ([]models.Selection, error)
}
