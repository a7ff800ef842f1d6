package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/pkg/models"
)

// Precondition failures. Nothing is written when these are returned.
var (
	ErrNoQuestionnaire = errors.New("project has no questionnaire")
	ErrNoProducts      = errors.New("no eligible products in catalog")
)

// Service runs selection generation for a project: it checks preconditions,
// owns the questionnaire -> generating -> review status transition, and
// replaces the project's selections wholesale on success. Any failure after
// the transition starts reverts the project to questionnaire so the workflow
// never sticks in generating.
type Service interface {
	GenerateSelections(ctx context.Context, projectID uuid.UUID) ([]models.Selection, error)
}

type service struct {
	repository repository.ProjectRepository
	generator  *Generator
}

func NewService(repo repository.ProjectRepository, generator *Generator) Service {
	if generator == nil {
		generator = NewGenerator(nil)
	}
	return &service{
		repository: repo,
		generator:  generator,
	}
}

func (s *service) GenerateSelections(ctx context.Context, projectID uuid.UUID) ([]models.Selection, error) {
	project, err := s.repository.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	questionnaire, err := s.repository.GetQuestionnaire(ctx, projectID)
	if err != nil || questionnaire == nil {
		return nil, ErrNoQuestionnaire
	}

	if err := s.repository.UpdateStatus(ctx, projectID, models.ProjectStatusGenerating); err != nil {
		return nil, fmt.Errorf("failed to mark project generating: %w", err)
	}

	selections, err := s.generate(ctx, projectID, project, questionnaire)
	if err != nil {
		// Compensate: put the project back where it was instead of
		// leaving it stuck in generating.
		if revertErr := s.repository.UpdateStatus(ctx, projectID, models.ProjectStatusQuestionnaire); revertErr != nil {
			log.Error().Err(revertErr).Str("projectID", projectID.String()).Msg("Failed to revert project status")
		}
		return nil, err
	}

	if err := s.repository.UpdateStatus(ctx, projectID, models.ProjectStatusReview); err != nil {
		return nil, fmt.Errorf("failed to mark project in review: %w", err)
	}

	log.Info().
		Str("projectID", projectID.String()).
		Int("selections", len(selections)).
		Msg("Selections generated")

	return selections, nil
}

func (s *service) generate(ctx context.Context, projectID uuid.UUID, project *models.Project, questionnaire *models.Questionnaire) ([]models.Selection, error) {
	catalogID, err := uuid.Parse(project.CatalogID)
	if err != nil {
		return nil, fmt.Errorf("project has invalid catalog: %w", err)
	}

	products, err := s.repository.ListAvailableProducts(ctx, catalogID, questionnaire.CategoriesSelected)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	selections := s.generator.Generate(questionnaire, products)

	now := time.Now()
	for i := range selections {
		selections[i].ID = uuid.New().String()
		selections[i].ProjectID = project.ID
		selections[i].CreatedAt = now
	}

	// Replacement, not accumulation: prior selections for the project are
	// deleted and the fresh set inserted in one transaction.
	if err := s.repository.ReplaceSelections(ctx, projectID, selections); err != nil {
		return nil, fmt.Errorf("failed to store selections: %w", err)
	}

	return selections, nil
}
