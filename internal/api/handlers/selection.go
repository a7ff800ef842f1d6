package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/davisolsen/planpick/internal/export"
	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/internal/selection"
	"github.com/davisolsen/planpick/pkg/models"
)

// SelectionHandler handles questionnaire and selection HTTP requests
type SelectionHandler struct {
	repo         repository.ProjectRepository
	selectionSvc selection.Service
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(repo repository.ProjectRepository, selectionSvc selection.Service) *SelectionHandler {
	return &SelectionHandler{
		repo:         repo,
		selectionSvc: selectionSvc,
	}
}

// PutQuestionnaire saves the questionnaire for a project
func (h *SelectionHandler) PutQuestionnaire(ctx context.Context, req *models.PutQuestionnaireRequest) (*models.PutQuestionnaireResponse, error) {
	projectID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid project ID", err)
	}

	if _, err := h.repo.GetByID(ctx, projectID); err != nil {
		return nil, huma.Error404NotFound("Project not found", err)
	}

	if len(req.Body.RoomList) == 0 {
		return nil, huma.Error400BadRequest("Questionnaire needs at least one room", nil)
	}
	if len(req.Body.CategoriesSelected) == 0 {
		return nil, huma.Error400BadRequest("Questionnaire needs at least one category", nil)
	}

	questionnaire := &models.Questionnaire{
		ID:                 uuid.New().String(),
		ProjectID:          projectID.String(),
		RoomList:           req.Body.RoomList,
		CategoriesSelected: req.Body.CategoriesSelected,
		FinishColors:       req.Body.FinishColors,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := h.repo.UpsertQuestionnaire(ctx, questionnaire); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save questionnaire", err)
	}

	if err := h.repo.UpdateStatus(ctx, projectID, models.ProjectStatusQuestionnaire); err != nil {
		return nil, huma.Error500InternalServerError("Failed to update project status", err)
	}

	log.Info().Str("projectID", projectID.String()).Int("rooms", len(questionnaire.RoomList)).Msg("Questionnaire saved")
	return &models.PutQuestionnaireResponse{Body: questionnaire}, nil
}

// GenerateSelections runs selection generation for a project
func (h *SelectionHandler) GenerateSelections(ctx context.Context, req *models.GenerateSelectionsRequest) (*models.GenerateSelectionsResponse, error) {
	projectID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid project ID", err)
	}

	selections, err := h.selectionSvc.GenerateSelections(ctx, projectID)
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrNoQuestionnaire):
			return nil, huma.Error409Conflict("Complete the questionnaire before generating selections", err)
		case errors.Is(err, selection.ErrNoProducts):
			return nil, huma.Error409Conflict("The catalog has no available products for the selected categories", err)
		default:
			return nil, huma.Error500InternalServerError("Failed to generate selections", err)
		}
	}

	return &models.GenerateSelectionsResponse{
		Body: selectionsBody(selections),
	}, nil
}

// ListSelections returns the current selections for a project
func (h *SelectionHandler) ListSelections(ctx context.Context, req *models.ListSelectionsRequest) (*models.ListSelectionsResponse, error) {
	projectID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid project ID", err)
	}

	selections, err := h.repo.ListSelections(ctx, projectID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list selections", err)
	}

	return &models.ListSelectionsResponse{
		Body: selectionsBody(selections),
	}, nil
}

func selectionsBody(selections []models.Selection) models.GenerateSelectionsResponseBody {
	var total float64
	for _, s := range selections {
		total += s.ExtendedPrice
	}
	if selections == nil {
		selections = []models.Selection{}
	}
	return models.GenerateSelectionsResponseBody{
		Selections: selections,
		Total:      total,
	}
}

// ExportWorkbook streams the project's selections as an xlsx workbook.
// Registered as a plain chi handler since the response is a file.
func (h *SelectionHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	selections, err := h.repo.ListSelections(r.Context(), projectID)
	if err != nil {
		http.Error(w, "Failed to list selections", http.StatusInternalServerError)
		return
	}

	data, err := export.SelectionsWorkbook(selections)
	if err != nil {
		log.Error().Err(err).Str("projectID", projectID.String()).Msg("Workbook export failed")
		http.Error(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment;filename=selections.xlsx")
	w.Write(data)
}

// ExportQuotePDF streams the project's selections as a quote PDF.
func (h *SelectionHandler) ExportQuotePDF(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.repo.GetByID(r.Context(), projectID)
	if err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	selections, err := h.repo.ListSelections(r.Context(), projectID)
	if err != nil {
		http.Error(w, "Failed to list selections", http.StatusInternalServerError)
		return
	}

	data, err := export.QuotePDF(project, selections)
	if err != nil {
		log.Error().Err(err).Str("projectID", projectID.String()).Msg("Quote export failed")
		http.Error(w, "Failed to build quote", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment;filename=quote.pdf")
	w.Write(data)
}
