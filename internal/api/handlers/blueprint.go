package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/davisolsen/planpick/internal/analysis"
	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/internal/storage"
	"github.com/davisolsen/planpick/pkg/models"
)

// BlueprintHandler handles blueprint-related HTTP requests
type BlueprintHandler struct {
	repo        repository.BlueprintRepository
	s3Service   storage.S3Service
	analysisSvc analysis.Service
}

// NewBlueprintHandler creates a new blueprint handler
func NewBlueprintHandler(repo repository.BlueprintRepository, s3Service storage.S3Service, analysisSvc analysis.Service) *BlueprintHandler {
	return &BlueprintHandler{
		repo:        repo,
		s3Service:   s3Service,
		analysisSvc: analysisSvc,
	}
}

// extensionForMime maps accepted blueprint MIME types to S3 key extensions.
var extensionForMime = map[string]string{
	"application/pdf": "pdf",
	"image/png":       "png",
	"image/jpeg":      "jpg",
}

// CreateBlueprint registers a blueprint and returns an upload URL
func (h *BlueprintHandler) CreateBlueprint(ctx context.Context, req *models.CreateBlueprintRequest) (*models.CreateBlueprintResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("projectID", req.Body.ProjectID).Msg("Creating new blueprint")

	if _, err := uuid.Parse(req.Body.ProjectID); err != nil {
		return nil, huma.Error400BadRequest("Invalid project ID", err)
	}

	// Validate file size explicitly
	if req.Body.FileSize < 1024 {
		return nil, huma.Error400BadRequest("Blueprint file is too small to be a valid plan.", nil)
	}
	if req.Body.FileSize > 50*1024*1024 {
		return nil, huma.Error400BadRequest("Blueprint file too large. Please upload a file under 50MB.", nil)
	}

	blueprintID := uuid.New()

	ext, ok := extensionForMime[req.Body.MimeType]
	if !ok {
		ext = "pdf"
	}
	fileKey := fmt.Sprintf("blueprints/%s.%s", blueprintID, ext)

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, fileKey, req.Body.MimeType)
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Blueprint format not supported. Please upload a PDF, PNG or JPEG.", err)
		}
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	blueprint := &models.Blueprint{
		ID:        blueprintID.String(),
		ProjectID: req.Body.ProjectID,
		Status:    models.BlueprintStatusPending,
		Progress:  0,
		FileS3Key: &fileKey,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(ctx, blueprint); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create blueprint", err)
	}
	log.Info().Str("blueprintID", blueprintID.String()).Msg("Blueprint record created")

	return &models.CreateBlueprintResponse{
		Body: models.CreateBlueprintResponseBody{
			ID:        blueprint.ID,
			UploadURL: uploadURL,
			ExpiresIn: int((15 * time.Minute).Seconds()),
		},
	}, nil
}

// StartAnalysis starts analyzing an uploaded blueprint
func (h *BlueprintHandler) StartAnalysis(ctx context.Context, req *models.StartAnalysisRequest) (*models.StartAnalysisResponse, error) {
	log.Info().Str("blueprintID", req.ID).Msg("Analysis start request received")
	blueprintID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid blueprint ID", err)
	}

	// Verify blueprint exists
	if _, err := h.repo.GetByID(ctx, blueprintID); err != nil {
		return nil, huma.Error404NotFound("Blueprint not found", err)
	}

	// Start analysis in background (don't wait for completion)
	go func() {
		if err := h.analysisSvc.ProcessBlueprint(context.Background(), blueprintID); err != nil {
			h.repo.UpdateError(context.Background(), blueprintID, fmt.Sprintf("Analysis failed: %v", err))
		}
	}()

	return &models.StartAnalysisResponse{
		Body: struct {
			Message string `json:"message" doc:"Confirmation message"`
		}{
			Message: "Analysis started successfully",
		},
	}, nil
}

// GetBlueprintStatus returns the current status of a blueprint analysis
func (h *BlueprintHandler) GetBlueprintStatus(ctx context.Context, req *models.GetBlueprintStatusRequest) (*models.GetBlueprintStatusResponse, error) {
	blueprintID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid blueprint ID", err)
	}

	blueprint, err := h.repo.GetByID(ctx, blueprintID)
	if err != nil {
		return nil, huma.Error404NotFound("Blueprint not found", err)
	}

	return &models.GetBlueprintStatusResponse{
		Body: models.GetBlueprintStatusResponseBody{
			ID:       blueprint.ID,
			Status:   blueprint.Status,
			Progress: blueprint.Progress,
			Message:  h.generateStatusMessage(blueprint.Status, blueprint.Progress),
		},
	}, nil
}

// GetAnalysis returns the stored analysis for a completed blueprint
func (h *BlueprintHandler) GetAnalysis(ctx context.Context, req *models.GetAnalysisRequest) (*models.GetAnalysisResponse, error) {
	blueprintID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid blueprint ID", err)
	}

	blueprint, err := h.repo.GetByID(ctx, blueprintID)
	if err != nil {
		return nil, huma.Error404NotFound("Blueprint not found", err)
	}

	if blueprint.Status != models.BlueprintStatusCompleted {
		return nil, huma.Error409Conflict("Analysis not yet completed",
			fmt.Errorf("blueprint status is %s", blueprint.Status))
	}

	result, err := h.repo.GetAnalysis(ctx, blueprintID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get analysis", err)
	}

	return &models.GetAnalysisResponse{
		Body: models.GetAnalysisResponseBody{
			ID:        result.ID,
			Record:    result.Record,
			Warnings:  result.Warnings,
			CreatedAt: result.CreatedAt,
		},
	}, nil
}

// generateStatusMessage creates a human-readable status message
func (h *BlueprintHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case models.BlueprintStatusPending:
		return "Blueprint queued for analysis..."
	case models.BlueprintStatusProcessing:
		if progress < 25 {
			return "Starting analysis..."
		} else if progress < 50 {
			return "Downloading blueprint file..."
		} else if progress < 80 {
			return "Extracting rooms from floor plan..."
		} else {
			return "Finalizing results..."
		}
	case models.BlueprintStatusCompleted:
		return "Analysis complete!"
	case models.BlueprintStatusFailed:
		return "Analysis failed. Please try again."
	default:
		return "Unknown status"
	}
}
