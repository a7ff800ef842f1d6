package analysis

import (
	"context"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/internal/storage"
	"github.com/davisolsen/planpick/internal/vision"
	"github.com/davisolsen/planpick/pkg/models"
)

// Service runs the blueprint analysis pipeline: download the uploaded file,
// send it to the vision model, sanitize the result and store it.
type Service interface {
	ProcessBlueprint(ctx context.Context, blueprintID uuid.UUID) error
}

type service struct {
	s3         storage.S3Service
	repository repository.BlueprintRepository
	vision     vision.Client
}

func NewService(s3Service storage.S3Service, repo repository.BlueprintRepository, visionClient vision.Client) Service {
	return &service{
		s3:         s3Service,
		repository: repo,
		vision:     visionClient,
	}
}

func (s *service) ProcessBlueprint(ctx context.Context, blueprintID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, blueprintID, "processing", 10); err != nil {
		return err
	}

	// Step 2: Get blueprint details
	blueprint, err := s.repository.GetByID(ctx, blueprintID)
	if err != nil {
		return err
	}

	if blueprint.FileS3Key == nil {
		s.repository.UpdateError(ctx, blueprintID, "No blueprint file has been uploaded")
		return nil
	}

	// Step 3: Download from S3
	if err := s.repository.UpdateStatus(ctx, blueprintID, "processing", 25); err != nil {
		return err
	}

	fileData, err := s.s3.DownloadFile(ctx, *blueprint.FileS3Key)
	if err != nil {
		s.repository.UpdateError(ctx, blueprintID, "Failed to download blueprint file")
		return nil // Don't return error, status is updated to failed
	}

	// Step 4: Run vision extraction
	if err := s.repository.UpdateStatus(ctx, blueprintID, "processing", 50); err != nil {
		return err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(*blueprint.FileS3Key))
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	raw, err := s.vision.AnalyzeFloorPlan(ctx, fileData, mimeType)
	if err != nil {
		s.repository.UpdateError(ctx, blueprintID, "Blueprint analysis failed: "+err.Error())
		return nil // Don't return error, status is updated to failed
	}

	// Step 5: Validate and sanitize. The pipeline auto-repairs but keeps the
	// warnings so data quality stays visible.
	if err := s.repository.UpdateStatus(ctx, blueprintID, "processing", 80); err != nil {
		return err
	}

	warnings := Validate(raw)
	if len(warnings) > 0 {
		log.Warn().
			Str("blueprintID", blueprintID.String()).
			Strs("warnings", warnings).
			Msg("Vision payload needed repair")
	}

	record := Sanitize(raw)

	// Step 6: Store the analysis. A re-analysis replaces the stored record;
	// nothing is mutated in place.
	if err := s.repository.UpdateStatus(ctx, blueprintID, "processing", 90); err != nil {
		return err
	}

	analysis := &models.BlueprintAnalysis{
		ID:          uuid.New().String(),
		BlueprintID: blueprint.ID,
		Record:      record,
		Warnings:    warnings,
		CreatedAt:   time.Now(),
	}

	if err := s.repository.StoreAnalysis(ctx, analysis); err != nil {
		return err
	}

	// Step 7: Mark complete
	if err := s.repository.UpdateStatus(ctx, blueprintID, "completed", 100); err != nil {
		return err
	}

	log.Info().
		Str("blueprintID", blueprintID.String()).
		Int("rooms", len(record.Rooms)).
		Msg("Blueprint analysis stored")

	return nil
}
