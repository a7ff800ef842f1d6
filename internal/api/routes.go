package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/davisolsen/planpick/internal/analysis"
	"github.com/davisolsen/planpick/internal/api/handlers"
	"github.com/davisolsen/planpick/internal/repository"
	"github.com/davisolsen/planpick/internal/selection"
	"github.com/davisolsen/planpick/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(router *chi.Mux, api huma.API, s3Service storage.S3Service, blueprintRepo repository.BlueprintRepository, projectRepo repository.ProjectRepository, analysisSvc analysis.Service, selectionSvc selection.Service) {
	// Initialize handlers
	blueprintHandler := handlers.NewBlueprintHandler(blueprintRepo, s3Service, analysisSvc)
	selectionHandler := handlers.NewSelectionHandler(projectRepo, selectionSvc)

	// Register blueprint routes
	huma.Register(api, huma.Operation{
		OperationID: "createBlueprint",
		Method:      http.MethodPost,
		Path:        "/api/blueprints",
		Summary:     "Create a new blueprint",
		Description: "Creates a blueprint record and returns an upload URL",
		Tags:        []string{"Blueprints"},
	}, blueprintHandler.CreateBlueprint)

	huma.Register(api, huma.Operation{
		OperationID: "startAnalysis",
		Method:      http.MethodPost,
		Path:        "/api/blueprints/{id}/analyze",
		Summary:     "Start blueprint analysis",
		Description: "Starts analyzing an uploaded blueprint file",
		Tags:        []string{"Blueprints"},
	}, blueprintHandler.StartAnalysis)

	huma.Register(api, huma.Operation{
		OperationID: "getBlueprintStatus",
		Method:      http.MethodGet,
		Path:        "/api/blueprints/{id}/status",
		Summary:     "Get blueprint status",
		Description: "Returns the current status and progress of a blueprint analysis",
		Tags:        []string{"Blueprints"},
	}, blueprintHandler.GetBlueprintStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysis",
		Method:      http.MethodGet,
		Path:        "/api/blueprints/{id}/analysis",
		Summary:     "Get analysis result",
		Description: "Returns the sanitized room extraction result with validation warnings",
		Tags:        []string{"Blueprints"},
	}, blueprintHandler.GetAnalysis)

	// Register project routes
	huma.Register(api, huma.Operation{
		OperationID: "putQuestionnaire",
		Method:      http.MethodPut,
		Path:        "/api/projects/{id}/questionnaire",
		Summary:     "Save questionnaire",
		Description: "Saves the room list, category and finish preferences for a project",
		Tags:        []string{"Selections"},
	}, selectionHandler.PutQuestionnaire)

	huma.Register(api, huma.Operation{
		OperationID: "generateSelections",
		Method:      http.MethodPost,
		Path:        "/api/projects/{id}/selections/generate",
		Summary:     "Generate selections",
		Description: "Replaces the project's selections with a freshly generated set",
		Tags:        []string{"Selections"},
	}, selectionHandler.GenerateSelections)

	huma.Register(api, huma.Operation{
		OperationID: "listSelections",
		Method:      http.MethodGet,
		Path:        "/api/projects/{id}/selections",
		Summary:     "List selections",
		Description: "Returns the project's current selections in display order",
		Tags:        []string{"Selections"},
	}, selectionHandler.ListSelections)

	// File exports bypass huma and stream straight through chi
	router.Get("/api/projects/{id}/selections/export.xlsx", selectionHandler.ExportWorkbook)
	router.Get("/api/projects/{id}/quote.pdf", selectionHandler.ExportQuotePDF)
}
