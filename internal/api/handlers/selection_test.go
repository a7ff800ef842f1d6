package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davisolsen/planpick/internal/selection"
	"github.com/davisolsen/planpick/pkg/models"
)

// MockProjectRepository implements repository.ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProjectRepository) UpsertQuestionnaire(ctx context.Context, questionnaire *models.Questionnaire) error {
	args := m.Called(ctx, questionnaire)
	return args.Error(0)
}

func (m *MockProjectRepository) GetQuestionnaire(ctx context.Context, projectID uuid.UUID) (*models.Questionnaire, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Questionnaire), args.Error(1)
}

func (m *MockProjectRepository) ListAvailableProducts(ctx context.Context, catalogID uuid.UUID, categories []string) ([]models.Product, error) {
	args := m.Called(ctx, catalogID, categories)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProjectRepository) ReplaceSelections(ctx context.Context, projectID uuid.UUID, selections []models.Selection) error {
	args := m.Called(ctx, projectID, selections)
	return args.Error(0)
}

func (m *MockProjectRepository) ListSelections(ctx context.Context, projectID uuid.UUID) ([]models.Selection, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Selection), args.Error(1)
}

// MockSelectionService implements selection.Service for testing
type MockSelectionService struct {
	mock.Mock
}

func (m *MockSelectionService) GenerateSelections(ctx context.Context, projectID uuid.UUID) ([]models.Selection, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Selection), args.Error(1)
}

func sampleProject(projectID uuid.UUID) *models.Project {
	return &models.Project{
		ID:        projectID.String(),
		Name:      "Maple Street Remodel",
		Status:    models.ProjectStatusDraft,
		CatalogID: uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func sampleSelections(projectID uuid.UUID) []models.Selection {
	finish := "Brushed Nickel"
	return []models.Selection{
		{
			ID:            uuid.New().String(),
			ProjectID:     projectID.String(),
			RoomName:      "Kitchen",
			ProductID:     uuid.New().String(),
			ProductName:   "Kohler Simplice Faucet",
			Quantity:      1,
			Finish:        &finish,
			UnitPrice:     250,
			ExtendedPrice: 250,
			SortOrder:     0,
		},
		{
			ID:            uuid.New().String(),
			ProjectID:     projectID.String(),
			RoomName:      "Kitchen",
			ProductID:     uuid.New().String(),
			ProductName:   "Pendant Light",
			Quantity:      3,
			UnitPrice:     120,
			ExtendedPrice: 360,
			SortOrder:     1,
		},
	}
}

func TestPutQuestionnaire(t *testing.T) {
	projectID := uuid.New()

	tests := []struct {
		name       string
		rooms      []models.QuestionnaireRoom
		categories []string
		wantStatus int
	}{
		{
			name:       "valid questionnaire",
			rooms:      []models.QuestionnaireRoom{{Name: "Kitchen", Type: "kitchen"}},
			categories: []string{"plumbing"},
		},
		{
			name:       "no rooms",
			rooms:      nil,
			categories: []string{"plumbing"},
			wantStatus: 400,
		},
		{
			name:       "no categories",
			rooms:      []models.QuestionnaireRoom{{Name: "Kitchen", Type: "kitchen"}},
			categories: nil,
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockProjectRepository{}
			mockRepo.On("GetByID", mock.Anything, projectID).Return(sampleProject(projectID), nil)
			mockRepo.On("UpsertQuestionnaire", mock.Anything, mock.AnythingOfType("*models.Questionnaire")).Return(nil)
			mockRepo.On("UpdateStatus", mock.Anything, projectID, models.ProjectStatusQuestionnaire).Return(nil)

			handler := NewSelectionHandler(mockRepo, &MockSelectionService{})

			req := &models.PutQuestionnaireRequest{ID: projectID.String()}
			req.Body.RoomList = tt.rooms
			req.Body.CategoriesSelected = tt.categories
			req.Body.FinishColors = []string{"nickel"}

			resp, err := handler.PutQuestionnaire(context.Background(), req)

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				mockRepo.AssertNotCalled(t, "UpsertQuestionnaire", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, projectID.String(), resp.Body.ProjectID)
			assert.Equal(t, tt.rooms, resp.Body.RoomList)
			mockRepo.AssertCalled(t, "UpdateStatus", mock.Anything, projectID, models.ProjectStatusQuestionnaire)
		})
	}
}

func TestPutQuestionnaireUnknownProject(t *testing.T) {
	projectID := uuid.New()

	mockRepo := &MockProjectRepository{}
	mockRepo.On("GetByID", mock.Anything, projectID).Return(nil, assert.AnError)

	handler := NewSelectionHandler(mockRepo, &MockSelectionService{})

	req := &models.PutQuestionnaireRequest{ID: projectID.String()}
	req.Body.RoomList = []models.QuestionnaireRoom{{Name: "Kitchen", Type: "kitchen"}}
	req.Body.CategoriesSelected = []string{"plumbing"}

	_, err := handler.PutQuestionnaire(context.Background(), req)

	assert.Equal(t, 404, statusOf(t, err))
}

func TestGenerateSelections(t *testing.T) {
	projectID := uuid.New()

	tests := []struct {
		name       string
		svcError   error
		wantStatus int
	}{
		{name: "success"},
		{name: "no questionnaire maps to conflict", svcError: selection.ErrNoQuestionnaire, wantStatus: 409},
		{name: "no products maps to conflict", svcError: selection.ErrNoProducts, wantStatus: 409},
		{name: "other failures map to server error", svcError: assert.AnError, wantStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := &MockSelectionService{}
			if tt.svcError != nil {
				mockSvc.On("GenerateSelections", mock.Anything, projectID).Return(nil, tt.svcError)
			} else {
				mockSvc.On("GenerateSelections", mock.Anything, projectID).Return(sampleSelections(projectID), nil)
			}

			handler := NewSelectionHandler(&MockProjectRepository{}, mockSvc)

			resp, err := handler.GenerateSelections(context.Background(), &models.GenerateSelectionsRequest{ID: projectID.String()})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}

			require.NoError(t, err)
			assert.Len(t, resp.Body.Selections, 2)
			assert.Equal(t, 610.0, resp.Body.Total)
		})
	}
}

func TestListSelectionsEmptyProject(t *testing.T) {
	projectID := uuid.New()

	mockRepo := &MockProjectRepository{}
	mockRepo.On("ListSelections", mock.Anything, projectID).Return([]models.Selection(nil), nil)

	handler := NewSelectionHandler(mockRepo, &MockSelectionService{})

	resp, err := handler.ListSelections(context.Background(), &models.ListSelectionsRequest{ID: projectID.String()})

	require.NoError(t, err)
	// Empty projects serialize as an empty list, not null.
	assert.NotNil(t, resp.Body.Selections)
	assert.Len(t, resp.Body.Selections, 0)
	assert.Equal(t, 0.0, resp.Body.Total)
}

func exportRequest(t *testing.T, handler http.HandlerFunc, projectID string, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/api/projects/{id}/"+path, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+projectID+"/"+path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestExportWorkbook(t *testing.T) {
	projectID := uuid.New()

	mockRepo := &MockProjectRepository{}
	mockRepo.On("ListSelections", mock.Anything, projectID).Return(sampleSelections(projectID), nil)

	handler := NewSelectionHandler(mockRepo, &MockSelectionService{})

	rec := exportRequest(t, handler.ExportWorkbook, projectID.String(), "selections/export.xlsx")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestExportWorkbookInvalidID(t *testing.T) {
	handler := NewSelectionHandler(&MockProjectRepository{}, &MockSelectionService{})

	rec := exportRequest(t, handler.ExportWorkbook, "not-a-uuid", "selections/export.xlsx")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportQuotePDF(t *testing.T) {
	projectID := uuid.New()

	mockRepo := &MockProjectRepository{}
	mockRepo.On("GetByID", mock.Anything, projectID).Return(sampleProject(projectID), nil)
	mockRepo.On("ListSelections", mock.Anything, projectID).Return(sampleSelections(projectID), nil)

	handler := NewSelectionHandler(mockRepo, &MockSelectionService{})

	rec := exportRequest(t, handler.ExportQuotePDF, projectID.String(), "quote.pdf")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, rec.Body.Len() > 4)
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}
