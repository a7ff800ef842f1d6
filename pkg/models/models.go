package models

import (
	"time"
)

// Blueprint statuses, written by the analysis pipeline.
const (
	BlueprintStatusPending    = "pending"
	BlueprintStatusProcessing = "processing"
	BlueprintStatusCompleted  = "completed"
	BlueprintStatusFailed     = "failed"
)

// Project workflow statuses. The selection service owns the
// questionnaire -> generating -> review transition and reverts to
// questionnaire on failure.
const (
	ProjectStatusDraft         = "draft"
	ProjectStatusQuestionnaire = "questionnaire"
	ProjectStatusGenerating    = "generating"
	ProjectStatusReview        = "review"
)

// RoomDimensions holds room measurements in feet / square feet.
type RoomDimensions struct {
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height,omitempty"`
	SquareFootage float64 `json:"squareFootage"`
}

// RoomRequirements lists trade requirements called out for a room.
type RoomRequirements struct {
	Electrical []string `json:"electrical,omitempty"`
	Plumbing   []string `json:"plumbing,omitempty"`
	HVAC       []string `json:"hvac,omitempty"`
}

// Room is one detected room from a blueprint analysis.
type Room struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Dimensions   RoomDimensions   `json:"dimensions"`
	Confidence   float64          `json:"confidence"`
	Features     []string         `json:"features"`
	Requirements RoomRequirements `json:"requirements"`
}

// ProductRecommendation is a category-level suggestion returned by the
// vision model alongside the room list.
type ProductRecommendation struct {
	Category       string                 `json:"category"`
	Quantity       int                    `json:"quantity"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	Priority       string                 `json:"priority"`
	Reason         string                 `json:"reason,omitempty"`
}

// AnalysisRecord is the sanitized extraction result for one blueprint file.
type AnalysisRecord struct {
	Rooms              []Room                  `json:"rooms"`
	TotalSquareFootage float64                 `json:"totalSquareFootage"`
	FloorCount         int                     `json:"floorCount"`
	Recommendations    []ProductRecommendation `json:"recommendations"`
}

// Blueprint represents one uploaded blueprint file and its analysis lifecycle.
type Blueprint struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	FileS3Key   *string    `json:"file_s3_key,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BlueprintAnalysis is the stored analysis result. Re-analysis replaces the
// record wholesale; it is never mutated in place.
type BlueprintAnalysis struct {
	ID          string         `json:"id"`
	BlueprintID string         `json:"blueprint_id"`
	Record      AnalysisRecord `json:"record"`
	Warnings    []string       `json:"warnings,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Project is the owning entity for questionnaires and selections.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CatalogID string    `json:"catalog_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionnaireRoom is one room the user wants selections for.
type QuestionnaireRoom struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Questionnaire drives selection generation for a project.
type Questionnaire struct {
	ID                 string              `json:"id"`
	ProjectID          string              `json:"project_id"`
	RoomList           []QuestionnaireRoom `json:"room_list"`
	CategoriesSelected []string            `json:"categories_selected"`
	FinishColors       []string            `json:"finish_colors"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Product is one catalog row eligible for selection.
type Product struct {
	ID            string   `json:"id"`
	CatalogID     string   `json:"catalog_id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	FinishOptions []string `json:"finish_options,omitempty"`
	UnitPrice     float64  `json:"unit_price"`
	IsAvailable   bool     `json:"is_available"`
}

// Selection is one generated product pick for one room.
type Selection struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	RoomName      string    `json:"room_name"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	Finish        *string   `json:"finish,omitempty"`
	UnitPrice     float64   `json:"unit_price"`
	ExtendedPrice float64   `json:"extended_price"`
	SortOrder     int       `json:"sort_order"`
	IsLocked      bool      `json:"is_locked"`
	CreatedAt     time.Time `json:"created_at"`
}
