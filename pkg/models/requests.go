package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateBlueprintRequest represents a request to register a blueprint upload
type CreateBlueprintRequest struct {
	Body struct {
		ProjectID string `json:"project_id" required:"true" doc:"Owning project ID"`
		FileSize  int64  `json:"file_size" minimum:"1024" maximum:"52428800" required:"true" doc:"Blueprint file size in bytes"`
		MimeType  string `json:"mime_type" enum:"application/pdf,image/png,image/jpeg" required:"true" doc:"Blueprint file MIME type"`
	}
}

// CreateBlueprintResponseBody is the body of the create blueprint response
type CreateBlueprintResponseBody struct {
	ID        string `json:"id" doc:"Blueprint unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for file upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateBlueprintResponse represents the response from creating a blueprint
type CreateBlueprintResponse struct {
	Body CreateBlueprintResponseBody
}

// GetBlueprintStatusRequest represents a request to get blueprint status
type GetBlueprintStatusRequest struct {
	ID string `path:"id" doc:"Blueprint ID"`
}

// GetBlueprintStatusResponseBody is the body of the status response
type GetBlueprintStatusResponseBody struct {
	ID       string `json:"id" doc:"Blueprint ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Analysis status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Analysis progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
}

// GetBlueprintStatusResponse represents the current status of a blueprint analysis
type GetBlueprintStatusResponse struct {
	Body GetBlueprintStatusResponseBody
}

// StartAnalysisRequest represents a request to analyze an uploaded blueprint
type StartAnalysisRequest struct {
	ID string `path:"id" doc:"Blueprint ID"`
}

// StartAnalysisResponse represents the response from starting analysis
type StartAnalysisResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetAnalysisRequest represents a request to fetch the stored analysis
type GetAnalysisRequest struct {
	ID string `path:"id" doc:"Blueprint ID"`
}

// GetAnalysisResponseBody is the body of the analysis response
type GetAnalysisResponseBody struct {
	ID        string         `json:"id" doc:"Analysis ID"`
	Record    AnalysisRecord `json:"record" doc:"Sanitized room extraction result"`
	Warnings  []string       `json:"warnings,omitempty" doc:"Data-quality warnings from validation"`
	CreatedAt time.Time      `json:"created_at" doc:"Analysis creation timestamp"`
}

// GetAnalysisResponse represents the stored analysis result
type GetAnalysisResponse struct {
	Body GetAnalysisResponseBody
}

// PutQuestionnaireRequest represents a questionnaire upsert for a project
type PutQuestionnaireRequest struct {
	ID   string `path:"id" doc:"Project ID"`
	Body struct {
		RoomList           []QuestionnaireRoom `json:"room_list" required:"true" doc:"Rooms to generate selections for"`
		CategoriesSelected []string            `json:"categories_selected" required:"true" doc:"Product categories to include"`
		FinishColors       []string            `json:"finish_colors,omitempty" doc:"Preferred finish substrings"`
	}
}

// PutQuestionnaireResponse represents the saved questionnaire
type PutQuestionnaireResponse struct {
	Body *Questionnaire `json:"-"`
}

// GenerateSelectionsRequest represents a request to generate selections
type GenerateSelectionsRequest struct {
	ID string `path:"id" doc:"Project ID"`
}

// GenerateSelectionsResponseBody is the body of the generation response
type GenerateSelectionsResponseBody struct {
	Selections []Selection `json:"selections" doc:"Generated selections in display order"`
	Total      float64     `json:"total" doc:"Sum of extended prices"`
}

// GenerateSelectionsResponse represents newly generated selections
type GenerateSelectionsResponse struct {
	Body GenerateSelectionsResponseBody
}

// ListSelectionsRequest represents a request to list a project's selections
type ListSelectionsRequest struct {
	ID string `path:"id" doc:"Project ID"`
}

// ListSelectionsResponse represents the current selections for a project
type ListSelectionsResponse struct {
	Body GenerateSelectionsResponseBody
}
