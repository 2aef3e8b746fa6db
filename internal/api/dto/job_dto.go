package dto

import "time"

type CreateJobRequest struct {
	Title             string   `json:"title" binding:"required"`
	Description       string   `json:"description"`
	Location          string   `json:"location" binding:"required"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	EstimatedDuration int      `json:"estimated_duration"`
	AssignedWorkers   []string `json:"assigned_workers"`
	CreatedBy         string   `json:"created_by"`
	CreatedVia        string   `json:"created_via"`
	Progress          int      `json:"progress"`
	Budget            *float64 `json:"budget"`
	Materials         []string `json:"materials"`
	Notes             string   `json:"notes"`
}

// UpdateJobRequest is a partial update; absent fields are left untouched
type UpdateJobRequest struct {
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	Location          *string  `json:"location"`
	Status            *string  `json:"status"`
	Priority          *string  `json:"priority"`
	StartDate         *string  `json:"start_date"`
	EndDate           *string  `json:"end_date"`
	EstimatedDuration *int     `json:"estimated_duration"`
	AssignedWorkers   []string `json:"assigned_workers"`
	Progress          *int     `json:"progress"`
	Budget            *float64 `json:"budget"`
	Materials         []string `json:"materials"`
	Notes             *string  `json:"notes"`
}

type ListJobsRequest struct {
	WorkerID string `form:"worker_id"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Query    string `form:"q"`
}

type ListJobsResponse struct {
	Jobs  []JobDTO `json:"jobs"`
	Total int      `json:"total"`
}

type JobDTO struct {
	JobID             string   `json:"job_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	EstimatedDuration int      `json:"estimated_duration"`
	AssignedWorkers   []string `json:"assigned_workers"`
	CreatedBy         string   `json:"created_by"`
	CreatedVia        string   `json:"created_via,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
	Progress          int      `json:"progress"`
	Budget            *float64 `json:"budget,omitempty"`
	Materials         []string `json:"materials,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	DriveFolderID     string   `json:"drive_folder_id,omitempty"`
}

type PhotoDTO struct {
	PhotoID     string    `json:"photo_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	CreatedTime time.Time `json:"created_time"`
	Caption     string    `json:"caption,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	Source      string    `json:"source,omitempty"`
}

type ListPhotosResponse struct {
	Photos []PhotoDTO `json:"photos"`
}
