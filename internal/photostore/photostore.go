// Package photostore keeps job photographs, one folder per job.
package photostore

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Metadata travels with an uploaded photo. The store keeps it but never
// interprets it.
type Metadata struct {
	Caption    string    `json:"caption,omitempty"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source,omitempty"`
	JobID      string    `json:"jobId,omitempty"`
}

// Photo describes a stored photo
type Photo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	CreatedTime time.Time `json:"createdTime"`
	Metadata    Metadata  `json:"metadata"`
}

// Store is the durable photo storage consumed by the job service
type Store interface {
	// CreateFolder provisions the folder for a job and returns its handle
	CreateFolder(ctx context.Context, jobID, jobTitle string) (string, error)
	// UploadPhoto stores data in folder and returns a reference to it
	UploadPhoto(ctx context.Context, folder, fileName string, data []byte, mimeType string, meta Metadata) (string, error)
	ListPhotos(ctx context.Context, folder string) ([]Photo, error)
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// FolderName builds "<jobID>-<Title_Words>" from a job id and title
func FolderName(jobID, title string) string {
	clean := unsafeChars.ReplaceAllString(title, "")
	clean = whitespace.ReplaceAllString(strings.TrimSpace(clean), "_")
	if clean == "" {
		return jobID
	}
	return jobID + "-" + clean
}
