package dto

// PhotoUpload is either a reference to a stored photo or base64 data to upload
type PhotoUpload struct {
	Ref      string `json:"ref"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
	Caption  string `json:"caption"`
}

type CreateWorkUpdateRequest struct {
	WorkerID    string        `json:"worker_id"`
	WorkerName  string        `json:"worker_name"`
	Description string        `json:"description" binding:"required"`
	Status      string        `json:"status" binding:"required"`
	Photos      []PhotoUpload `json:"photos"`
	HoursWorked *float64      `json:"hours_worked"`
	Source      string        `json:"source"`
	PhoneNumber string        `json:"phone_number"`
}

type ListWorkUpdatesRequest struct {
	WorkerID string `form:"worker_id"`
	Source   string `form:"source"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListWorkUpdatesResponse struct {
	Updates    []WorkUpdateDTO `json:"updates"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type WorkUpdateDTO struct {
	UpdateID    string   `json:"update_id"`
	JobID       string   `json:"job_id"`
	WorkerID    string   `json:"worker_id"`
	WorkerName  string   `json:"worker_name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Photos      []string `json:"photos"`
	Timestamp   string   `json:"timestamp"`
	HoursWorked *float64 `json:"hours_worked,omitempty"`
	Source      string   `json:"source,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
}

type StatisticsResponse struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	ByPriority      map[string]int `json:"by_priority"`
	TotalBudget     float64        `json:"total_budget"`
	AverageProgress int            `json:"average_progress"`
}
