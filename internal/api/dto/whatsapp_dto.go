package dto

type WhatsAppJobRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

type WhatsAppUpdateRequest struct {
	PhoneNumber string   `json:"phone_number" binding:"required"`
	JobID       string   `json:"job_id" binding:"required"`
	Status      string   `json:"status" binding:"required"`
	HoursWorked *float64 `json:"hours_worked"`
	Description string   `json:"description"`
}

type WhatsAppPhotoRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	JobID       string `json:"job_id" binding:"required"`
	FileName    string `json:"file_name"`
	MimeType    string `json:"mime_type"`
	Data        []byte `json:"data" binding:"required"`
	Caption     string `json:"caption"`
}
