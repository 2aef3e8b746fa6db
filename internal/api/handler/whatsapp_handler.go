package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/sitejobs/internal/api/dto"
	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/jobs"
	"github.com/gin-gonic/gin"
)

// CreateWhatsAppJob handles POST /api/v1/whatsapp/jobs
func (h *JobHandler) CreateWhatsAppJob(c *gin.Context) {
	var req dto.WhatsAppJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	h.logger.Info("CreateWhatsAppJob called", slog.String("phone_number", req.PhoneNumber))

	in := jobs.WhatsAppJob{
		PhoneNumber: req.PhoneNumber,
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
	}
	if req.Priority != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			h.respondError(c, err, "Failed to create job")
			return
		}
		in.Priority = priority
	}

	job, err := h.service.CreateJobFromWhatsApp(c.Request.Context(), in, requesterRole(c))
	if err != nil {
		h.respondError(c, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, toJobDTO(job))
}

// CreateWhatsAppUpdate handles POST /api/v1/whatsapp/updates
func (h *JobHandler) CreateWhatsAppUpdate(c *gin.Context) {
	var req dto.WhatsAppUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	h.logger.Info("CreateWhatsAppUpdate called",
		slog.String("phone_number", req.PhoneNumber),
		slog.String("job_id", req.JobID),
	)

	status, err := domain.ParseUpdateStatus(req.Status)
	if err != nil {
		h.respondError(c, err, "Failed to update job")
		return
	}

	update, err := h.service.AppendWhatsAppUpdate(c.Request.Context(), jobs.WhatsAppUpdate{
		PhoneNumber: req.PhoneNumber,
		JobID:       req.JobID,
		Status:      status,
		HoursWorked: req.HoursWorked,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusCreated, toUpdateDTO(update))
}

// UploadWhatsAppPhoto handles POST /api/v1/whatsapp/photos
func (h *JobHandler) UploadWhatsAppPhoto(c *gin.Context) {
	var req dto.WhatsAppPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	h.logger.Info("UploadWhatsAppPhoto called",
		slog.String("phone_number", req.PhoneNumber),
		slog.String("job_id", req.JobID),
		slog.Int("size", len(req.Data)),
	)

	update, err := h.service.UploadWhatsAppPhoto(c.Request.Context(), jobs.WhatsAppPhoto{
		PhoneNumber: req.PhoneNumber,
		JobID:       req.JobID,
		FileName:    req.FileName,
		MimeType:    req.MimeType,
		Data:        req.Data,
		Caption:     req.Caption,
	})
	if err != nil {
		h.respondError(c, err, "Failed to upload photo")
		return
	}

	c.JSON(http.StatusCreated, toUpdateDTO(update))
}
