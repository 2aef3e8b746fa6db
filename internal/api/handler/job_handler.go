package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/sitejobs/internal/api/dto"
	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/store"
	"github.com/gin-gonic/gin"
)

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	h.logger.Info("CreateJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	input, err := toNewJob(req, requesterID(c))
	if err != nil {
		h.respondError(c, err, "Failed to create job")
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), input, requesterRole(c))
	if err != nil {
		h.respondError(c, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, toJobDTO(job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("GetJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Filters combine: worker_id, status, priority and a free-text q
func (h *JobHandler) ListJobs(c *gin.Context) {
	h.logger.Info("ListJobs called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	filter := store.JobFilter{
		WorkerID: req.WorkerID,
		Query:    req.Query,
	}

	var err error
	if req.Status != "" {
		if filter.Status, err = domain.ParseJobStatus(req.Status); err != nil {
			h.respondError(c, err, "Failed to list jobs")
			return
		}
	}
	if req.Priority != "" {
		if filter.Priority, err = domain.ParsePriority(req.Priority); err != nil {
			h.respondError(c, err, "Failed to list jobs")
			return
		}
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "Failed to list jobs")
		return
	}

	jobResponse := make([]dto.JobDTO, len(jobs))
	for i, job := range jobs {
		jobResponse[i] = toJobDTO(job)
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:  jobResponse,
		Total: len(jobResponse),
	})
}

// UpdateJob handles PATCH /api/v1/jobs/:job_id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("UpdateJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	patch, err := toJobPatch(req)
	if err != nil {
		h.respondError(c, err, "Failed to update job")
		return
	}

	job, err := h.service.UpdateJob(c.Request.Context(), jobID, patch, requesterRole(c))
	if err != nil {
		h.respondError(c, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job))
}

// DeleteJob handles DELETE /api/v1/jobs/:job_id
// Removes the job together with its work updates
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("DeleteJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	if err := h.service.DeleteJob(c.Request.Context(), jobID); err != nil {
		h.respondError(c, err, "Failed to delete job")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPhotos handles GET /api/v1/jobs/:job_id/photos
func (h *JobHandler) ListPhotos(c *gin.Context) {
	jobID := c.Param("job_id")

	photos, err := h.service.JobPhotos(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err, "Failed to list photos")
		return
	}

	resp := dto.ListPhotosResponse{Photos: make([]dto.PhotoDTO, len(photos))}
	for i, p := range photos {
		resp.Photos[i] = toPhotoDTO(p)
	}
	c.JSON(http.StatusOK, resp)
}
