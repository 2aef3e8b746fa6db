package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cuongbtq/sitejobs/internal/api/dto"
	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateWorkUpdate handles POST /api/v1/jobs/:job_id/updates
func (h *JobHandler) CreateWorkUpdate(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("CreateWorkUpdate called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	var req dto.CreateWorkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	input, err := toNewWorkUpdate(jobID, req, requesterID(c))
	if err != nil {
		h.respondError(c, err, "Failed to create work update")
		return
	}

	update, err := h.service.AppendWorkUpdate(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "Failed to create work update")
		return
	}

	c.JSON(http.StatusCreated, toUpdateDTO(update))
}

// ListWorkUpdates handles GET /api/v1/jobs/:job_id/updates
// Returns the job timeline newest first, paged by cursor
func (h *JobHandler) ListWorkUpdates(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("ListWorkUpdates called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListWorkUpdatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}

	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	cursor, err := DecodeUpdateCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	if _, err := h.service.GetJob(c.Request.Context(), jobID); err != nil {
		h.respondError(c, err, "Failed to list work updates")
		return
	}

	// one extra row tells whether another page exists
	filter := store.WorkUpdateFilter{
		JobID:    jobID,
		WorkerID: req.WorkerID,
		Source:   domain.Channel(strings.ToLower(req.Source)),
		Before:   cursor,
		Limit:    req.PageSize + 1,
	}

	updates, err := h.service.WorkUpdates(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "Failed to list work updates")
		return
	}

	hasMore := len(updates) > req.PageSize
	if hasMore {
		updates = updates[:req.PageSize]
	}

	resp := dto.ListWorkUpdatesResponse{Updates: make([]dto.WorkUpdateDTO, len(updates))}
	for i, u := range updates {
		resp.Updates[i] = toUpdateDTO(u)
	}

	if hasMore {
		last := updates[len(updates)-1]
		resp.NextCursor = EncodeUpdateCursor(&store.Cursor{
			Timestamp: last.Timestamp,
			ID:        last.ID,
		})
	}

	c.JSON(http.StatusOK, resp)
}
