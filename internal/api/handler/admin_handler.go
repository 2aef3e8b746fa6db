package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuongbtq/sitejobs/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// maxImportSize caps the body accepted by Import
const maxImportSize = 32 << 20

// GetStatistics handles GET /api/v1/stats
func (h *JobHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to compute statistics")
		return
	}

	resp := dto.StatisticsResponse{
		Total:           stats.Total,
		ByStatus:        make(map[string]int, len(stats.ByStatus)),
		ByPriority:      make(map[string]int, len(stats.ByPriority)),
		TotalBudget:     stats.TotalBudget,
		AverageProgress: stats.AverageProgress,
	}
	for k, v := range stats.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range stats.ByPriority {
		resp.ByPriority[string(k)] = v
	}

	c.JSON(http.StatusOK, resp)
}

// Export handles GET /api/v1/export
// Returns every job and work update as a downloadable JSON document
func (h *JobHandler) Export(c *gin.Context) {
	h.logger.Info("Export called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to export data")
		return
	}

	filename := fmt.Sprintf("construction-jobs-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles POST /api/v1/import
// Replaces all jobs and work updates with the uploaded export
func (h *JobHandler) Import(c *gin.Context) {
	h.logger.Info("Import called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	data, err := c.GetRawData()
	if err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if err := h.service.Import(c.Request.Context(), data, requesterRole(c)); err != nil {
		h.respondError(c, err, "Failed to import data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data imported successfully",
	})
}
