package delivery

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fastbulk/internal/domain"
	"fastbulk/internal/usecase"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handles HTTP requests
type HTTPHandlers struct {
	analysisService   *usecase.AnalysisService
	suggestionService *usecase.SuggestionService
	exportService     *usecase.ExportService
	logger            *logger.Logger
	metrics           *metrics.Metrics
	uploadDir         string
	maxUploadBytes    int64
	jobListLimit      int
}

// creates new HTTP handlers
func NewHTTPHandlers(
	analysisService *usecase.AnalysisService,
	suggestionService *usecase.SuggestionService,
	exportService *usecase.ExportService,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	uploadDir string,
	maxUploadMB int,
	jobListLimit int,
) *HTTPHandlers {
	return &HTTPHandlers{
		analysisService:   analysisService,
		suggestionService: suggestionService,
		exportService:     exportService,
		logger:            logger,
		metrics:           metrics,
		uploadDir:         uploadDir,
		maxUploadBytes:    int64(maxUploadMB) * 1024 * 1024,
		jobListLimit:      jobListLimit,
	}
}

// UploadAnalysis accepts a bulk XLSX file and returns the parsed
// analysis snapshot with its id.
func (h *HTTPHandlers) UploadAnalysis(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()
	log := h.logger.WithContext(ctx)

	file, err := c.FormFile("file")
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/analysis", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing file",
			"message":    "multipart field 'file' is required",
			"request_id": requestID,
		})
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		h.metrics.RecordHTTPRequest("POST", "/analysis", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Unsupported file type",
			"message":    "only .xlsx bulk files are supported",
			"request_id": requestID,
		})
		return
	}

	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		h.metrics.RecordHTTPRequest("POST", "/analysis", "413", time.Since(start))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":      "File too large",
			"message":    "upload exceeds the configured size limit",
			"request_id": requestID,
		})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.metrics.RecordHTTPRequest("POST", "/analysis", "500", time.Since(start))
		log.WithError(err).Error("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Upload failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	// Uploads are transient; the parsed snapshot is what we keep.
	tmpPath := filepath.Join(h.uploadDir, "fa_"+uuid.New().String()+".xlsx")
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		h.metrics.RecordHTTPRequest("POST", "/analysis", "500", time.Since(start))
		log.WithError(err).Error("Failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Upload failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}
	defer os.Remove(tmpPath)

	analysisID, analysis, err := h.analysisService.AnalyzeUpload(ctx, tmpPath)
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/analysis", "422", time.Since(start))
		log.WithError(err).Error("Bulk file analysis failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "Analysis failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/analysis", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"analysis_id": analysisID,
		"analysis":    analysis,
		"request_id":  requestID,
	})
}

// GetAnalysis returns a previously parsed analysis by id.
func (h *HTTPHandlers) GetAnalysis(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()

	analysisID := c.Param("id")
	analysis, err := h.analysisService.Get(ctx, analysisID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.metrics.RecordHTTPRequest("GET", "/analysis/:id", "404", time.Since(start))
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Analysis not found",
				"message":    "no analysis with id " + analysisID,
				"request_id": requestID,
			})
			return
		}
		h.metrics.RecordHTTPRequest("GET", "/analysis/:id", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to load analysis")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to load analysis",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/analysis/:id", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"analysis_id": analysisID,
		"analysis":    analysis,
		"request_id":  requestID,
	})
}

type suggestionsRequest struct {
	Thresholds *usecase.ThresholdOverrides `json:"thresholds"`
}

// GenerateSuggestions runs the suggestion engine over a stored analysis
// with optional threshold overrides and custom rules.
func (h *HTTPHandlers) GenerateSuggestions(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()
	log := h.logger.WithContext(ctx)

	var req suggestionsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.metrics.RecordHTTPRequest("POST", "/analysis/:id/suggestions", "400", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid request body",
				"message":    err.Error(),
				"request_id": requestID,
			})
			return
		}
	}

	analysisID := c.Param("id")
	suggestions, err := h.suggestionService.GenerateForAnalysis(ctx, analysisID, req.Thresholds)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.metrics.RecordHTTPRequest("POST", "/analysis/:id/suggestions", "404", time.Since(start))
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Analysis not found",
				"message":    "no analysis with id " + analysisID,
				"request_id": requestID,
			})
			return
		}
		if errors.Is(err, usecase.ErrInvalidOverrides) {
			h.metrics.RecordHTTPRequest("POST", "/analysis/:id/suggestions", "400", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid thresholds",
				"message":    err.Error(),
				"request_id": requestID,
			})
			return
		}
		h.metrics.RecordHTTPRequest("POST", "/analysis/:id/suggestions", "500", time.Since(start))
		log.WithError(err).Error("Failed to generate suggestions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to generate suggestions",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/analysis/:id/suggestions", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"analysis_id": analysisID,
		"suggestions": suggestions,
		"request_id":  requestID,
	})
}

type exportRequest struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// ExportDownload streams a bulk XLSX built from the selected
// suggestions.
func (h *HTTPHandlers) ExportDownload(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordHTTPRequest("POST", "/export/download", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}
	if len(req.Suggestions) == 0 {
		h.metrics.RecordHTTPRequest("POST", "/export/download", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "No suggestions selected",
			"message":    "suggestions array must not be empty",
			"request_id": requestID,
		})
		return
	}

	data, err := h.exportService.Download(ctx, req.Suggestions)
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/export/download", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to build bulk export")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Export failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/export/download", "200", time.Since(start))
	c.Header("Content-Disposition", `attachment; filename=bulk_actions.xlsx`)
	c.Data(http.StatusOK, usecase.BulkMIMEType, data)
}

// CreateExportJob builds a bulk file on disk and records a job for it.
func (h *HTTPHandlers) CreateExportJob(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordHTTPRequest("POST", "/export/jobs", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}
	if len(req.Suggestions) == 0 {
		h.metrics.RecordHTTPRequest("POST", "/export/jobs", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "No suggestions selected",
			"message":    "suggestions array must not be empty",
			"request_id": requestID,
		})
		return
	}

	job, err := h.exportService.CreateJob(ctx, req.Suggestions)
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/export/jobs", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to create export job")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Export failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/export/jobs", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"job":        job,
		"request_id": requestID,
	})
}

// ListExportJobs returns recent export jobs, newest first.
func (h *HTTPHandlers) ListExportJobs(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()

	jobs, err := h.exportService.ListJobs(ctx, h.jobListLimit)
	if err != nil {
		h.metrics.RecordHTTPRequest("GET", "/export/jobs", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list export jobs")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list jobs",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/export/jobs", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"request_id": requestID,
	})
}

// DownloadExportJob streams the file a previous export job produced.
func (h *HTTPHandlers) DownloadExportJob(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")
	ctx := c.Request.Context()

	jobID := c.Param("id")
	job, err := h.exportService.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.metrics.RecordHTTPRequest("GET", "/export/jobs/:id/download", "404", time.Since(start))
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Job not found",
				"message":    "no export job with id " + jobID,
				"request_id": requestID,
			})
			return
		}
		h.metrics.RecordHTTPRequest("GET", "/export/jobs/:id/download", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to load export job")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to load job",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	if _, err := os.Stat(job.OutputFilePath); err != nil {
		h.metrics.RecordHTTPRequest("GET", "/export/jobs/:id/download", "404", time.Since(start))
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "File missing",
			"message":    "export file no longer exists",
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/export/jobs/:id/download", "200", time.Since(start))
	c.FileAttachment(job.OutputFilePath, job.Filename)
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := c.GetString("request_id")

	health := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "fastbulk",
		"version":    "1.0.0",
		"request_id": requestID,
	}

	h.metrics.RecordHTTPRequest("GET", "/health", "200", time.Since(start))
	c.JSON(http.StatusOK, health)
}
