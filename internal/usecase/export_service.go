package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// BulkMIMEType identifies the export as an XLSX attachment.
const BulkMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const bulkSheetName = "Sponsored Products Campaigns"

// BuildBulkWorkbook flattens the suggestions' action rows into a single
// styled worksheet and returns the encoded XLSX bytes. Numeric cell
// values stay numbers; everything else is stringified, so odd value
// types never fail the export.
func BuildBulkWorkbook(suggestions []domain.Suggestion) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bulkSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	colWidths := make([]int, len(domain.BulkColumns))
	for i, name := range domain.BulkColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(bulkSheetName, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		colWidths[i] = len(name)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(domain.BulkColumns), 1)
	if err := f.SetCellStyle(bulkSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	rowIdx := 2
	for _, sug := range suggestions {
		for _, action := range sug.Actions {
			for i, col := range domain.BulkColumns {
				val := action[col]
				if col == domain.ColProduct && (val == nil || val == "") {
					val = domain.ProductSponsored
				}
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)

				var rendered string
				switch v := val.(type) {
				case nil:
					rendered = ""
				case int, int32, int64, float32, float64:
					if err := f.SetCellValue(bulkSheetName, cell, v); err != nil {
						return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
					}
					rendered = fmt.Sprint(v)
				case string:
					if err := f.SetCellValue(bulkSheetName, cell, v); err != nil {
						return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
					}
					rendered = v
				default:
					rendered = fmt.Sprint(v)
					if err := f.SetCellValue(bulkSheetName, cell, rendered); err != nil {
						return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
					}
				}
				if len(rendered) > colWidths[i] {
					colWidths[i] = len(rendered)
				}
			}
			rowIdx++
		}
	}

	// Approximate auto-fit, capped so long names stay readable.
	for i := range domain.BulkColumns {
		width := float64(min(colWidths[i]+2, 40))
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(bulkSheetName, colName, colName, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// summarize counts actions by entity and operation for the job record.
func summarize(suggestions []domain.Suggestion) domain.JobSummary {
	summary := domain.JobSummary{
		ByEntity:    make(map[string]int),
		ByOperation: make(map[string]int),
	}
	for _, sug := range suggestions {
		for _, action := range sug.Actions {
			summary.TotalActions++
			entity, _ := action[domain.ColEntity].(string)
			if entity == "" {
				entity = "?"
			}
			op, _ := action[domain.ColOperation].(string)
			if op == "" {
				op = "?"
			}
			summary.ByEntity[entity]++
			summary.ByOperation[op]++
		}
	}
	return summary
}

// ExportService turns selected suggestions into downloadable bulk files
// and tracks generated jobs.
type ExportService struct {
	jobs      domain.JobRepository
	outputDir string
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewExportService(jobs domain.JobRepository, outputDir string, logger *logger.Logger, metrics *metrics.Metrics) *ExportService {
	return &ExportService{
		jobs:      jobs,
		outputDir: outputDir,
		logger:    logger,
		metrics:   metrics,
	}
}

// Download builds the workbook in memory for direct streaming.
func (s *ExportService) Download(ctx context.Context, suggestions []domain.Suggestion) ([]byte, error) {
	data, err := BuildBulkWorkbook(suggestions)
	if err != nil {
		s.metrics.RecordExport("failed")
		return nil, fmt.Errorf("failed to build bulk workbook: %w", err)
	}

	summary := summarize(suggestions)
	s.metrics.RecordExport("success")
	s.metrics.RecordExportRows(summary.TotalActions)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"suggestions": len(suggestions),
		"actions":     summary.TotalActions,
		"bytes":       len(data),
	}).Info("Built bulk workbook for download")

	return data, nil
}

// CreateJob builds the workbook, writes it under the output directory
// and persists a job record. A failed record save is logged but does
// not invalidate the generated file.
func (s *ExportService) CreateJob(ctx context.Context, suggestions []domain.Suggestion) (*domain.BulkJob, error) {
	log := s.logger.WithContext(ctx)

	data, err := BuildBulkWorkbook(suggestions)
	if err != nil {
		s.metrics.RecordExport("failed")
		return nil, fmt.Errorf("failed to build bulk workbook: %w", err)
	}

	jobID := uuid.New().String()
	filename := fmt.Sprintf("bulk_%s_%s.xlsx", time.Now().Format("20060102_150405"), jobID[:8])

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.metrics.RecordExport("failed")
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		s.metrics.RecordExport("failed")
		return nil, fmt.Errorf("failed to write bulk file: %w", err)
	}

	job := &domain.BulkJob{
		ID:             jobID,
		Status:         "generated",
		Summary:        summarize(suggestions),
		OutputFilePath: outPath,
		Filename:       filename,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.jobs.Store(ctx, job); err != nil {
		log.WithError(err).Error("Failed to save bulk job record")
	}

	s.metrics.RecordExport("success")
	s.metrics.RecordExportRows(job.Summary.TotalActions)

	log.WithFields(map[string]any{
		"job_id":  job.ID,
		"file":    outPath,
		"actions": job.Summary.TotalActions,
	}).Info("Bulk export job created")

	return job, nil
}

// ListJobs returns the most recent job records.
func (s *ExportService) ListJobs(ctx context.Context, limit int) ([]domain.BulkJob, error) {
	jobs, err := s.jobs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list export jobs: %w", err)
	}
	return jobs, nil
}

// GetJob fetches one job record by id.
func (s *ExportService) GetJob(ctx context.Context, id string) (*domain.BulkJob, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load export job %s: %w", id, err)
	}
	return job, nil
}
