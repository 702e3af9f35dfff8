package usecase

import (
	"context"
	"fmt"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"

	"github.com/google/uuid"
)

// AnalysisService parses uploaded bulk files and keeps the resulting
// snapshots addressable by id.
type AnalysisService struct {
	parser   domain.BulkFileParser
	analyses domain.AnalysisRepository
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewAnalysisService(
	parser domain.BulkFileParser,
	analyses domain.AnalysisRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *AnalysisService {
	return &AnalysisService{
		parser:   parser,
		analyses: analyses,
		logger:   logger,
		metrics:  metrics,
	}
}

// AnalyzeUpload parses the file at path and stores the snapshot under a
// fresh id.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, path string) (string, *domain.Analysis, error) {
	analysis, err := s.parser.Parse(ctx, path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to analyze bulk file: %w", err)
	}

	analysisID := uuid.New().String()
	if err := s.analyses.Store(ctx, analysisID, analysis); err != nil {
		return "", nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"analysis_id": analysisID,
		"campaigns":   len(analysis.CampaignsTable),
		"targets":     len(analysis.Targets),
	}).Info("Bulk file analyzed")

	return analysisID, analysis, nil
}

// Get loads a previously stored analysis.
func (s *AnalysisService) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	analysis, err := s.analyses.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}
	return analysis, nil
}
