package usecase

import (
	"context"
	"fmt"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"
)

// SuggestionService resolves thresholds, runs the engine against a
// stored analysis snapshot and records observability signals.
type SuggestionService struct {
	analyses domain.AnalysisRepository
	engine   *SuggestionEngine
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewSuggestionService(
	analyses domain.AnalysisRepository,
	engine *SuggestionEngine,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *SuggestionService {
	return &SuggestionService{
		analyses: analyses,
		engine:   engine,
		logger:   logger,
		metrics:  metrics,
	}
}

// GenerateForAnalysis loads the snapshot and produces suggestions with
// the caller's overrides applied. An empty result means nothing to
// optimize, not a failure.
func (s *SuggestionService) GenerateForAnalysis(ctx context.Context, analysisID string, overrides *ThresholdOverrides) ([]domain.Suggestion, error) {
	log := s.logger.WithContext(ctx)

	analysis, err := s.analyses.Get(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", analysisID, err)
	}

	thresholds, err := DefaultThresholds().Apply(overrides)
	if err != nil {
		return nil, err
	}

	suggestions := s.engine.Generate(analysis, thresholds)

	byCategory := make(map[string]int)
	for _, sug := range suggestions {
		byCategory[sug.Category]++
	}
	for category, count := range byCategory {
		s.metrics.RecordSuggestions(category, count)
	}

	log.WithFields(map[string]any{
		"analysis_id": analysisID,
		"count":       len(suggestions),
		"by_category": byCategory,
	}).Info("Generated suggestions")

	return suggestions, nil
}
