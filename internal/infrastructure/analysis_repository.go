package infrastructure

import (
	"context"
	"sync"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
)

type AnalysisRepository struct {
	data   map[string]*domain.Analysis
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewAnalysisRepository(logger *logger.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		data:   make(map[string]*domain.Analysis),
		logger: logger,
	}
}

func (r *AnalysisRepository) Store(ctx context.Context, id string, analysis *domain.Analysis) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[id] = analysis

	r.logger.WithContext(ctx).WithField("analysis_id", id).Info("Stored analysis in memory")
	return nil
}

func (r *AnalysisRepository) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	analysis, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return analysis, nil
}
