package infrastructure

import (
	"context"
	"sort"
	"sync"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
)

type JobRepository struct {
	data   map[string]*domain.BulkJob
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewJobRepository(logger *logger.Logger) *JobRepository {
	return &JobRepository{
		data:   make(map[string]*domain.BulkJob),
		logger: logger,
	}
}

func (r *JobRepository) Store(ctx context.Context, job *domain.BulkJob) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[job.ID] = job

	r.logger.WithContext(ctx).WithField("job_id", job.ID).Info("Stored bulk job in memory")
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id string) (*domain.BulkJob, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	job, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// List returns jobs sorted most recent first.
func (r *JobRepository) List(ctx context.Context, limit int) ([]domain.BulkJob, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	jobs := make([]domain.BulkJob, 0, len(r.data))
	for _, job := range r.data {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
