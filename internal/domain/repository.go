package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// interface for parsed analysis snapshots
type AnalysisRepository interface {
	Store(ctx context.Context, id string, analysis *Analysis) error
	Get(ctx context.Context, id string) (*Analysis, error)
}

// interface for export job records
type JobRepository interface {
	Store(ctx context.Context, job *BulkJob) error
	Get(ctx context.Context, id string) (*BulkJob, error)
	List(ctx context.Context, limit int) ([]BulkJob, error)
}

// interface for bulk file extraction
type BulkFileParser interface {
	Parse(ctx context.Context, filepath string) (*Analysis, error)
}
