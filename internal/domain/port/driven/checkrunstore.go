package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// ErrRunNotFound indicates the requested check run does not exist.
var ErrRunNotFound = errors.New("check run not found")

// CheckRunStore defines the driven port for check run history.
type CheckRunStore interface {
	// Record inserts the run and its findings atomically and returns the new run ID.
	Record(ctx context.Context, run model.CheckRun) (int64, error)
	// MarkPosted flags a recorded run as posted. Returns ErrRunNotFound for an unknown ID.
	MarkPosted(ctx context.Context, id int64) error
	// GetByID returns ErrRunNotFound if no run has the given ID.
	GetByID(ctx context.Context, id int64) (*model.CheckRun, error)
	// ListByPR returns all runs for a pull request, newest first.
	ListByPR(ctx context.Context, repoFullName string, prNumber int) ([]model.CheckRun, error)
	// LatestForPR returns (nil, nil) if the pull request was never checked.
	LatestForPR(ctx context.Context, repoFullName string, prNumber int) (*model.CheckRun, error)
}
