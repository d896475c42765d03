package driven

import (
	"context"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// CheckConfigStore defines the driven port for per-repository commitcheck
// options. GetConfig returns (nil, nil) if the repository has no stored
// options; callers fall back to the default configuration.
type CheckConfigStore interface {
	GetConfig(ctx context.Context, repoFullName string) (*model.CheckConfig, error)
	SetConfig(ctx context.Context, cfg model.CheckConfig) error
	// DeleteConfig is idempotent.
	DeleteConfig(ctx context.Context, repoFullName string) error
}
