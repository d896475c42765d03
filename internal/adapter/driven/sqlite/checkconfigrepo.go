package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CheckConfigStore = (*CheckConfigRepo)(nil)

// CheckConfigRepo is the SQLite implementation of the CheckConfigStore port interface.
type CheckConfigRepo struct {
	db *DB
}

// NewCheckConfigRepo creates a new CheckConfigRepo backed by the given DB.
func NewCheckConfigRepo(db *DB) *CheckConfigRepo {
	return &CheckConfigRepo{db: db}
}

// GetConfig retrieves the commitcheck options of a repository. Returns
// (nil, nil) if none are stored; callers should apply defaults.
func (r *CheckConfigRepo) GetConfig(ctx context.Context, repoFullName string) (*model.CheckConfig, error) {
	const query = `
		SELECT repo_full_name, pattern, check_url, message
		FROM commit_check_configs
		WHERE repo_full_name = ?
	`

	var cfg model.CheckConfig

	err := r.db.Reader.QueryRowContext(ctx, query, repoFullName).Scan(
		&cfg.RepoFullName, &cfg.Pattern, &cfg.CheckURL, &cfg.Message,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get check config for %s: %w", repoFullName, err)
	}

	return &cfg, nil
}

// SetConfig inserts or replaces the options of a watched repository. Returns
// ErrRepoNotFound if the repository is not watched.
func (r *CheckConfigRepo) SetConfig(ctx context.Context, cfg model.CheckConfig) error {
	const query = `
		INSERT INTO commit_check_configs (repo_full_name, pattern, check_url, message, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(repo_full_name) DO UPDATE SET
			pattern = excluded.pattern,
			check_url = excluded.check_url,
			message = excluded.message,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		cfg.RepoFullName, cfg.Pattern, cfg.CheckURL, cfg.Message, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("set check config for %s: %w", cfg.RepoFullName, driven.ErrRepoNotFound)
		}
		return fmt.Errorf("set check config for %s: %w", cfg.RepoFullName, err)
	}

	return nil
}

// DeleteConfig removes stored options. Deleting absent options is not an error.
func (r *CheckConfigRepo) DeleteConfig(ctx context.Context, repoFullName string) error {
	const query = `DELETE FROM commit_check_configs WHERE repo_full_name = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, repoFullName); err != nil {
		return fmt.Errorf("delete check config for %s: %w", repoFullName, err)
	}

	return nil
}
