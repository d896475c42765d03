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
var _ driven.CheckRunStore = (*CheckRunRepo)(nil)

// CheckRunRepo is the SQLite implementation of the CheckRunStore port interface.
type CheckRunRepo struct {
	db *DB
}

// NewCheckRunRepo creates a new CheckRunRepo backed by the given DB.
func NewCheckRunRepo(db *DB) *CheckRunRepo {
	return &CheckRunRepo{db: db}
}

const checkRunColumns = `id, repo_full_name, pr_number, head_sha, commit_count, report_body, posted, skip_reason, checked_at`

// Record inserts the run and its findings in a single transaction and
// returns the new run ID. Findings keep their report order.
func (r *CheckRunRepo) Record(ctx context.Context, run model.CheckRun) (int64, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	checkedAt := run.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	posted := 0
	if run.Posted {
		posted = 1
	}

	const insertRun = `
		INSERT INTO check_runs (repo_full_name, pr_number, head_sha, commit_count, report_body, posted, skip_reason, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, insertRun,
		run.RepoFullName, run.PRNumber, run.HeadSHA, run.CommitCount,
		run.ReportBody, posted, string(run.SkipReason), checkedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert check run for %s#%d: %w", run.RepoFullName, run.PRNumber, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	const insertFinding = `
		INSERT INTO check_findings (run_id, position, kind, sha, url, status_code)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for i, f := range run.Findings {
		if _, err := tx.ExecContext(ctx, insertFinding,
			id, i, string(f.Kind), f.SHA, f.URL, f.StatusCode,
		); err != nil {
			return 0, fmt.Errorf("insert finding %d for run %d: %w", i, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit check run %d: %w", id, err)
	}

	return id, nil
}

// MarkPosted sets the posted flag of a recorded run.
func (r *CheckRunRepo) MarkPosted(ctx context.Context, id int64) error {
	result, err := r.db.Writer.ExecContext(ctx, `UPDATE check_runs SET posted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark check run %d posted: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark check run %d posted: %w", id, driven.ErrRunNotFound)
	}

	return nil
}

// GetByID returns a run with its findings, or ErrRunNotFound.
func (r *CheckRunRepo) GetByID(ctx context.Context, id int64) (*model.CheckRun, error) {
	query := `SELECT ` + checkRunColumns + ` FROM check_runs WHERE id = ?`

	run, err := scanCheckRun(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get check run %d: %w", id, driven.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get check run %d: %w", id, err)
	}

	if run.Findings, err = r.findings(ctx, id); err != nil {
		return nil, err
	}

	return run, nil
}

// ListByPR returns all runs for a pull request, newest first.
func (r *CheckRunRepo) ListByPR(ctx context.Context, repoFullName string, prNumber int) ([]model.CheckRun, error) {
	query := `SELECT ` + checkRunColumns + `
		FROM check_runs
		WHERE repo_full_name = ? AND pr_number = ?
		ORDER BY id DESC
	`

	runs, err := r.queryRuns(ctx, query, repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("list check runs for %s#%d: %w", repoFullName, prNumber, err)
	}

	for i := range runs {
		if runs[i].Findings, err = r.findings(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

// LatestForPR returns the most recent run of a pull request, or (nil, nil)
// if it was never checked. Findings are not loaded.
func (r *CheckRunRepo) LatestForPR(ctx context.Context, repoFullName string, prNumber int) (*model.CheckRun, error) {
	query := `SELECT ` + checkRunColumns + `
		FROM check_runs
		WHERE repo_full_name = ? AND pr_number = ?
		ORDER BY id DESC
		LIMIT 1
	`

	run, err := scanCheckRun(r.db.Reader.QueryRowContext(ctx, query, repoFullName, prNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest check run for %s#%d: %w", repoFullName, prNumber, err)
	}

	return run, nil
}

func (r *CheckRunRepo) queryRuns(ctx context.Context, query string, args ...any) ([]model.CheckRun, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.CheckRun
	for rows.Next() {
		run, err := scanCheckRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check runs: %w", err)
	}

	return runs, nil
}

func (r *CheckRunRepo) findings(ctx context.Context, runID int64) ([]model.Finding, error) {
	const query = `
		SELECT kind, sha, url, status_code
		FROM check_findings
		WHERE run_id = ?
		ORDER BY position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings for run %d: %w", runID, err)
	}
	defer rows.Close()

	var findings []model.Finding
	for rows.Next() {
		var f model.Finding
		var kind string
		if err := rows.Scan(&kind, &f.SHA, &f.URL, &f.StatusCode); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Kind = model.FindingKind(kind)
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}

	return findings, nil
}

func scanCheckRun(s scanner) (*model.CheckRun, error) {
	var run model.CheckRun
	var posted int
	var skipReason, checkedAt string

	err := s.Scan(
		&run.ID, &run.RepoFullName, &run.PRNumber, &run.HeadSHA, &run.CommitCount,
		&run.ReportBody, &posted, &skipReason, &checkedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Posted = posted != 0
	run.SkipReason = model.SkipReason(skipReason)

	run.CheckedAt, err = parseTime(checkedAt)
	if err != nil {
		return nil, fmt.Errorf("parse checked_at: %w", err)
	}

	return &run, nil
}
