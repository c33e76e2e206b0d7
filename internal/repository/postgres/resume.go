package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eightynine/talentbot/internal/repository"
)

// ResumeRepo implements repository.ResumeRepository
type ResumeRepo struct {
	db *DB
}

// NewResumeRepo creates a new resume repository
func NewResumeRepo(db *DB) *ResumeRepo {
	return &ResumeRepo{db: db}
}

// Create inserts a new resume and fills in its generated ID.
func (r *ResumeRepo) Create(ctx context.Context, res *repository.Resume) error {
	dataJSON, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal resume data: %w", err)
	}

	query := `
		INSERT INTO resumes (name, email, cv_file, data, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = r.db.Pool.QueryRow(ctx, query,
		res.Name, res.Email, res.CVFile, dataJSON, res.Summary,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetByID retrieves a resume by ID
func (r *ResumeRepo) GetByID(ctx context.Context, id int64) (*repository.Resume, error) {
	query := `
		SELECT id, name, email, cv_file, data, summary, created_at, updated_at
		FROM resumes
		WHERE id = $1
	`

	var res repository.Resume
	var dataJSON []byte

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.Name, &res.Email, &res.CVFile, &dataJSON,
		&res.Summary, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := json.Unmarshal(dataJSON, &res.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume data: %w", err)
	}

	return &res, nil
}

// GetByIDs retrieves multiple resumes in one query. Missing IDs are absent
// from the result rather than an error.
func (r *ResumeRepo) GetByIDs(ctx context.Context, ids []int64) ([]*repository.Resume, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, email, cv_file, data, summary, created_at, updated_at
		FROM resumes
		WHERE id = ANY($1)
	`
	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get resumes: %w", err)
	}
	defer rows.Close()

	return scanResumes(rows)
}

// List retrieves resumes with pagination, newest first.
func (r *ResumeRepo) List(ctx context.Context, limit, offset int) ([]*repository.Resume, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count resumes: %w", err)
	}

	query := `
		SELECT id, name, email, cv_file, data, summary, created_at, updated_at
		FROM resumes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes, err := scanResumes(rows)
	if err != nil {
		return nil, 0, err
	}

	return resumes, total, nil
}

// Update updates a resume
func (r *ResumeRepo) Update(ctx context.Context, res *repository.Resume) error {
	dataJSON, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal resume data: %w", err)
	}

	query := `
		UPDATE resumes
		SET name = $2, email = $3, cv_file = $4, data = $5, summary = $6, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.Pool.Exec(ctx, query,
		res.ID, res.Name, res.Email, res.CVFile, dataJSON, res.Summary)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete deletes a resume
func (r *ResumeRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanResumes(rows pgx.Rows) ([]*repository.Resume, error) {
	var resumes []*repository.Resume
	for rows.Next() {
		var res repository.Resume
		var dataJSON []byte
		if err := rows.Scan(&res.ID, &res.Name, &res.Email, &res.CVFile, &dataJSON,
			&res.Summary, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		if err := json.Unmarshal(dataJSON, &res.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resume data: %w", err)
		}
		resumes = append(resumes, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resumes: %w", err)
	}
	return resumes, nil
}

// Ensure ResumeRepo implements the interface
var _ repository.ResumeRepository = (*ResumeRepo)(nil)
