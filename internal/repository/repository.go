// Package repository defines domain models and data access interfaces for resumes.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eightynine/talentbot/internal/resume"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Resume is a stored candidate record: the structured data extracted from an
// uploaded resume plus the free-text summary indexed for similarity search.
type Resume struct {
	ID        int64
	Name      string
	Email     string
	CVFile    string
	Data      resume.JSONResume
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResumeRepository defines operations for resume persistence
type ResumeRepository interface {
	Create(ctx context.Context, r *Resume) error
	GetByID(ctx context.Context, id int64) (*Resume, error)

	// GetByIDs fetches multiple resumes in one query. IDs with no stored
	// record are simply absent from the result; the caller decides whether
	// that is an error.
	GetByIDs(ctx context.Context, ids []int64) ([]*Resume, error)

	List(ctx context.Context, limit, offset int) ([]*Resume, int, error)
	Update(ctx context.Context, r *Resume) error
	Delete(ctx context.Context, id int64) error
}
