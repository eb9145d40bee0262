package types

import (
	"errors"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
)

type Job struct {
	ID          string     `db:"id"`
	EmployerID  string     `db:"employer_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Category    *string    `db:"category"`
	BudgetCents int        `db:"budget_cents"`
	Status      JobStatus  `db:"status"`
	IsFeatured  bool       `db:"is_featured"`
	PublishedAt *time.Time `db:"published_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
