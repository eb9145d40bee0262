package types

import (
	"errors"
	"time"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

type Application struct {
	ID             string            `db:"id"`
	JobID          string            `db:"job_id"`
	FreelancerID   string            `db:"freelancer_id"`
	CoverLetter    *string           `db:"cover_letter"`
	BidAmountCents int               `db:"bid_amount_cents"`
	Status         ApplicationStatus `db:"status"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"`
}
