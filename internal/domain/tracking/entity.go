// Package tracking holds the per-user saved and applied state of jobs.
//
// Saved state and applied state are independent axes:
//
//	saved:   (no row) <──► SAVED
//	applied: (no row) <──► APPLIED | INTERVIEW | REJECTED | OFFER
//
// An applied row is overwritten in place on status change; withdrawing
// deletes it rather than restoring a previous status.
package tracking

import (
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/domain/job"
)

type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusRejected  Status = "REJECTED"
	StatusOffer     Status = "OFFER"
)

var allStatuses = []Status{StatusApplied, StatusInterview, StatusRejected, StatusOffer}

// Statuses returns every status in declaration order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus is case-insensitive; unknown values are an error.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusApplied, StatusInterview, StatusRejected, StatusOffer:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

type SavedJob struct {
	UserID  int64
	Ref     job.Ref
	SavedAt time.Time
}

type AppliedJob struct {
	UserID    int64
	Ref       job.Ref
	Status    Status
	AppliedAt time.Time
}

// ApplicationState is the answer to "have I applied to this job".
type ApplicationState struct {
	Applied   bool
	Status    Status
	AppliedAt *time.Time
}
