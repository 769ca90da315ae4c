package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the pipeline column a job application sits in.
type JobStatus string

const (
	StatusWishlist  JobStatus = "wishlist"
	StatusApplied   JobStatus = "applied"
	StatusInterview JobStatus = "interview"
	StatusOffer     JobStatus = "offer"
	StatusRejected  JobStatus = "rejected"
)

// JobStatuses lists every status in pipeline order.
var JobStatuses = []JobStatus{StatusWishlist, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	for _, known := range JobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// JobApplication is a single tracked application, owned by exactly one user.
type JobApplication struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Status      JobStatus  `json:"status"`
	Location    string     `json:"location"`
	URL         string     `json:"url"`
	Salary      string     `json:"salary"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	InterviewAt *time.Time `json:"interview_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobStats is the dashboard summary of a user's pipeline.
type JobStats struct {
	Total              int               `json:"total"`
	ByStatus           map[JobStatus]int `json:"by_status"`
	UpcomingInterviews int               `json:"upcoming_interviews"`
}
