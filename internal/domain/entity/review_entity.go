package entity

import "time"

type Review struct {
	ID        string    `json:"_id"`
	CourseID  string    `json:"course"`
	UserID    string    `json:"user"`
	Review    string    `json:"review"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewWithUser is a review with its author resolved.
type ReviewWithUser struct {
	Review
	User UserSummary `json:"user"`
}
