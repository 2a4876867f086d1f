package entity

import (
	"errors"
	"time"
)

// ErrInvalidReviewCount is returned when a rating update is asked to divide by a non-positive count.
var ErrInvalidReviewCount = errors.New("review count must be positive")

type Session struct {
	Session     string `json:"session"`
	Description string `json:"description"`
}

type Assignment struct {
	Question string   `json:"question"`
	RightAns string   `json:"rightAns"`
	Options  []string `json:"options"`
}

// Purchase is one enrollment transaction. Month is the English month name.
type Purchase struct {
	StudentID string    `json:"studentId"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	Month     string    `json:"month"`
}

// Course is owned by exactly one tutor. Status false means unlisted.
type Course struct {
	ID               string       `json:"_id"`
	TutorID          string       `json:"tutor"`
	CourseName       string       `json:"coursename"`
	Description      string       `json:"description"`
	ShortDescription string       `json:"shortDescription"`
	Status           bool         `json:"status"`
	Category         string       `json:"category"`
	Language         string       `json:"language"`
	IsPaid           bool         `json:"isPaid"`
	Price            float64      `json:"price"`
	Level            string       `json:"level"`
	ImgURL           string       `json:"imgUrl"`
	VideoURL         string       `json:"videoUrl"`
	Rating           float64      `json:"rating"`
	Syllabus         []Session    `json:"sylabus"`
	Assignments      []Assignment `json:"assignments"`
	Students         []string     `json:"students"`
	PurchaseHistory  []Purchase   `json:"purchaseHistory,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// CourseDetail is a course with its tutor resolved.
type CourseDetail struct {
	Course
	Tutor *UserSummary `json:"tutorInfo,omitempty"`
}

// CourseUpdate carries the editable fields of a course.
type CourseUpdate struct {
	CourseName       string
	Description      string
	ShortDescription string
	Category         string
	Language         string
	IsPaid           bool
	Price            float64
	Level            string
	ImgURL           string
	VideoURL         string
	Syllabus         []Session
	Assignments      []Assignment
}

// NextRating applies the platform rating rule: (current + incoming) / count,
// where count already includes the incoming review. It is not a running mean
// and is kept that way on purpose.
func NextRating(current, incoming float64, count int64) (float64, error) {
	if count <= 0 {
		return current, ErrInvalidReviewCount
	}
	return (current + incoming) / float64(count), nil
}

// NewPurchase builds the history entry recorded on enrollment.
func NewPurchase(studentID string, price float64, at time.Time) Purchase {
	return Purchase{StudentID: studentID, Date: at, Price: price, Month: at.Month().String()}
}

func (c *Course) HasStudent(id string) bool {
	for _, s := range c.Students {
		if s == id {
			return true
		}
	}
	return false
}
