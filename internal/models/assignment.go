package models

import "time"

// Assignment represents a graded task owned by one course.
type Assignment struct {
	ID          string     `json:"id" bson:"_id"`
	CourseID    string     `json:"course_id" bson:"course_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Deadline    *time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}

// SubmissionStatus describes the lifecycle of an assignment for a student.
type SubmissionStatus string

const (
	StatusNotSubmitted SubmissionStatus = "Not Submitted"
	StatusSubmitted    SubmissionStatus = "Submitted"
	StatusGraded       SubmissionStatus = "Graded"
)

// EnrichedAssignment is an assignment joined with the viewing student's submission state.
type EnrichedAssignment struct {
	Assignment
	SubmissionStatus SubmissionStatus `json:"submission_status"`
	Grade            *Grade           `json:"grade,omitempty"`
}
