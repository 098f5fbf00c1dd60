package models

import "time"

// Grade is the internal/external/final mark triple attached to a graded submission.
type Grade struct {
	Internal int `json:"internal" bson:"internal"`
	External int `json:"external" bson:"external"`
	Final    int `json:"final" bson:"final"`
}

// Submission records a student's answer to an assignment. At most one exists
// per (assignment, student) pair.
type Submission struct {
	ID           string    `json:"id" bson:"_id"`
	AssignmentID string    `json:"assignment_id" bson:"assignment_id"`
	StudentID    string    `json:"student_id" bson:"student_id"`
	Content      string    `json:"content,omitempty" bson:"content,omitempty"`
	FileURL      string    `json:"file_url,omitempty" bson:"file_url,omitempty"`
	FileName     string    `json:"file_name,omitempty" bson:"file_name,omitempty"`
	Grade        *Grade    `json:"grade" bson:"grade,omitempty"`
	LetterGrade  string    `json:"letter_grade,omitempty" bson:"letter_grade,omitempty"`
	Review       string    `json:"review,omitempty" bson:"review,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at" bson:"submitted_at"`

	// Derived, never persisted.
	StudentName string `json:"student_name,omitempty" bson:"-"`
}

// Status reports the submission lifecycle state.
func (s Submission) Status() SubmissionStatus {
	if s.Grade != nil {
		return StatusGraded
	}
	return StatusSubmitted
}

// EnrichedSubmission is a submission joined with assignment and course context.
type EnrichedSubmission struct {
	Submission
	AssignmentTitle string `json:"assignment_title"`
	CourseID        string `json:"course_id"`
	CourseTitle     string `json:"course_title"`
}
