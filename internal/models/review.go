package models

import "time"

// Review is a 1-5 star course rating. At most one exists per (course, student)
// pair, and only once the student's progress reaches 100.
type Review struct {
	ID          string    `json:"id" bson:"_id"`
	CourseID    string    `json:"course_id" bson:"course_id"`
	StudentID   string    `json:"student_id" bson:"student_id"`
	StudentName string    `json:"student_name" bson:"student_name"`
	Rating      int       `json:"rating" bson:"rating"`
	Comment     string    `json:"comment" bson:"comment"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
