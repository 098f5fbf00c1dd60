package models

import "time"

// Announcement is a course-wide notice visible to all enrolled students.
type Announcement struct {
	ID        string    `json:"id" bson:"_id"`
	CourseID  string    `json:"course_id" bson:"course_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Derived, for the student dashboard feed.
	CourseTitle string `json:"course_title,omitempty" bson:"-"`
}
