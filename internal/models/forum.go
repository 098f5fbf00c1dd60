package models

import "time"

// Thread is a per-course discussion topic.
type Thread struct {
	ID         string    `json:"id" bson:"_id"`
	CourseID   string    `json:"course_id" bson:"course_id"`
	Title      string    `json:"title" bson:"title"`
	Content    string    `json:"content" bson:"content"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`

	// Derived: count of replies, never persisted.
	ReplyCount int `json:"reply_count" bson:"-"`
}

// Reply is a response within a thread.
type Reply struct {
	ID         string    `json:"id" bson:"_id"`
	ThreadID   string    `json:"thread_id" bson:"thread_id"`
	Content    string    `json:"content" bson:"content"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
