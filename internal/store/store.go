// Package store defines the record-store boundary the domain is written
// against: an opaque document store with get, find-by-equality, insert,
// partial update, and array append. Backends live in the subpackages.
package store

import (
	"context"
	"errors"
)

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("store: duplicate document")
)

// Collection names for the persisted entity sets.
const (
	Users         = "users"
	Courses       = "courses"
	Assignments   = "assignments"
	Submissions   = "submissions"
	Announcements = "announcements"
	Reviews       = "reviews"
	Threads       = "threads"
	Replies       = "replies"
	Notifications = "notifications"
)

// Filter matches documents whose named fields equal the given values.
// Field names follow the persisted (snake_case) document layout.
type Filter map[string]interface{}

// Store is the persistence boundary. Documents are identified by
// caller-supplied ids (the repositories mint UUIDs).
type Store interface {
	// Get loads the document with the given id into out (a pointer to the
	// entity struct). Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string, out interface{}) error

	// Find loads every document matching the filter into out (a pointer to a
	// slice). An empty filter matches the whole collection.
	Find(ctx context.Context, collection string, filter Filter, out interface{}) error

	// Insert persists a new document under the given id.
	Insert(ctx context.Context, collection, id string, doc interface{}) error

	// Update merges the given fields into the stored document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Append appends value to the named array field of the stored document.
	Append(ctx context.Context, collection, id, field string, value interface{}) error
}
