package models

import "time"

// Notification is a side-effect record produced by the fan-out component and
// mutated only by the bulk mark-as-read operation.
type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Message   string    `json:"message" bson:"message"`
	Link      string    `json:"link" bson:"link"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Read      bool      `json:"read" bson:"read"`
}
