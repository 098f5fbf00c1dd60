package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// ReviewRepository handles persistence of course reviews.
type ReviewRepository struct {
	store store.Store
}

// NewReviewRepository constructs the repository.
func NewReviewRepository(s store.Store) *ReviewRepository {
	return &ReviewRepository{store: s}
}

// Create persists a new review, minting its id. store.ErrDuplicate passes
// through so the caller can map a uniqueness-constraint hit.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	return r.store.Insert(ctx, store.Reviews, review.ID, review)
}

// FindByCourse returns the reviews posted for a course.
func (r *ReviewRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.store.Find(ctx, store.Reviews, store.Filter{"course_id": courseID}, &reviews); err != nil {
		return nil, fmt.Errorf("list reviews by course: %w", err)
	}
	return reviews, nil
}

// FindPair returns the review for a (course, student) pair, or store.ErrNotFound.
func (r *ReviewRepository) FindPair(ctx context.Context, courseID, studentID string) (*models.Review, error) {
	var reviews []models.Review
	filter := store.Filter{"course_id": courseID, "student_id": studentID}
	if err := r.store.Find(ctx, store.Reviews, filter, &reviews); err != nil {
		return nil, fmt.Errorf("find review pair: %w", err)
	}
	if len(reviews) == 0 {
		return nil, store.ErrNotFound
	}
	return &reviews[0], nil
}
