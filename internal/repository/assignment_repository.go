package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// AssignmentRepository handles persistence of assignments.
type AssignmentRepository struct {
	store store.Store
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(s store.Store) *AssignmentRepository {
	return &AssignmentRepository{store: s}
}

// Create persists a new assignment, minting its id.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if err := r.store.Insert(ctx, store.Assignments, assignment.ID, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID returns the assignment with the given id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.store.Get(ctx, store.Assignments, id, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByCourse returns the assignments owned by the given course.
func (r *AssignmentRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.store.Find(ctx, store.Assignments, store.Filter{"course_id": courseID}, &assignments); err != nil {
		return nil, fmt.Errorf("list assignments by course: %w", err)
	}
	return assignments, nil
}
