package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// SubmissionRepository handles persistence of submissions.
type SubmissionRepository struct {
	store store.Store
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(s store.Store) *SubmissionRepository {
	return &SubmissionRepository{store: s}
}

// Create persists a new submission, minting its id. store.ErrDuplicate passes
// through so the caller can map a uniqueness-constraint hit.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	return r.store.Insert(ctx, store.Submissions, submission.ID, submission)
}

// FindByID returns the submission with the given id.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.store.Get(ctx, store.Submissions, id, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByAssignment returns all submissions for an assignment.
func (r *SubmissionRepository) FindByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.store.Find(ctx, store.Submissions, store.Filter{"assignment_id": assignmentID}, &submissions); err != nil {
		return nil, fmt.Errorf("list submissions by assignment: %w", err)
	}
	return submissions, nil
}

// FindByStudent returns all submissions made by a student.
func (r *SubmissionRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.store.Find(ctx, store.Submissions, store.Filter{"student_id": studentID}, &submissions); err != nil {
		return nil, fmt.Errorf("list submissions by student: %w", err)
	}
	return submissions, nil
}

// FindPair returns the single submission for an (assignment, student) pair,
// or store.ErrNotFound.
func (r *SubmissionRepository) FindPair(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	var submissions []models.Submission
	filter := store.Filter{"assignment_id": assignmentID, "student_id": studentID}
	if err := r.store.Find(ctx, store.Submissions, filter, &submissions); err != nil {
		return nil, fmt.Errorf("find submission pair: %w", err)
	}
	if len(submissions) == 0 {
		return nil, store.ErrNotFound
	}
	return &submissions[0], nil
}

// SetGrade persists the grade triple with its letter grade and review text.
func (r *SubmissionRepository) SetGrade(ctx context.Context, id string, grade models.Grade, letterGrade, review string) error {
	fields := map[string]interface{}{
		"grade":        grade,
		"letter_grade": letterGrade,
		"review":       review,
	}
	if err := r.store.Update(ctx, store.Submissions, id, fields); err != nil {
		return err
	}
	return nil
}
