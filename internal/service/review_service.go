package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/rules"
	"github.com/yugash007/nexel-api/internal/store"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByCourse(ctx context.Context, courseID string) ([]models.Review, error)
	FindPair(ctx context.Context, courseID, studentID string) (*models.Review, error)
}

type reviewNotifier interface {
	ReviewPosted(ctx context.Context, student models.User, course models.Course, rating int)
}

// CreateReviewRequest describes posting a course review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// ReviewService orchestrates course reviews. A student may review a course
// once, and only after completing it.
type ReviewService struct {
	reviews     reviewRepository
	courses     courseReader
	users       userReader
	assignments assignmentReader
	submissions submissionReader
	notifier    reviewNotifier
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(reviews reviewRepository, courses courseReader, users userReader, assignments assignmentReader, submissions submissionReader, notifier reviewNotifier, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:     reviews,
		courses:     courses,
		users:       users,
		assignments: assignments,
		submissions: submissions,
		notifier:    notifier,
		validator:   validate,
		logger:      logger,
	}
}

// Create posts a review. The student must be enrolled, must have completed
// the course, and must not have reviewed it before.
func (s *ReviewService) Create(ctx context.Context, courseID, studentID string, req CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rating must be between 1 and 5")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, mapReadError(err, "course not found", "failed to load course")
	}
	if !course.IsEnrolled(studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not enrolled in this course")
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, mapReadError(err, "user not found", "failed to load user")
	}

	if _, err := s.reviews.FindPair(ctx, courseID, studentID); err == nil {
		return nil, appErrors.ErrDuplicateReview
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing review")
	}

	completed, err := s.completed(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course must be completed before reviewing")
	}

	review := &models.Review{
		CourseID:    courseID,
		StudentID:   studentID,
		StudentName: student.Name,
		Rating:      req.Rating,
		Comment:     req.Comment,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, appErrors.ErrDuplicateReview
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}

	s.notifier.ReviewPosted(ctx, *student, *course, review.Rating)
	return review, nil
}

// ListByCourse returns a course's reviews, newest first.
func (s *ReviewService) ListByCourse(ctx context.Context, courseID string) ([]models.Review, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, mapReadError(err, "course not found", "failed to load course")
	}
	reviews, err := s.reviews.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (s *ReviewService) completed(ctx context.Context, courseID, studentID string) (bool, error) {
	assignments, err := s.assignments.FindByCourse(ctx, courseID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	submissions, err := s.submissions.FindByStudent(ctx, studentID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions")
	}
	return rules.Progress(assignments, submissions) == 100, nil
}
