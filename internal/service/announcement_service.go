package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type announcementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	FindByCourse(ctx context.Context, courseID string) ([]models.Announcement, error)
}

type enrolledCoursesReader interface {
	FindByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

type announcementNotifier interface {
	AnnouncementPosted(ctx context.Context, course models.Course, announcement models.Announcement)
}

// CreateAnnouncementRequest describes announcement creation.
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// AnnouncementService orchestrates course announcements and the student feed.
type AnnouncementService struct {
	announcements announcementRepository
	courses       courseReader
	enrollments   enrolledCoursesReader
	notifier      announcementNotifier
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(announcements announcementRepository, courses courseReader, enrollments enrolledCoursesReader, notifier announcementNotifier, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		announcements: announcements,
		courses:       courses,
		enrollments:   enrollments,
		notifier:      notifier,
		validator:     validate,
		logger:        logger,
	}
}

// Create posts an announcement to a course owned by the acting teacher and
// notifies every enrolled student.
func (s *AnnouncementService) Create(ctx context.Context, courseID, teacherID string, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, mapReadError(err, "course not found", "failed to load course")
	}
	if course.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is owned by another teacher")
	}

	announcement := &models.Announcement{
		CourseID:  courseID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}

	s.notifier.AnnouncementPosted(ctx, *course, *announcement)
	return announcement, nil
}

// ListByCourse returns a course's announcements, newest first.
func (s *AnnouncementService) ListByCourse(ctx context.Context, courseID string) ([]models.Announcement, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, mapReadError(err, "course not found", "failed to load course")
	}
	announcements, err := s.announcements.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	sortAnnouncementsDesc(announcements)
	return announcements, nil
}

// ListForStudent returns announcements across all of the student's enrolled
// courses, newest first, with course titles attached.
func (s *AnnouncementService) ListForStudent(ctx context.Context, studentID string) ([]models.Announcement, error) {
	courses, err := s.enrollments.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}

	feed := make([]models.Announcement, 0)
	for _, course := range courses {
		announcements, err := s.announcements.FindByCourse(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
		}
		for i := range announcements {
			announcements[i].CourseTitle = course.Title
		}
		feed = append(feed, announcements...)
	}
	sortAnnouncementsDesc(feed)
	return feed, nil
}

func sortAnnouncementsDesc(announcements []models.Announcement) {
	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
}
