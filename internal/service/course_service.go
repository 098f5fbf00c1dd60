package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/rules"
	"github.com/yugash007/nexel-api/internal/store"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindAll(ctx context.Context) ([]models.Course, error)
	FindByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	FindByStudent(ctx context.Context, studentID string) ([]models.Course, error)
	AddStudent(ctx context.Context, courseID, studentID string) error
	AddModule(ctx context.Context, courseID string, module *models.Module) error
	ReplaceModules(ctx context.Context, courseID string, modules []models.Module) error
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type assignmentReader interface {
	FindByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
}

type submissionReader interface {
	FindByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
}

type reviewReader interface {
	FindByCourse(ctx context.Context, courseID string) ([]models.Review, error)
}

type enrollmentNotifier interface {
	EnrollmentRecorded(ctx context.Context, student models.User, course models.Course)
}

// CreateCourseRequest describes course creation.
type CreateCourseRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Duration      string   `json:"duration" validate:"required"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

// CreateModuleRequest describes module creation.
type CreateModuleRequest struct {
	Title string `json:"title" validate:"required"`
}

// AddVideoRequest describes appending a video to a module.
type AddVideoRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// AddStudyMaterialRequest describes appending a study-material reference.
type AddStudyMaterialRequest struct {
	Title    string `json:"title" validate:"required"`
	FileURL  string `json:"file_url" validate:"required"`
	FileName string `json:"file_name" validate:"required"`
}

// CourseService orchestrates the course catalog, enrollment, and content
// management.
type CourseService struct {
	courses     courseRepository
	users       userReader
	assignments assignmentReader
	submissions submissionReader
	reviews     reviewReader
	notifier    enrollmentNotifier
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, users userReader, assignments assignmentReader, submissions submissionReader, reviews reviewReader, notifier enrollmentNotifier, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:     courses,
		users:       users,
		assignments: assignments,
		submissions: submissions,
		reviews:     reviews,
		notifier:    notifier,
		validator:   validate,
		logger:      logger,
	}
}

// Create registers a new course owned by the acting teacher.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest, teacherID string) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	teacher, err := s.loadUser(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can create courses")
	}

	course := &models.Course{
		Title:            req.Title,
		Description:      req.Description,
		Duration:         req.Duration,
		TeacherID:        teacherID,
		StudentsEnrolled: []string{},
		Modules:          []models.Module{},
		Prerequisites:    req.Prerequisites,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	course.TeacherName = teacher.Name
	return course, nil
}

// List returns the catalog with teacher names and average ratings attached.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	for i := range courses {
		s.decorate(ctx, &courses[i])
	}
	return courses, nil
}

// Get returns one course with derived fields attached.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, course)
	return course, nil
}

// ListByStudent returns the student's enrolled courses with progress.
func (s *CourseService) ListByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	courses, err := s.courses.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}
	for i := range courses {
		s.decorate(ctx, &courses[i])
		progress, err := s.progress(ctx, courses[i].ID, studentID)
		if err != nil {
			return nil, err
		}
		courses[i].Progress = &progress
	}
	return courses, nil
}

// ListByTeacher returns the courses owned by a teacher.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	courses, err := s.courses.FindByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses by teacher")
	}
	for i := range courses {
		s.decorate(ctx, &courses[i])
	}
	return courses, nil
}

// Enroll adds the student to the course. Re-enrolling is a no-op; unmet
// prerequisites block enrollment with the missing course titles enumerated.
func (s *CourseService) Enroll(ctx context.Context, courseID, studentID string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	student, err := s.loadUser(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if course.IsEnrolled(studentID) {
		s.decorate(ctx, course)
		return course, nil
	}

	if len(course.Prerequisites) > 0 {
		missing, err := s.missingPrerequisites(ctx, course.Prerequisites, studentID)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			titles := make([]string, 0, len(missing))
			for _, id := range missing {
				if prereq, err := s.courses.FindByID(ctx, id); err == nil {
					titles = append(titles, prereq.Title)
				} else {
					titles = append(titles, id)
				}
			}
			msg := fmt.Sprintf("Prerequisites not met. Please complete: %s", strings.Join(titles, ", "))
			return nil, appErrors.Clone(appErrors.ErrPrerequisiteNotMet, msg)
		}
	}

	if err := s.courses.AddStudent(ctx, courseID, studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	course.StudentsEnrolled = append(course.StudentsEnrolled, studentID)

	s.notifier.EnrollmentRecorded(ctx, *student, *course)

	s.decorate(ctx, course)
	return course, nil
}

// EnrolledStudents returns the users enrolled in a course.
func (s *CourseService) EnrolledStudents(ctx context.Context, courseID string) ([]models.User, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students := make([]models.User, 0, len(course.StudentsEnrolled))
	for _, id := range course.StudentsEnrolled {
		student, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled student")
		}
		students = append(students, student.Public())
	}
	return students, nil
}

// CreateModule appends a module to a course owned by the acting teacher.
func (s *CourseService) CreateModule(ctx context.Context, courseID, teacherID string, req CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}

	if _, err := s.loadOwnedCourse(ctx, courseID, teacherID); err != nil {
		return nil, err
	}

	module := &models.Module{Title: req.Title}
	if err := s.courses.AddModule(ctx, courseID, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}

// AddVideo appends a video to a module of a course owned by the acting teacher.
func (s *CourseService) AddVideo(ctx context.Context, courseID, moduleID, teacherID string, req AddVideoRequest) (*models.Video, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}

	course, err := s.loadOwnedCourse(ctx, courseID, teacherID)
	if err != nil {
		return nil, err
	}
	module := course.FindModule(moduleID)
	if module == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
	}

	video := models.Video{ID: uuid.NewString(), Title: req.Title, URL: req.URL}
	module.Videos = append(module.Videos, video)
	if err := s.courses.ReplaceModules(ctx, courseID, course.Modules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add video")
	}
	return &video, nil
}

// AddStudyMaterial appends a study-material reference to a module.
func (s *CourseService) AddStudyMaterial(ctx context.Context, courseID, moduleID, teacherID string, req AddStudyMaterialRequest) (*models.StudyMaterial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study material payload")
	}

	course, err := s.loadOwnedCourse(ctx, courseID, teacherID)
	if err != nil {
		return nil, err
	}
	module := course.FindModule(moduleID)
	if module == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
	}

	material := models.StudyMaterial{ID: uuid.NewString(), Title: req.Title, FileURL: req.FileURL, FileName: req.FileName}
	module.StudyMaterials = append(module.StudyMaterials, material)
	if err := s.courses.ReplaceModules(ctx, courseID, course.Modules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add study material")
	}
	return &material, nil
}

func (s *CourseService) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *CourseService) loadOwnedCourse(ctx context.Context, courseID, teacherID string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is owned by another teacher")
	}
	return course, nil
}

func (s *CourseService) loadUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// progress computes the student's completion percentage for a course.
func (s *CourseService) progress(ctx context.Context, courseID, studentID string) (int, error) {
	assignments, err := s.assignments.FindByCourse(ctx, courseID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	submissions, err := s.submissions.FindByStudent(ctx, studentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions")
	}
	return rules.Progress(assignments, submissions), nil
}

// missingPrerequisites reports the prerequisite ids the student has not
// completed. Completion requires enrollment and 100 percent progress.
func (s *CourseService) missingPrerequisites(ctx context.Context, prerequisites []string, studentID string) ([]string, error) {
	enrolled, err := s.courses.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled courses")
	}

	completed := make(map[string]bool, len(enrolled))
	for _, c := range enrolled {
		progress, err := s.progress(ctx, c.ID, studentID)
		if err != nil {
			return nil, err
		}
		completed[c.ID] = progress == 100
	}

	return rules.MissingPrerequisites(prerequisites, completed), nil
}

// decorate attaches the derived teacher name and average rating. Lookup
// failures degrade to absent fields; they never fail the read.
func (s *CourseService) decorate(ctx context.Context, course *models.Course) {
	if teacher, err := s.users.FindByID(ctx, course.TeacherID); err == nil {
		course.TeacherName = teacher.Name
	} else {
		course.TeacherName = "Unknown Teacher"
	}
	if reviews, err := s.reviews.FindByCourse(ctx, course.ID); err == nil {
		course.AverageRating = rules.AverageRating(reviews)
	}
}
