package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/rules"
	"github.com/yugash007/nexel-api/internal/store"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	FindByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
}

type submissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	FindByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	FindByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	FindPair(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	SetGrade(ctx context.Context, id string, grade models.Grade, letterGrade, review string) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type assignmentNotifier interface {
	AssignmentCreated(ctx context.Context, course models.Course, assignment models.Assignment)
	SubmissionReceived(ctx context.Context, student models.User, assignment models.Assignment, course models.Course)
	SubmissionGraded(ctx context.Context, submission models.Submission, assignment models.Assignment)
}

// CreateAssignmentRequest describes assignment creation.
type CreateAssignmentRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// SubmitRequest describes a student submission. Content and file may coexist;
// at least one must be present.
type SubmitRequest struct {
	Content  string `json:"content,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// GradeRequest describes the teacher's grading of a submission. LetterGrade
// is free-form ("B+" is valid); when empty the standard scale is applied to
// the computed final mark.
type GradeRequest struct {
	Internal    int    `json:"internal"`
	External    int    `json:"external"`
	LetterGrade string `json:"letter_grade,omitempty"`
	Review      string `json:"review,omitempty"`
}

// AssignmentService orchestrates assignments, submissions, and grading.
type AssignmentService struct {
	assignments assignmentRepository
	submissions submissionRepository
	courses     courseReader
	users       userReader
	notifier    assignmentNotifier
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(assignments assignmentRepository, submissions submissionRepository, courses courseReader, users userReader, notifier assignmentNotifier, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		submissions: submissions,
		courses:     courses,
		users:       users,
		notifier:    notifier,
		validator:   validate,
		logger:      logger,
	}
}

// Create adds an assignment to a course owned by the acting teacher and
// notifies every enrolled student.
func (s *AssignmentService) Create(ctx context.Context, courseID, teacherID string, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is owned by another teacher")
	}

	assignment := &models.Assignment{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.notifier.AssignmentCreated(ctx, *course, *assignment)
	return assignment, nil
}

// Get returns one assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	return s.loadAssignment(ctx, id)
}

// ListByCourse returns the assignments of a course.
func (s *AssignmentService) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	if _, err := s.loadCourse(ctx, courseID); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// ListEnriched returns the assignments of a course joined with the viewing
// student's submission state and grade.
func (s *AssignmentService) ListEnriched(ctx context.Context, courseID, studentID string) ([]models.EnrichedAssignment, error) {
	assignments, err := s.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissions.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}

	byAssignment := make(map[string]models.Submission, len(submissions))
	for _, sub := range submissions {
		byAssignment[sub.AssignmentID] = sub
	}

	enriched := make([]models.EnrichedAssignment, 0, len(assignments))
	for _, a := range assignments {
		e := models.EnrichedAssignment{Assignment: a, SubmissionStatus: models.StatusNotSubmitted}
		if sub, ok := byAssignment[a.ID]; ok {
			e.SubmissionStatus = sub.Status()
			e.Grade = sub.Grade
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}

// Submit records a student's submission. The student must be enrolled, the
// payload must carry content or a file, and at most one submission exists per
// (assignment, student) pair.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID, studentID string, req SubmitRequest) (*models.Submission, error) {
	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.FileURL) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission requires content or a file")
	}

	assignment, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.loadCourse(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsEnrolled(studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not enrolled in this course")
	}

	if _, err := s.submissions.FindPair(ctx, assignmentID, studentID); err == nil {
		return nil, appErrors.ErrDuplicateSubmission
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing submission")
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      req.Content,
		FileURL:      req.FileURL,
		FileName:     req.FileName,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, appErrors.ErrDuplicateSubmission
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}

	if student, err := s.users.FindByID(ctx, studentID); err == nil {
		s.notifier.SubmissionReceived(ctx, *student, *assignment, *course)
	} else {
		s.logger.Warn("submission notification skipped", zap.String("student_id", studentID), zap.Error(err))
	}
	return submission, nil
}

// Grade records the internal and external marks on a submission, computes the
// final mark, resolves the letter grade (teacher-supplied, or the standard
// scale), and notifies the student. Only the owning teacher may grade.
func (s *AssignmentService) Grade(ctx context.Context, submissionID, teacherID string, req GradeRequest) (*models.Submission, error) {
	if !rules.ValidMark(req.Internal) || !rules.ValidMark(req.External) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "marks must be between 0 and 100")
	}

	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.loadAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.loadCourse(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is owned by another teacher")
	}

	grade := models.Grade{
		Internal: req.Internal,
		External: req.External,
		Final:    rules.FinalGrade(req.Internal, req.External),
	}
	letter := strings.TrimSpace(req.LetterGrade)
	if letter == "" {
		letter = rules.LetterGrade(grade.Final)
	}
	if err := s.submissions.SetGrade(ctx, submissionID, grade, letter, req.Review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}

	submission.Grade = &grade
	submission.LetterGrade = letter
	submission.Review = req.Review

	s.notifier.SubmissionGraded(ctx, *submission, *assignment)
	return submission, nil
}

// SubmissionsByAssignment returns the submissions for an assignment with
// student names attached. Only the owning teacher may list them.
func (s *AssignmentService) SubmissionsByAssignment(ctx context.Context, assignmentID, teacherID string) ([]models.Submission, error) {
	assignment, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.loadCourse(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is owned by another teacher")
	}

	submissions, err := s.submissions.FindByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	for i := range submissions {
		if student, err := s.users.FindByID(ctx, submissions[i].StudentID); err == nil {
			submissions[i].StudentName = student.Name
		}
	}
	return submissions, nil
}

// SubmissionsByStudent returns the student's own submissions.
func (s *AssignmentService) SubmissionsByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	submissions, err := s.submissions.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// EnrichedSubmissionsByStudent returns the student's submissions joined with
// assignment and course context, for the grades view.
func (s *AssignmentService) EnrichedSubmissionsByStudent(ctx context.Context, studentID string) ([]models.EnrichedSubmission, error) {
	submissions, err := s.SubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.EnrichedSubmission, 0, len(submissions))
	for _, sub := range submissions {
		e := models.EnrichedSubmission{Submission: sub}
		if assignment, err := s.assignments.FindByID(ctx, sub.AssignmentID); err == nil {
			e.AssignmentTitle = assignment.Title
			e.CourseID = assignment.CourseID
			if course, err := s.courses.FindByID(ctx, assignment.CourseID); err == nil {
				e.CourseTitle = course.Title
			}
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}

func (s *AssignmentService) loadAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

func (s *AssignmentService) loadSubmission(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

func (s *AssignmentService) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}
