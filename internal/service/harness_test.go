package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/repository"
	"github.com/yugash007/nexel-api/internal/store/memory"
)

// captureNotifier records fan-out events instead of writing notifications.
type captureNotifier struct {
	events []string
}

func (n *captureNotifier) record(event, recipient string) {
	n.events = append(n.events, event+"->"+recipient)
}

func (n *captureNotifier) EnrollmentRecorded(ctx context.Context, student models.User, course models.Course) {
	n.record("enrollment", course.TeacherID)
}

func (n *captureNotifier) AssignmentCreated(ctx context.Context, course models.Course, assignment models.Assignment) {
	for _, studentID := range course.StudentsEnrolled {
		n.record("assignment_created", studentID)
	}
}

func (n *captureNotifier) SubmissionReceived(ctx context.Context, student models.User, assignment models.Assignment, course models.Course) {
	n.record("submission_received", course.TeacherID)
}

func (n *captureNotifier) SubmissionGraded(ctx context.Context, submission models.Submission, assignment models.Assignment) {
	n.record("submission_graded", submission.StudentID)
}

func (n *captureNotifier) AnnouncementPosted(ctx context.Context, course models.Course, announcement models.Announcement) {
	for _, studentID := range course.StudentsEnrolled {
		n.record("announcement_posted", studentID)
	}
}

func (n *captureNotifier) ReviewPosted(ctx context.Context, student models.User, course models.Course, rating int) {
	n.record("review_posted", course.TeacherID)
}

func (n *captureNotifier) ThreadStarted(ctx context.Context, author models.User, course models.Course, thread models.Thread) {
	n.record("thread_started", course.TeacherID)
}

func (n *captureNotifier) ReplyPosted(ctx context.Context, author models.User, course models.Course, thread models.Thread) {
	if course.TeacherID != author.ID {
		n.record("reply_posted", course.TeacherID)
	}
	if thread.AuthorID != author.ID {
		n.record("reply_posted", thread.AuthorID)
	}
}

// testEnv wires real repositories over the in-memory store.
type testEnv struct {
	users         *repository.UserRepository
	courses       *repository.CourseRepository
	assignments   *repository.AssignmentRepository
	submissions   *repository.SubmissionRepository
	announcements *repository.AnnouncementRepository
	reviews       *repository.ReviewRepository
	threads       *repository.ThreadRepository
	replies       *repository.ReplyRepository
	notifications *repository.NotificationRepository
	notifier      *captureNotifier
}

func newTestEnv() *testEnv {
	s := memory.New()
	return &testEnv{
		users:         repository.NewUserRepository(s),
		courses:       repository.NewCourseRepository(s),
		assignments:   repository.NewAssignmentRepository(s),
		submissions:   repository.NewSubmissionRepository(s),
		announcements: repository.NewAnnouncementRepository(s),
		reviews:       repository.NewReviewRepository(s),
		threads:       repository.NewThreadRepository(s),
		replies:       repository.NewReplyRepository(s),
		notifications: repository.NewNotificationRepository(s),
		notifier:      &captureNotifier{},
	}
}

func (e *testEnv) courseService() *CourseService {
	return NewCourseService(e.courses, e.users, e.assignments, e.submissions, e.reviews, e.notifier, nil, zap.NewNop())
}

func (e *testEnv) assignmentService() *AssignmentService {
	return NewAssignmentService(e.assignments, e.submissions, e.courses, e.users, e.notifier, nil, zap.NewNop())
}

func (e *testEnv) announcementService() *AnnouncementService {
	return NewAnnouncementService(e.announcements, e.courses, e.courses, e.notifier, nil, zap.NewNop())
}

func (e *testEnv) reviewService() *ReviewService {
	return NewReviewService(e.reviews, e.courses, e.users, e.assignments, e.submissions, e.notifier, nil, zap.NewNop())
}

func (e *testEnv) forumService() *ForumService {
	return NewForumService(e.threads, e.replies, e.courses, e.users, e.notifier, nil, zap.NewNop())
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

func (e *testEnv) seedUser(t *testing.T, name string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@nexel.test", Role: role}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedCourse(t *testing.T, teacherID, title string, prereqs ...string) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:         title,
		Description:   "desc",
		Duration:      "4 weeks",
		TeacherID:     teacherID,
		Prerequisites: prereqs,
	}
	require.NoError(t, e.courses.Create(context.Background(), course))
	return course
}

func (e *testEnv) enroll(t *testing.T, courseID, studentID string) {
	t.Helper()
	require.NoError(t, e.courses.AddStudent(context.Background(), courseID, studentID))
}

func (e *testEnv) seedAssignment(t *testing.T, courseID, title string) *models.Assignment {
	t.Helper()
	assignment := &models.Assignment{CourseID: courseID, Title: title, Description: "desc"}
	require.NoError(t, e.assignments.Create(context.Background(), assignment))
	return assignment
}

func (e *testEnv) seedSubmission(t *testing.T, assignmentID, studentID string) *models.Submission {
	t.Helper()
	submission := &models.Submission{AssignmentID: assignmentID, StudentID: studentID, Content: "answer"}
	require.NoError(t, e.submissions.Create(context.Background(), submission))
	return submission
}
