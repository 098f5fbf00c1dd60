// Package notify translates domain events into Notification records. The
// fan-out is best effort: a failed write is logged and skipped, never rolled
// back, and the triggering mutation stays committed.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
)

type notificationWriter interface {
	Create(ctx context.Context, userID, message, link string) error
}

// Notifier fans domain events out to notification records.
type Notifier struct {
	writer notificationWriter
	logger *zap.Logger
}

// New constructs a Notifier.
func New(writer notificationWriter, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{writer: writer, logger: logger}
}

// EnrollmentRecorded notifies the course teacher about a new enrollment.
func (n *Notifier) EnrollmentRecorded(ctx context.Context, student models.User, course models.Course) {
	n.send(ctx, "enrollment", course.TeacherID,
		fmt.Sprintf("%s has enrolled in your course: %q.", student.Name, course.Title),
		fmt.Sprintf("/courses/%s/manage", course.ID))
}

// AssignmentCreated notifies every enrolled student about a new assignment.
func (n *Notifier) AssignmentCreated(ctx context.Context, course models.Course, assignment models.Assignment) {
	for _, studentID := range course.StudentsEnrolled {
		n.send(ctx, "assignment_created", studentID,
			fmt.Sprintf("A new assignment %q was added to %q.", assignment.Title, course.Title),
			fmt.Sprintf("/courses/%s", course.ID))
	}
}

// SubmissionReceived notifies the course teacher about a student submission.
func (n *Notifier) SubmissionReceived(ctx context.Context, student models.User, assignment models.Assignment, course models.Course) {
	n.send(ctx, "submission_received", course.TeacherID,
		fmt.Sprintf("%s submitted an assignment for %q.", student.Name, assignment.Title),
		fmt.Sprintf("/assignments/%s/submissions", assignment.ID))
}

// SubmissionGraded notifies the submitting student about the grade.
func (n *Notifier) SubmissionGraded(ctx context.Context, submission models.Submission, assignment models.Assignment) {
	n.send(ctx, "submission_graded", submission.StudentID,
		fmt.Sprintf("Your submission for %q has been graded.", assignment.Title),
		"/grades")
}

// AnnouncementPosted notifies every enrolled student.
func (n *Notifier) AnnouncementPosted(ctx context.Context, course models.Course, announcement models.Announcement) {
	for _, studentID := range course.StudentsEnrolled {
		n.send(ctx, "announcement_posted", studentID,
			fmt.Sprintf("New announcement in %q: %s", course.Title, announcement.Title),
			fmt.Sprintf("/courses/%s", course.ID))
	}
}

// ReviewPosted notifies the course teacher about a new review.
func (n *Notifier) ReviewPosted(ctx context.Context, student models.User, course models.Course, rating int) {
	n.send(ctx, "review_posted", course.TeacherID,
		fmt.Sprintf("%s left a %d-star review on your course: %q.", student.Name, rating, course.Title),
		fmt.Sprintf("/courses/%s", course.ID))
}

// ThreadStarted notifies the course teacher about a new discussion.
func (n *Notifier) ThreadStarted(ctx context.Context, author models.User, course models.Course, thread models.Thread) {
	n.send(ctx, "thread_started", course.TeacherID,
		fmt.Sprintf("%s started a new discussion in %q: %s", author.Name, course.Title, thread.Title),
		fmt.Sprintf("/threads/%s", thread.ID))
}

// ReplyPosted notifies the course teacher and the thread author, suppressing
// self-notifications: the teacher is skipped when they wrote the reply, and
// the thread author is skipped when replying to their own thread.
func (n *Notifier) ReplyPosted(ctx context.Context, author models.User, course models.Course, thread models.Thread) {
	if course.TeacherID != author.ID {
		n.send(ctx, "reply_posted", course.TeacherID,
			fmt.Sprintf("%s replied to a discussion in %q.", author.Name, course.Title),
			fmt.Sprintf("/threads/%s", thread.ID))
	}
	if thread.AuthorID != author.ID {
		n.send(ctx, "reply_posted", thread.AuthorID,
			fmt.Sprintf("%s replied to your discussion: %q.", author.Name, thread.Title),
			fmt.Sprintf("/threads/%s", thread.ID))
	}
}

func (n *Notifier) send(ctx context.Context, event, userID, message, link string) {
	if err := n.writer.Create(ctx, userID, message, link); err != nil {
		n.logger.Warn("notification write failed",
			zap.String("event", event),
			zap.String("recipient", userID),
			zap.Error(err))
	}
}
