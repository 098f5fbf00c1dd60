package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
)

type recordedNotification struct {
	UserID  string
	Message string
	Link    string
}

type mockWriter struct {
	created []recordedNotification
	fail    bool
}

func (m *mockWriter) Create(ctx context.Context, userID, message, link string) error {
	if m.fail {
		return errors.New("write failed")
	}
	m.created = append(m.created, recordedNotification{UserID: userID, Message: message, Link: link})
	return nil
}

func TestEnrollmentRecorded(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	student := models.User{ID: "stu-1", Name: "Ada"}
	course := models.Course{ID: "c1", Title: "Go Basics", TeacherID: "tch-1"}

	n.EnrollmentRecorded(context.Background(), student, course)

	require.Len(t, w.created, 1)
	assert.Equal(t, "tch-1", w.created[0].UserID)
	assert.Equal(t, `Ada has enrolled in your course: "Go Basics".`, w.created[0].Message)
	assert.Equal(t, "/courses/c1/manage", w.created[0].Link)
}

func TestAssignmentCreatedFansOutToEnrolled(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	course := models.Course{ID: "c1", Title: "Go Basics", StudentsEnrolled: []string{"s1", "s2"}}
	assignment := models.Assignment{ID: "a1", Title: "Interfaces"}

	n.AssignmentCreated(context.Background(), course, assignment)

	require.Len(t, w.created, 2)
	assert.Equal(t, "s1", w.created[0].UserID)
	assert.Equal(t, "s2", w.created[1].UserID)
	assert.Equal(t, `A new assignment "Interfaces" was added to "Go Basics".`, w.created[0].Message)
	assert.Equal(t, "/courses/c1", w.created[0].Link)
}

func TestSubmissionReceived(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	student := models.User{ID: "s1", Name: "Ada"}
	assignment := models.Assignment{ID: "a1", Title: "Interfaces"}
	course := models.Course{ID: "c1", TeacherID: "tch-1"}

	n.SubmissionReceived(context.Background(), student, assignment, course)

	require.Len(t, w.created, 1)
	assert.Equal(t, "tch-1", w.created[0].UserID)
	assert.Equal(t, `Ada submitted an assignment for "Interfaces".`, w.created[0].Message)
	assert.Equal(t, "/assignments/a1/submissions", w.created[0].Link)
}

func TestSubmissionGraded(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	submission := models.Submission{ID: "sub-1", StudentID: "s1"}
	assignment := models.Assignment{ID: "a1", Title: "Interfaces"}

	n.SubmissionGraded(context.Background(), submission, assignment)

	require.Len(t, w.created, 1)
	assert.Equal(t, "s1", w.created[0].UserID)
	assert.Equal(t, `Your submission for "Interfaces" has been graded.`, w.created[0].Message)
	assert.Equal(t, "/grades", w.created[0].Link)
}

func TestReviewPosted(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	student := models.User{ID: "s1", Name: "Ada"}
	course := models.Course{ID: "c1", Title: "Go Basics", TeacherID: "tch-1"}

	n.ReviewPosted(context.Background(), student, course, 4)

	require.Len(t, w.created, 1)
	assert.Equal(t, "tch-1", w.created[0].UserID)
	assert.Equal(t, `Ada left a 4-star review on your course: "Go Basics".`, w.created[0].Message)
}

func TestReplyPostedNotifiesTeacherAndAuthor(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	replier := models.User{ID: "s2", Name: "Grace"}
	course := models.Course{ID: "c1", Title: "Go Basics", TeacherID: "tch-1"}
	thread := models.Thread{ID: "th-1", Title: "Stuck on channels", AuthorID: "s1"}

	n.ReplyPosted(context.Background(), replier, course, thread)

	require.Len(t, w.created, 2)
	assert.Equal(t, "tch-1", w.created[0].UserID)
	assert.Equal(t, `Grace replied to a discussion in "Go Basics".`, w.created[0].Message)
	assert.Equal(t, "s1", w.created[1].UserID)
	assert.Equal(t, `Grace replied to your discussion: "Stuck on channels".`, w.created[1].Message)
	assert.Equal(t, "/threads/th-1", w.created[1].Link)
}

func TestReplyPostedSuppressesSelfNotification(t *testing.T) {
	w := &mockWriter{}
	n := New(w, zap.NewNop())

	course := models.Course{ID: "c1", Title: "Go Basics", TeacherID: "tch-1"}
	thread := models.Thread{ID: "th-1", Title: "Stuck on channels", AuthorID: "s1"}

	// Thread author replies to their own thread: only the teacher hears.
	author := models.User{ID: "s1", Name: "Ada"}
	n.ReplyPosted(context.Background(), author, course, thread)
	require.Len(t, w.created, 1)
	assert.Equal(t, "tch-1", w.created[0].UserID)

	// Teacher replies: only the thread author hears.
	w.created = nil
	teacher := models.User{ID: "tch-1", Name: "Prof"}
	n.ReplyPosted(context.Background(), teacher, course, thread)
	require.Len(t, w.created, 1)
	assert.Equal(t, "s1", w.created[0].UserID)
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	w := &mockWriter{fail: true}
	n := New(w, zap.NewNop())

	course := models.Course{ID: "c1", TeacherID: "tch-1"}
	n.EnrollmentRecorded(context.Background(), models.User{ID: "s1"}, course)

	assert.Empty(t, w.created)
}
