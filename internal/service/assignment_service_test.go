package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugash007/nexel-api/internal/models"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

func TestAssignmentServiceCreateNotifiesEnrolledStudents(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	alice := env.seedUser(t, "alice", models.RoleStudent)
	bob := env.seedUser(t, "bob", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, alice.ID)
	env.enroll(t, course.ID, bob.ID)

	assignment, err := svc.Create(context.Background(), course.ID, teacher.ID, CreateAssignmentRequest{
		Title:       "Interfaces",
		Description: "Implement io.Reader",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, []string{
		"assignment_created->" + alice.ID,
		"assignment_created->" + bob.ID,
	}, env.notifier.events)
}

func TestAssignmentServiceCreateWrongTeacher(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	owner := env.seedUser(t, "prof", models.RoleTeacher)
	other := env.seedUser(t, "rival", models.RoleTeacher)
	course := env.seedCourse(t, owner.ID, "Go Basics")

	_, err := svc.Create(context.Background(), course.ID, other.ID, CreateAssignmentRequest{
		Title:       "Interfaces",
		Description: "Implement io.Reader",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSubmit(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")

	submission, err := svc.Submit(context.Background(), assignment.ID, student.ID, SubmitRequest{Content: "my answer"})
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.False(t, submission.SubmittedAt.IsZero())
	assert.Contains(t, env.notifier.events, "submission_received->"+teacher.ID)
}

func TestAssignmentServiceSubmitRequiresContentOrFile(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()

	_, err := svc.Submit(context.Background(), "a1", "s1", SubmitRequest{Content: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSubmitFileOnly(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")

	submission, err := svc.Submit(context.Background(), assignment.ID, student.ID, SubmitRequest{
		FileURL:  "https://files.nexel.test/answer.pdf",
		FileName: "answer.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "answer.pdf", submission.FileName)
}

func TestAssignmentServiceSubmitNotEnrolled(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	assignment := env.seedAssignment(t, course.ID, "Interfaces")

	_, err := svc.Submit(context.Background(), assignment.ID, student.ID, SubmitRequest{Content: "answer"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSubmitDuplicate(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")

	_, err := svc.Submit(context.Background(), assignment.ID, student.ID, SubmitRequest{Content: "first"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), assignment.ID, student.ID, SubmitRequest{Content: "second"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSubmission.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceGrade(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")
	submission := env.seedSubmission(t, assignment.ID, student.ID)

	graded, err := svc.Grade(context.Background(), submission.ID, teacher.ID, GradeRequest{
		Internal: 85,
		External: 86,
		Review:   "well done",
	})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 86, graded.Grade.Final)
	assert.Equal(t, "B", graded.LetterGrade)
	assert.Equal(t, "well done", graded.Review)
	assert.Contains(t, env.notifier.events, "submission_graded->"+student.ID)

	stored, err := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Grade)
	assert.Equal(t, 86, stored.Grade.Final)
	assert.Equal(t, models.StatusGraded, stored.Status())
}

func TestAssignmentServiceGradeKeepsSuppliedLetter(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")
	submission := env.seedSubmission(t, assignment.ID, student.ID)

	graded, err := svc.Grade(context.Background(), submission.ID, teacher.ID, GradeRequest{
		Internal:    86,
		External:    90,
		LetterGrade: "B+",
	})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 88, graded.Grade.Final)
	assert.Equal(t, "B+", graded.LetterGrade)

	stored, err := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, err)
	assert.Equal(t, "B+", stored.LetterGrade)
}

func TestAssignmentServiceGradeRejectsInvalidMarks(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()

	_, err := svc.Grade(context.Background(), "sub-1", "tch-1", GradeRequest{Internal: 101, External: 50})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Grade(context.Background(), "sub-1", "tch-1", GradeRequest{Internal: 50, External: -1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceGradeWrongTeacher(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	owner := env.seedUser(t, "prof", models.RoleTeacher)
	other := env.seedUser(t, "rival", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, owner.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")
	submission := env.seedSubmission(t, assignment.ID, student.ID)

	_, err := svc.Grade(context.Background(), submission.ID, other.ID, GradeRequest{Internal: 80, External: 80})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceListEnriched(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	submitted := env.seedAssignment(t, course.ID, "Interfaces")
	graded := env.seedAssignment(t, course.ID, "Channels")
	env.seedAssignment(t, course.ID, "Generics")
	env.seedSubmission(t, submitted.ID, student.ID)
	gradedSub := env.seedSubmission(t, graded.ID, student.ID)
	require.NoError(t, env.submissions.SetGrade(context.Background(), gradedSub.ID, models.Grade{Internal: 90, External: 90, Final: 90}, "A", ""))

	enriched, err := svc.ListEnriched(context.Background(), course.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, enriched, 3)

	byTitle := make(map[string]models.EnrichedAssignment, len(enriched))
	for _, e := range enriched {
		byTitle[e.Title] = e
	}
	assert.Equal(t, models.StatusSubmitted, byTitle["Interfaces"].SubmissionStatus)
	assert.Equal(t, models.StatusGraded, byTitle["Channels"].SubmissionStatus)
	require.NotNil(t, byTitle["Channels"].Grade)
	assert.Equal(t, 90, byTitle["Channels"].Grade.Final)
	assert.Equal(t, models.StatusNotSubmitted, byTitle["Generics"].SubmissionStatus)
}

func TestAssignmentServiceSubmissionsByAssignmentAttachesNames(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")
	env.seedSubmission(t, assignment.ID, student.ID)

	submissions, err := svc.SubmissionsByAssignment(context.Background(), assignment.ID, teacher.ID)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "ada", submissions[0].StudentName)
}

func TestAssignmentServiceEnrichedSubmissionsByStudent(t *testing.T) {
	env := newTestEnv()
	svc := env.assignmentService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, student.ID)
	assignment := env.seedAssignment(t, course.ID, "Interfaces")
	env.seedSubmission(t, assignment.ID, student.ID)

	enriched, err := svc.EnrichedSubmissionsByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Interfaces", enriched[0].AssignmentTitle)
	assert.Equal(t, course.ID, enriched[0].CourseID)
	assert.Equal(t, "Go Basics", enriched[0].CourseTitle)
}
