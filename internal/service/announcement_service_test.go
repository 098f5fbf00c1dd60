package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugash007/nexel-api/internal/models"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

func TestAnnouncementServiceCreateNotifiesStudents(t *testing.T) {
	env := newTestEnv()
	svc := env.announcementService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	alice := env.seedUser(t, "alice", models.RoleStudent)
	bob := env.seedUser(t, "bob", models.RoleStudent)
	course := env.seedCourse(t, teacher.ID, "Go Basics")
	env.enroll(t, course.ID, alice.ID)
	env.enroll(t, course.ID, bob.ID)

	announcement, err := svc.Create(context.Background(), course.ID, teacher.ID, CreateAnnouncementRequest{
		Title:   "Midterm",
		Content: "Next Friday.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, announcement.ID)
	assert.Equal(t, []string{
		"announcement_posted->" + alice.ID,
		"announcement_posted->" + bob.ID,
	}, env.notifier.events)
}

func TestAnnouncementServiceCreateWrongTeacher(t *testing.T) {
	env := newTestEnv()
	svc := env.announcementService()
	owner := env.seedUser(t, "prof", models.RoleTeacher)
	other := env.seedUser(t, "rival", models.RoleTeacher)
	course := env.seedCourse(t, owner.ID, "Go Basics")

	_, err := svc.Create(context.Background(), course.ID, other.ID, CreateAnnouncementRequest{
		Title:   "Midterm",
		Content: "Next Friday.",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAnnouncementServiceFeed(t *testing.T) {
	env := newTestEnv()
	svc := env.announcementService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	student := env.seedUser(t, "ada", models.RoleStudent)
	basics := env.seedCourse(t, teacher.ID, "Go Basics")
	advanced := env.seedCourse(t, teacher.ID, "Advanced Go")
	other := env.seedCourse(t, teacher.ID, "Rust Basics")
	env.enroll(t, basics.ID, student.ID)
	env.enroll(t, advanced.ID, student.ID)

	require.NoError(t, env.announcements.Create(context.Background(), &models.Announcement{
		CourseID: basics.ID, Title: "Welcome", Content: "Hi", CreatedAt: day(1),
	}))
	require.NoError(t, env.announcements.Create(context.Background(), &models.Announcement{
		CourseID: advanced.ID, Title: "Midterm", Content: "Soon", CreatedAt: day(2),
	}))
	require.NoError(t, env.announcements.Create(context.Background(), &models.Announcement{
		CourseID: other.ID, Title: "Not enrolled", Content: "Hidden", CreatedAt: day(3),
	}))

	feed, err := svc.ListForStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "Midterm", feed[0].Title)
	assert.Equal(t, "Advanced Go", feed[0].CourseTitle)
	assert.Equal(t, "Welcome", feed[1].Title)
	assert.Equal(t, "Go Basics", feed[1].CourseTitle)
}

func TestAnnouncementServiceListByCourseNewestFirst(t *testing.T) {
	env := newTestEnv()
	svc := env.announcementService()
	teacher := env.seedUser(t, "prof", models.RoleTeacher)
	course := env.seedCourse(t, teacher.ID, "Go Basics")

	require.NoError(t, env.announcements.Create(context.Background(), &models.Announcement{
		CourseID: course.ID, Title: "Old", Content: "a", CreatedAt: day(1),
	}))
	require.NoError(t, env.announcements.Create(context.Background(), &models.Announcement{
		CourseID: course.ID, Title: "New", Content: "b", CreatedAt: day(2),
	}))

	announcements, err := svc.ListByCourse(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, announcements, 2)
	assert.Equal(t, "New", announcements[0].Title)
	assert.Equal(t, "Old", announcements[1].Title)
}
