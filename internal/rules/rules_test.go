package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugash007/nexel-api/internal/models"
)

func assignments(ids ...string) []models.Assignment {
	out := make([]models.Assignment, len(ids))
	for i, id := range ids {
		out[i] = models.Assignment{ID: id}
	}
	return out
}

func submissions(assignmentIDs ...string) []models.Submission {
	out := make([]models.Submission, len(assignmentIDs))
	for i, id := range assignmentIDs {
		out[i] = models.Submission{ID: "sub-" + id, AssignmentID: id}
	}
	return out
}

func TestProgressZeroAssignments(t *testing.T) {
	assert.Equal(t, 100, Progress(nil, nil))
	assert.Equal(t, 100, Progress(nil, submissions("a1")))
}

func TestProgressPartial(t *testing.T) {
	as := assignments("a1", "a2", "a3")

	assert.Equal(t, 0, Progress(as, nil))
	assert.Equal(t, 33, Progress(as, submissions("a1")))
	assert.Equal(t, 67, Progress(as, submissions("a1", "a2")))
	assert.Equal(t, 100, Progress(as, submissions("a1", "a2", "a3")))
}

func TestProgressIgnoresForeignSubmissions(t *testing.T) {
	as := assignments("a1", "a2")
	subs := submissions("a1", "other-course-assignment")

	assert.Equal(t, 50, Progress(as, subs))
}

func TestProgressCountsDistinctAssignments(t *testing.T) {
	as := assignments("a1", "a2")
	subs := submissions("a1", "a1", "a1")

	assert.Equal(t, 50, Progress(as, subs))
}

func TestAverageRatingEmpty(t *testing.T) {
	assert.Nil(t, AverageRating(nil))
	assert.Nil(t, AverageRating([]models.Review{}))
}

func TestAverageRatingOneDecimal(t *testing.T) {
	reviews := []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}

	avg := AverageRating(reviews)
	require.NotNil(t, avg)
	assert.Equal(t, 4.3, *avg)
}

func TestAverageRatingSingle(t *testing.T) {
	avg := AverageRating([]models.Review{{Rating: 3}})
	require.NotNil(t, avg)
	assert.Equal(t, 3.0, *avg)
}

func TestMissingPrerequisitesOrder(t *testing.T) {
	prereqs := []string{"c1", "c2", "c3"}
	completed := map[string]bool{"c2": true}

	assert.Equal(t, []string{"c1", "c3"}, MissingPrerequisites(prereqs, completed))
}

func TestMissingPrerequisitesAllComplete(t *testing.T) {
	prereqs := []string{"c1", "c2"}
	completed := map[string]bool{"c1": true, "c2": true}

	assert.Empty(t, MissingPrerequisites(prereqs, completed))
}

func TestFinalGradeRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 85, FinalGrade(80, 90))
	assert.Equal(t, 86, FinalGrade(85, 86))
	assert.Equal(t, 0, FinalGrade(0, 0))
	assert.Equal(t, 100, FinalGrade(100, 100))
	assert.Equal(t, 50, FinalGrade(99, 0))
}

func TestLetterGrade(t *testing.T) {
	assert.Equal(t, "A", LetterGrade(95))
	assert.Equal(t, "A", LetterGrade(90))
	assert.Equal(t, "B", LetterGrade(85))
	assert.Equal(t, "C", LetterGrade(72))
	assert.Equal(t, "D", LetterGrade(60))
	assert.Equal(t, "F", LetterGrade(59))
}

func TestValidMark(t *testing.T) {
	assert.True(t, ValidMark(0))
	assert.True(t, ValidMark(100))
	assert.False(t, ValidMark(-1))
	assert.False(t, ValidMark(101))
}
