// Package rules holds the pure domain computations: enrollment progress,
// prerequisite gating, rating and grade aggregation, and the login-streak
// state machine. Nothing here performs I/O.
package rules

import (
	"math"

	"github.com/yugash007/nexel-api/internal/models"
)

// Progress returns the student's completion percentage for a course given the
// course's assignments and the student's submissions. A course with zero
// assignments is trivially complete and reports 100. The ratio counts
// distinct submitted assignment ids and rounds half up.
func Progress(assignments []models.Assignment, submissions []models.Submission) int {
	if len(assignments) == 0 {
		return 100
	}

	assignmentIDs := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		assignmentIDs[a.ID] = struct{}{}
	}

	submitted := make(map[string]struct{})
	for _, s := range submissions {
		if _, ok := assignmentIDs[s.AssignmentID]; ok {
			submitted[s.AssignmentID] = struct{}{}
		}
	}

	return int(math.Round(100 * float64(len(submitted)) / float64(len(assignments))))
}

// AverageRating returns the mean review rating rounded to one decimal place,
// or nil when no reviews exist. Callers must treat nil as "no data", not zero.
func AverageRating(reviews []models.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := math.Round(10*float64(sum)/float64(len(reviews))) / 10
	return &avg
}

// MissingPrerequisites returns the prerequisite course ids the student has not
// completed, preserving the declared order. completed maps course id to
// whether the student's progress there is 100.
func MissingPrerequisites(prerequisites []string, completed map[string]bool) []string {
	var missing []string
	for _, id := range prerequisites {
		if !completed[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// FinalGrade combines internal and external marks, rounding half up. Inputs
// are validated to [0,100] by the caller.
func FinalGrade(internal, external int) int {
	return int(math.Round(float64(internal+external) / 2))
}

// LetterGrade maps a final mark onto the letter scale.
func LetterGrade(final int) string {
	switch {
	case final >= 90:
		return "A"
	case final >= 80:
		return "B"
	case final >= 70:
		return "C"
	case final >= 60:
		return "D"
	default:
		return "F"
	}
}

// ValidMark reports whether a mark is within the closed range [0,100].
func ValidMark(mark int) bool {
	return mark >= 0 && mark <= 100
}
