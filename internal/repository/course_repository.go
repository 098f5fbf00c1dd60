package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// CourseRepository handles persistence of courses and their embedded modules.
type CourseRepository struct {
	store store.Store
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(s store.Store) *CourseRepository {
	return &CourseRepository{store: s}
}

// Create persists a new course, minting its id.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.StudentsEnrolled == nil {
		course.StudentsEnrolled = []string{}
	}
	if course.Modules == nil {
		course.Modules = []models.Module{}
	}
	if err := r.store.Insert(ctx, store.Courses, course.ID, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns the course with the given id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.store.Get(ctx, store.Courses, id, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindAll returns the whole catalog.
func (r *CourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.store.Find(ctx, store.Courses, store.Filter{}, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByTeacher returns the courses owned by the given teacher.
func (r *CourseRepository) FindByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.store.Find(ctx, store.Courses, store.Filter{"teacher_id": teacherID}, &courses); err != nil {
		return nil, fmt.Errorf("list courses by teacher: %w", err)
	}
	return courses, nil
}

// FindByStudent returns the courses the student is enrolled in. Enrollment
// membership is filtered here rather than in the store so every backend shares
// one semantics for array fields.
func (r *CourseRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var enrolled []models.Course
	for _, c := range all {
		if c.IsEnrolled(studentID) {
			enrolled = append(enrolled, c)
		}
	}
	return enrolled, nil
}

// AddStudent appends the student id to the course's enrolled set.
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, studentID string) error {
	if err := r.store.Append(ctx, store.Courses, courseID, "students_enrolled", studentID); err != nil {
		return fmt.Errorf("add student to course: %w", err)
	}
	return nil
}

// AddModule appends a new module to the course, minting the module id.
func (r *CourseRepository) AddModule(ctx context.Context, courseID string, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	if module.Videos == nil {
		module.Videos = []models.Video{}
	}
	if module.StudyMaterials == nil {
		module.StudyMaterials = []models.StudyMaterial{}
	}
	if err := r.store.Append(ctx, store.Courses, courseID, "modules", module); err != nil {
		return fmt.Errorf("add module to course: %w", err)
	}
	return nil
}

// ReplaceModules rewrites the course's module list. Used for appends nested
// inside a module (videos, study materials).
func (r *CourseRepository) ReplaceModules(ctx context.Context, courseID string, modules []models.Module) error {
	if err := r.store.Update(ctx, store.Courses, courseID, map[string]interface{}{"modules": modules}); err != nil {
		return fmt.Errorf("replace course modules: %w", err)
	}
	return nil
}
