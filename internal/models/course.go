package models

import "time"

// Course represents a course owned by one teacher.
type Course struct {
	ID               string   `json:"id" bson:"_id"`
	Title            string   `json:"title" bson:"title"`
	Description      string   `json:"description" bson:"description"`
	Duration         string   `json:"duration" bson:"duration"`
	TeacherID        string   `json:"teacher_id" bson:"teacher_id"`
	StudentsEnrolled []string `json:"students_enrolled" bson:"students_enrolled"`
	Modules          []Module `json:"modules" bson:"modules"`
	Prerequisites    []string `json:"prerequisites,omitempty" bson:"prerequisites,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Derived fields, never persisted.
	TeacherName   string   `json:"teacher_name,omitempty" bson:"-"`
	AverageRating *float64 `json:"average_rating,omitempty" bson:"-"`
	Progress      *int     `json:"progress,omitempty" bson:"-"`
}

// IsEnrolled reports whether the student id is in the enrolled set.
func (c Course) IsEnrolled(studentID string) bool {
	for _, id := range c.StudentsEnrolled {
		if id == studentID {
			return true
		}
	}
	return false
}

// FindModule returns the module with the given id, or nil.
func (c *Course) FindModule(moduleID string) *Module {
	for i := range c.Modules {
		if c.Modules[i].ID == moduleID {
			return &c.Modules[i]
		}
	}
	return nil
}

// Module is an ordered content section owned exclusively by one course.
type Module struct {
	ID             string          `json:"id" bson:"id"`
	Title          string          `json:"title" bson:"title"`
	Videos         []Video         `json:"videos" bson:"videos"`
	StudyMaterials []StudyMaterial `json:"study_materials" bson:"study_materials"`
}

// Video is an embedded lecture reference.
type Video struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	URL   string `json:"url" bson:"url"`
}

// StudyMaterial is an embedded file reference; the file itself lives outside scope.
type StudyMaterial struct {
	ID       string `json:"id" bson:"id"`
	Title    string `json:"title" bson:"title"`
	FileURL  string `json:"file_url" bson:"file_url"`
	FileName string `json:"file_name" bson:"file_name"`
}
