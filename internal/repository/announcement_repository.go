package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// AnnouncementRepository handles persistence of announcements.
type AnnouncementRepository struct {
	store store.Store
}

// NewAnnouncementRepository constructs the repository.
func NewAnnouncementRepository(s store.Store) *AnnouncementRepository {
	return &AnnouncementRepository{store: s}
}

// Create persists a new announcement, minting its id.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if err := r.store.Insert(ctx, store.Announcements, announcement.ID, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// FindByCourse returns the announcements posted to a course.
func (r *AnnouncementRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Announcement, error) {
	var announcements []models.Announcement
	if err := r.store.Find(ctx, store.Announcements, store.Filter{"course_id": courseID}, &announcements); err != nil {
		return nil, fmt.Errorf("list announcements by course: %w", err)
	}
	return announcements, nil
}
