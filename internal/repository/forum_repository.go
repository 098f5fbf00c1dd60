package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// ThreadRepository handles persistence of discussion threads.
type ThreadRepository struct {
	store store.Store
}

// NewThreadRepository constructs the repository.
func NewThreadRepository(s store.Store) *ThreadRepository {
	return &ThreadRepository{store: s}
}

// Create persists a new thread, minting its id.
func (r *ThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	if thread.ID == "" {
		thread.ID = uuid.NewString()
	}
	if err := r.store.Insert(ctx, store.Threads, thread.ID, thread); err != nil {
		return fmt.Errorf("create thread: %w", err)
	}
	return nil
}

// FindByID returns the thread with the given id.
func (r *ThreadRepository) FindByID(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	if err := r.store.Get(ctx, store.Threads, id, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// FindByCourse returns the threads of a course forum.
func (r *ThreadRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Thread, error) {
	var threads []models.Thread
	if err := r.store.Find(ctx, store.Threads, store.Filter{"course_id": courseID}, &threads); err != nil {
		return nil, fmt.Errorf("list threads by course: %w", err)
	}
	return threads, nil
}

// ReplyRepository handles persistence of thread replies.
type ReplyRepository struct {
	store store.Store
}

// NewReplyRepository constructs the repository.
func NewReplyRepository(s store.Store) *ReplyRepository {
	return &ReplyRepository{store: s}
}

// Create persists a new reply, minting its id.
func (r *ReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	if err := r.store.Insert(ctx, store.Replies, reply.ID, reply); err != nil {
		return fmt.Errorf("create reply: %w", err)
	}
	return nil
}

// FindByThread returns the replies within a thread.
func (r *ReplyRepository) FindByThread(ctx context.Context, threadID string) ([]models.Reply, error) {
	var replies []models.Reply
	if err := r.store.Find(ctx, store.Replies, store.Filter{"thread_id": threadID}, &replies); err != nil {
		return nil, fmt.Errorf("list replies by thread: %w", err)
	}
	return replies, nil
}
