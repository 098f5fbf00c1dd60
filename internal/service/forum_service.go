package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type threadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	FindByID(ctx context.Context, id string) (*models.Thread, error)
	FindByCourse(ctx context.Context, courseID string) ([]models.Thread, error)
}

type replyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	FindByThread(ctx context.Context, threadID string) ([]models.Reply, error)
}

type forumNotifier interface {
	ThreadStarted(ctx context.Context, author models.User, course models.Course, thread models.Thread)
	ReplyPosted(ctx context.Context, author models.User, course models.Course, thread models.Thread)
}

// CreateThreadRequest describes starting a discussion.
type CreateThreadRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateReplyRequest describes replying to a thread.
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

// ForumService orchestrates per-course discussion threads and replies.
// Participation is limited to enrolled students and the course teacher.
type ForumService struct {
	threads   threadRepository
	replies   replyRepository
	courses   courseReader
	users     userReader
	notifier  forumNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewForumService constructs a ForumService.
func NewForumService(threads threadRepository, replies replyRepository, courses courseReader, users userReader, notifier forumNotifier, validate *validator.Validate, logger *zap.Logger) *ForumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForumService{
		threads:   threads,
		replies:   replies,
		courses:   courses,
		users:     users,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
	}
}

// CreateThread starts a discussion in a course the author participates in.
func (s *ForumService) CreateThread(ctx context.Context, courseID, authorID string, req CreateThreadRequest) (*models.Thread, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid thread payload")
	}

	course, author, err := s.participant(ctx, courseID, authorID)
	if err != nil {
		return nil, err
	}

	thread := &models.Thread{
		CourseID:   courseID,
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   authorID,
		AuthorName: author.Name,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create thread")
	}

	if course.TeacherID != authorID {
		s.notifier.ThreadStarted(ctx, *author, *course, *thread)
	}
	return thread, nil
}

// ListThreads returns a course's threads, newest first, with reply counts.
func (s *ForumService) ListThreads(ctx context.Context, courseID string) ([]models.Thread, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, mapReadError(err, "course not found", "failed to load course")
	}
	threads, err := s.threads.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list threads")
	}
	for i := range threads {
		replies, err := s.replies.FindByThread(ctx, threads[i].ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count replies")
		}
		threads[i].ReplyCount = len(replies)
	}
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].CreatedAt.After(threads[j].CreatedAt)
	})
	return threads, nil
}

// GetThread returns one thread with its reply count.
func (s *ForumService) GetThread(ctx context.Context, threadID string) (*models.Thread, error) {
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, mapReadError(err, "thread not found", "failed to load thread")
	}
	replies, err := s.replies.FindByThread(ctx, threadID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count replies")
	}
	thread.ReplyCount = len(replies)
	return thread, nil
}

// CreateReply posts a reply in a thread the author may participate in. The
// course teacher and the thread author are notified, each unless they wrote
// the reply themselves.
func (s *ForumService) CreateReply(ctx context.Context, threadID, authorID string, req CreateReplyRequest) (*models.Reply, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reply payload")
	}

	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, mapReadError(err, "thread not found", "failed to load thread")
	}
	course, author, err := s.participant(ctx, thread.CourseID, authorID)
	if err != nil {
		return nil, err
	}

	reply := &models.Reply{
		ThreadID:   threadID,
		Content:    req.Content,
		AuthorID:   authorID,
		AuthorName: author.Name,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reply")
	}

	s.notifier.ReplyPosted(ctx, *author, *course, *thread)
	return reply, nil
}

// ListReplies returns a thread's replies, oldest first.
func (s *ForumService) ListReplies(ctx context.Context, threadID string) ([]models.Reply, error) {
	if _, err := s.threads.FindByID(ctx, threadID); err != nil {
		return nil, mapReadError(err, "thread not found", "failed to load thread")
	}
	replies, err := s.replies.FindByThread(ctx, threadID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list replies")
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}

// participant loads the course and author, verifying the author is either the
// course teacher or an enrolled student.
func (s *ForumService) participant(ctx context.Context, courseID, authorID string) (*models.Course, *models.User, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, nil, mapReadError(err, "course not found", "failed to load course")
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, nil, mapReadError(err, "user not found", "failed to load user")
	}
	if course.TeacherID != authorID && !course.IsEnrolled(authorID) {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "forum is limited to course participants")
	}
	return course, author, nil
}
