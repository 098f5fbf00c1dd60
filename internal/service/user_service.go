package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/rules"
	"github.com/yugash007/nexel-api/internal/store"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// UpdateProfileRequest describes a profile edit payload.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UserService provides profile reads/edits and the login-streak transition.
type UserService struct {
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(users userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, validator: validate, logger: logger, now: time.Now}
}

// Get returns the user with password material stripped.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	public := user.Public()
	return &public, nil
}

// UpdateProfile edits name and email. An email bound to a different account
// is rejected.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		if existing.ID != id {
			return nil, appErrors.ErrEmailInUse
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	fields := map[string]interface{}{
		"name":       req.Name,
		"email":      req.Email,
		"updated_at": s.now().UTC(),
	}
	if err := s.users.Update(ctx, id, fields); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	user.Name = req.Name
	user.Email = req.Email
	public := user.Public()
	return &public, nil
}

// RecordLogin runs the login-streak state machine for students and persists
// the transition. Teachers pass through unchanged.
func (s *UserService) RecordLogin(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if user.Role != models.RoleStudent {
		return user, nil
	}

	now := s.now().UTC()
	result := rules.AdvanceStreak(user.LastLogin, user.LoginStreak, user.Badges, now)

	user.LoginStreak = result.Streak
	user.LastLogin = &now
	if len(result.Earned) > 0 {
		user.Badges = append(user.Badges, result.Earned...)
		for _, badge := range result.Earned {
			s.logger.Info("badge earned",
				zap.String("user_id", user.ID),
				zap.String("badge", badge.Name),
				zap.Int("streak", result.Streak))
		}
	}
	if user.Badges == nil {
		user.Badges = []models.Badge{}
	}

	fields := map[string]interface{}{
		"last_login":   now,
		"login_streak": user.LoginStreak,
		"badges":       user.Badges,
		"updated_at":   now,
	}
	if err := s.users.Update(ctx, userID, fields); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist login streak")
	}
	return user, nil
}
