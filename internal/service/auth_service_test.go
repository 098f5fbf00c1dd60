package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type mockAuthRepository struct {
	byEmail map[string]*models.User
	created []*models.User
}

func newMockAuthRepository(users ...*models.User) *mockAuthRepository {
	m := &mockAuthRepository{byEmail: make(map[string]*models.User)}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "minted-id"
	}
	m.byEmail[user.Email] = user
	m.created = append(m.created, user)
	return nil
}

func (m *mockAuthRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

type mockLoginRecorder struct {
	recorded []string
	result   *models.User
	err      error
}

func (m *mockLoginRecorder) RecordLogin(ctx context.Context, userID string) (*models.User, error) {
	m.recorded = append(m.recorded, userID)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "nexel-test"}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newMockAuthRepository()
	svc := NewAuthService(repo, &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "ada",
		Email:    "ada@nexel.test",
		Password: "correct-horse",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada", result.User.Name)
	assert.Empty(t, result.User.PasswordHash)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse")))
}

func TestAuthServiceRegisterEmailInUse(t *testing.T) {
	repo := newMockAuthRepository(&models.User{ID: "u1", Email: "ada@nexel.test"})
	svc := NewAuthService(repo, &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "ada",
		Email:    "ada@nexel.test",
		Password: "correct-horse",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmailInUse.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newMockAuthRepository(), &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "ada",
		Email:    "ada@nexel.test",
		Password: "short",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin(t *testing.T) {
	user := &models.User{
		ID:           "u1",
		Name:         "ada",
		Email:        "ada@nexel.test",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         models.RoleStudent,
	}
	streaked := *user
	streaked.LoginStreak = 3
	recorder := &mockLoginRecorder{result: &streaked}
	svc := NewAuthService(newMockAuthRepository(user), recorder, nil, zap.NewNop(), testAuthConfig())

	result, err := svc.Login(context.Background(), LoginRequest{Email: "ada@nexel.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 3, result.User.LoginStreak)
	assert.Equal(t, []string{"u1"}, recorder.recorded)
}

func TestAuthServiceLoginTeacherSkipsStreak(t *testing.T) {
	user := &models.User{
		ID:           "t1",
		Email:        "prof@nexel.test",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         models.RoleTeacher,
	}
	recorder := &mockLoginRecorder{}
	svc := NewAuthService(newMockAuthRepository(user), recorder, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "prof@nexel.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Empty(t, recorder.recorded)
}

func TestAuthServiceLoginStreakFailureStillLogsIn(t *testing.T) {
	user := &models.User{
		ID:           "u1",
		Email:        "ada@nexel.test",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         models.RoleStudent,
	}
	recorder := &mockLoginRecorder{err: store.ErrNotFound}
	svc := NewAuthService(newMockAuthRepository(user), recorder, nil, zap.NewNop(), testAuthConfig())

	result, err := svc.Login(context.Background(), LoginRequest{Email: "ada@nexel.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	user := &models.User{
		ID:           "u1",
		Email:        "ada@nexel.test",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         models.RoleStudent,
	}
	svc := NewAuthService(newMockAuthRepository(user), &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@nexel.test", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@nexel.test", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	user := &models.User{ID: "u1", Email: "ada@nexel.test", Role: models.RoleStudent}
	svc := NewAuthService(newMockAuthRepository(), &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())

	token, err := svc.issueToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@nexel.test", claims.Email)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newMockAuthRepository(), &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	issuer := NewAuthService(newMockAuthRepository(), &mockLoginRecorder{}, nil, zap.NewNop(), testAuthConfig())
	verifier := NewAuthService(newMockAuthRepository(), &mockLoginRecorder{}, nil, zap.NewNop(), AuthConfig{
		Secret:     "other-secret",
		Expiration: time.Hour,
		Issuer:     "nexel-test",
	})

	token, err := issuer.issueToken(&models.User{ID: "u1", Email: "ada@nexel.test", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
