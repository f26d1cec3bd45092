package services_test

import (
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"moodiary/internal/apperrors"
	"moodiary/internal/models"
	"moodiary/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(id string, when time.Time) error {
	args := m.Called(id, when)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// Successful registration
	mockRepo.On("GetByUsername", "testuser").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser("testuser", "test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.Nil(t, user.LastLogin)
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser("testuser", "other@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
	mockRepo.AssertExpectations(t)

	// Email already registered; username is checked first, so both lookups run
	mockRepo.On("GetByUsername", "otheruser").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser("otheruser", "test@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)

	// Constraint race: lookups see nothing but the insert hits the unique index
	mockRepo.On("GetByUsername", "racer").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "racer@example.com").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(apperrors.ErrDuplicate).Once()
	_, err = authService.RegisterUser("racer", "racer@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           "user-123",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	}

	// Successful authentication
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	got, err := authService.Authenticate("testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown user must be indistinguishable
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	_, wrongPassErr := authService.Authenticate("testuser", "wrongpassword")
	assert.ErrorIs(t, wrongPassErr, apperrors.ErrInvalidCredentials)

	mockRepo.On("GetByUsername", "nosuchuser").Return(nil, fmt.Errorf("user nosuchuser: %w", apperrors.ErrNotFound)).Once()
	_, unknownUserErr := authService.Authenticate("nosuchuser", "password123")
	assert.ErrorIs(t, unknownUserErr, apperrors.ErrInvalidCredentials)

	assert.Equal(t, wrongPassErr.Error(), unknownUserErr.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RecordLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-123", Username: "testuser"}
	mockRepo.On("UpdateLastLogin", "user-123", mock.AnythingOfType("time.Time")).Return(nil).Once()

	before := time.Now()
	err := authService.RecordLogin(user)
	assert.NoError(t, err)
	assert.NotNil(t, user.LastLogin)
	assert.False(t, user.LastLogin.Before(before))
	mockRepo.AssertExpectations(t)

	mockRepo.On("UpdateLastLogin", "user-123", mock.AnythingOfType("time.Time")).
		Return(errors.New("db gone")).Once()
	assert.Error(t, authService.RecordLogin(user))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Tokens(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	user := &models.User{ID: "user-123", Username: "testuser"}
	token, err := authService.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredString)
	assert.Error(t, err)
}
