package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/christopherDEPASQUAL/parking-sub000/internal/lib/jwt"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/password"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
	services "github.com/christopherDEPASQUAL/parking-sub000/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, role, useruid string) (string, error) {
	args := m.Called(username, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		username    string
		password    string
		role        string
		setupMocks  func(r *UserRepoMock)
		wantUserUID string
		wantErr     bool
		errMsg      string
	}{
		{
			name:     "successful registration with default role",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			role:     "",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Username == "testuser" &&
						user.PasswordHash != "" &&
						user.Role == models.RoleUser
				})).Return("some-uuid-string", nil).Once()
			},
			wantUserUID: "some-uuid-string",
			wantErr:     false,
		},
		{
			name:     "successful registration as owner",
			email:    "owner@example.com",
			username: "owner",
			password: "password123",
			role:     models.RoleOwner,
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == models.RoleOwner
				})).Return("owner-uuid", nil).Once()
			},
			wantUserUID: "owner-uuid",
			wantErr:     false,
		},
		{
			name:        "admin role rejected",
			email:       "test@example.com",
			username:    "testuser",
			password:    "password123",
			role:        models.RoleAdmin,
			setupMocks:  func(_ *UserRepoMock) {},
			wantUserUID: "",
			wantErr:     true,
			errMsg:      "role must be user or owner",
		},
		{
			name:     "repository error",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			role:     "",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantUserUID: "",
			wantErr:     true,
			errMsg:      "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.email, tt.username, tt.password, tt.role)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	assert.NoError(t, err)

	user := &models.User{
		UUID:         "user-uuid",
		Username:     "testuser",
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantRole   string
		wantErr    bool
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(user, nil).Once()
				j.On("GenerateToken", "testuser", models.RoleUser).Return("jwt-token", nil).Once()
			},
			wantToken: "jwt-token",
			wantRole:  models.RoleUser,
			wantErr:   false,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("not found")).Once()
			},
			wantErr: true,
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(user, nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	claims := &customjwt.CustomClaims{
		Username: "testuser",
		Role:     models.RoleOwner,
		UserUID:  "user-uuid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name       string
		token      string
		setupMocks func(j *JwtMakerMock)
		wantValid  bool
		wantRole   string
		wantErr    bool
	}{
		{
			name:  "valid token",
			token: "good-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "good-token").Return(claims, nil).Once()
			},
			wantValid: true,
			wantRole:  models.RoleOwner,
			wantErr:   false,
		},
		{
			name:  "invalid token",
			token: "bad-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "bad-token").Return(nil, errors.New("token is invalid")).Once()
			},
			wantValid: false,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(jwtMock)

			user, role, valid, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, valid)
			} else {
				assert.NoError(t, err)
				assert.True(t, valid)
				assert.Equal(t, tt.wantRole, role)
				assert.Equal(t, "testuser", user.Username)
			}

			jwtMock.AssertExpectations(t)
		})
	}
}
