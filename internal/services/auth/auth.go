// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/jwt"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/password"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Пустая роль трактуется как "user"; роль admin при регистрации недоступна.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword, role string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleOwner {
		return "", errors.New("role must be user or owner")
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе, роль и признак валидности.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UUID:     claims.UserUID,
	}
	return user, claims.Role, true, nil
}
