package repository

import (
	"context"
	"fmt"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetEmailByUsername возвращает email пользователя по его username.
func (s *Storage) GetEmailByUsername(ctx context.Context, username string) (string, error) {
	const op = "storage.GetEmailByUsername"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var email string
	query := `SELECT email FROM users WHERE username = $1`
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&email); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return email, nil
}
