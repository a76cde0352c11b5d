// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей сервиса.
const (
	RoleUser  = "user"  // Обычный пользователь: резервации, абонементы, стоянки
	RoleOwner = "owner" // Владелец парковок: управление парковками и отчеты
	RoleAdmin = "admin" // Администратор: полный доступ
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль: user, owner или admin
	CreatedAt    time.Time // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`                      // Электронная почта
	Username string `json:"username" validate:"required,alphanum"`                // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`                   // Пароль
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user owner"` // Роль, по умолчанию user
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}
