// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки JWT токенов с username,
// ролью и UID пользователя. MakerImpl — конкретная реализация с использованием
// секретного ключа и срока жизни токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
//
// Методы позволяют создавать токен с указанием username, роли и UID,
// а также разбирать токен и извлекать из него кастомные данные.
type Maker interface {
	// GenerateToken создает токен с username, role и useruid
	GenerateToken(username, role, userUID string) (string, error)
	// ParseToken возвращает *CustomClaims с username, role и useruid
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
