// Package auth выдаёт и проверяет JWT токены для правок мира через API.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "blockverse"

var (
	ErrInvalidToken = errors.New("недействительный токен")
	ErrWeakSecret   = errors.New("секрет должен быть не короче 32 байт")
)

// Claims represents JWT claims
type Claims struct {
	Editor  string `json:"editor"`
	CanEdit bool   `json:"can_edit"`
	jwt.RegisteredClaims
}

// Issuer подписывает и проверяет токены одним HMAC секретом
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer создаёт Issuer из секрета в base64. Пустой секрет заменяется
// случайным: токены тогда действуют только до перезапуска.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	if secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("генерация секрета: %w", err)
		}
		return &Issuer{secret: key, ttl: ttl}, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("секрет не в base64: %w", err)
	}
	if len(decoded) < 32 {
		return nil, ErrWeakSecret
	}
	return &Issuer{secret: decoded, ttl: ttl}, nil
}

// Issue создаёт токен редактора
func (i *Issuer) Issue(editor string, canEdit bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		Editor:  editor,
		CanEdit: canEdit,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   editor,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Validate проверяет подпись, срок и издателя токена
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// GenerateSecureSecret generates a new secure secret key
func GenerateSecureSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
