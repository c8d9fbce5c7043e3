package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

var (
	// ErrInvalidToken токен не прошёл проверку подписи или срока
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrInvalidClaims в токене нет пользователя или роль неизвестна
	ErrInvalidClaims = errors.New("auth: invalid claims")
)

// Claims содержимое access-токена: sub = ID пользователя
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier проверяет HS256 токены, выпущенные сервисом аутентификации
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier создает проверку токенов
// Пустой issuer отключает проверку поля iss
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Parse проверяет токен и возвращает пользователя
func (v *Verifier) Parse(tokenStr string) (domain.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	identity, err := domain.NewIdentity(claims.Subject, domain.Role(claims.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}

	return identity, nil
}

// Sign выпускает токен для пользователя
// Используется в тестах и локальной отладке, в проде токены выпускает внешний сервис
func (v *Verifier) Sign(identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(identity.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// IdentityFromToken читает пользователя из токена без проверки подписи
// Для клиентов, которым секрет недоступен: сервер всё равно проверит токен сам
func IdentityFromToken(tokenStr string) (domain.Identity, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	identity, err := domain.NewIdentity(claims.Subject, domain.Role(claims.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	return identity, nil
}
