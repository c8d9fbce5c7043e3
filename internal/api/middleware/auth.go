package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

const msgUnauthorized = "требуется авторизация"

// AccessTokenQueryParam токен в query для websocket-клиентов, которые не умеют ставить заголовки
const AccessTokenQueryParam = "access_token"

// TokenVerifier проверка access-токена
type TokenVerifier interface {
	Parse(token string) (domain.Identity, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

type identityKey struct{}

// Auth проверяет Bearer токен и кладёт пользователя в контекст
func Auth(verifier TokenVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r, false)
			if token == "" {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			identity, err := verifier.Parse(token)
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// BearerToken токен из заголовка Authorization, при allowQuery также из access_token
func BearerToken(r *http.Request, allowQuery bool) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if allowQuery {
		return r.URL.Query().Get(AccessTokenQueryParam)
	}
	return ""
}

// WithIdentity кладёт пользователя в контекст
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity пользователь запроса
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok && identity != nil
}
