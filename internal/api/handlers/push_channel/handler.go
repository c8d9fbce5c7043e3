package push_channel

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "пользователь не зарегистрирован как мастер"
)

type Handler struct {
	verifier TokenVerifier
	resolver TechnicianResolver
	hub      Hub
	upgrader websocket.Upgrader
	logger   Logger
}

// NewHandler пустой allowedOrigins разрешает любой источник
func NewHandler(verifier TokenVerifier, resolver TechnicianResolver, hub Hub, allowedOrigins []string, logger Logger) *Handler {
	return &Handler{
		verifier: verifier,
		resolver: resolver,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
	}
}

// Handle GET /ws
// Токен берётся из Authorization или из access_token: браузерный WebSocket не умеет ставить заголовки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r, true)
	if token == "" {
		h.logger.Warn("GET /ws - Missing token")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	identity, err := h.verifier.Parse(token)
	if err != nil {
		h.logger.Warn("GET /ws - Invalid token: %v", err)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var technicianID string
	if identity.Role() == domain.RoleTechnician {
		technicianID, err = h.resolver.TechnicianID(r.Context(), identity.UserID())
		if err != nil {
			if errors.Is(err, access.ErrAccessDenied) {
				h.logger.Warn("GET /ws - No technician record: user_id=%s", identity.UserID())
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			h.logger.Error("GET /ws - Failed to resolve technician: user_id=%s, error=%v", identity.UserID(), err)
			handlers.RespondInternalError(w)
			return
		}
	}

	// Upgrade сам отвечает клиенту при ошибке
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("GET /ws - Upgrade failed: %v", err)
		return
	}

	if err := h.hub.Attach(conn, identity, technicianID); err != nil {
		h.logger.Warn("GET /ws - Attach failed: %v", err)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}

	h.logger.Info("GET /ws - Session opened: %s %s", identity.Role(), identity.UserID())
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
