package push

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// maxClientMessage клиенты ничего не шлют, кроме управляющих кадров
const maxClientMessage = 512

// Session одно websocket-подключение пользователя
type Session struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	identity     domain.Identity
	technicianID string
}

func (s *Session) wants(b models.Booking) bool {
	return access.IsParty(s.identity, s.technicianID, b.CustomerID, b.TechnicianID)
}

// readPump держит дедлайн по pong и замечает закрытие соединения
func (s *Session) readPump() {
	defer func() {
		s.hub.leave(s)
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxClientMessage)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongTimeout))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Debug("push: read error for %s %s: %v", s.identity.Role(), s.identity.UserID(), err)
			}
			return
		}
	}
}

// writePump единственный писатель в соединение
func (s *Session) writePump() {
	ticker := time.NewTicker(s.hub.cfg.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.hub.logger.Debug("push: write error for %s %s: %v", s.identity.Role(), s.identity.UserID(), err)
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
