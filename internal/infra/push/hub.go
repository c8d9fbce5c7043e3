package push

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/pkg/metrics"
)

// Config параметры сессий
type Config struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PongTimeout  time.Duration
}

type delivery struct {
	event   models.Event
	payload []byte
}

// Hub держит подключенные сессии и раздаёт им события по участникам бронирования:
// клиенту по customerId, мастеру по technicianId, администратору все
type Hub struct {
	cfg     Config
	metrics *metrics.Metrics
	logger  Logger

	sessions   map[*Session]struct{}
	register   chan *Session
	unregister chan *Session
	deliver    chan delivery
	done       chan struct{}
}

// NewHub создает хаб, metrics может быть nil
func NewHub(cfg Config, m *metrics.Metrics, logger Logger) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 60 * time.Second
	}

	return &Hub{
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
		sessions:   make(map[*Session]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		deliver:    make(chan delivery),
		done:       make(chan struct{}),
	}
}

// Run обслуживает сессии до отмены контекста
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		for s := range h.sessions {
			h.remove(s)
		}
		h.logger.Info("push hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case s := <-h.register:
			h.sessions[s] = struct{}{}
			if h.metrics != nil {
				h.metrics.PushSessions.WithLabelValues(string(s.identity.Role())).Inc()
			}
			h.logger.Info("push: session registered: %s %s, total: %d", s.identity.Role(), s.identity.UserID(), len(h.sessions))

		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				h.remove(s)
				h.logger.Info("push: session unregistered: %s %s, total: %d", s.identity.Role(), s.identity.UserID(), len(h.sessions))
			}

		case d := <-h.deliver:
			h.route(d)
		}
	}
}

// Attach регистрирует подключение и запускает чтение и запись
// technicianID обязателен только для мастера
func (h *Hub) Attach(conn *websocket.Conn, identity domain.Identity, technicianID string) error {
	s := &Session{
		hub:          h,
		conn:         conn,
		send:         make(chan []byte, h.cfg.SendBuffer),
		identity:     identity,
		technicianID: technicianID,
	}

	select {
	case h.register <- s:
	case <-h.done:
		return ErrHubClosed
	}

	go s.writePump()
	go s.readPump()
	return nil
}

// Deliver передаёт событие сессиям-участникам
func (h *Hub) Deliver(ctx context.Context, event models.Event, payload []byte) error {
	select {
	case h.deliver <- delivery{event: event, payload: payload}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleMessage обработчик сообщений шины для watermill-роутера
// Битое сообщение подтверждается и пропускается: повтор его не исправит
func (h *Hub) HandleMessage(msg *message.Message) error {
	var event models.Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil || event.Event != models.EventBookingUpdate {
		h.logger.Warn("push: skip malformed message uuid=%s: %v", msg.UUID, err)
		if h.metrics != nil {
			h.metrics.PushDropped.WithLabelValues("malformed").Inc()
		}
		return nil
	}

	return h.Deliver(msg.Context(), event, msg.Payload)
}

func (h *Hub) route(d delivery) {
	for s := range h.sessions {
		if !s.wants(d.event.Data) {
			continue
		}

		select {
		case s.send <- d.payload:
			if h.metrics != nil {
				h.metrics.PushDelivered.WithLabelValues(string(s.identity.Role())).Inc()
			}
		default:
			// сессия не успевает читать, отключаем: клиент пересинхронизируется при переподключении
			h.logger.Warn("push: dropping slow session %s %s", s.identity.Role(), s.identity.UserID())
			if h.metrics != nil {
				h.metrics.PushDropped.WithLabelValues("slow_session").Inc()
			}
			h.remove(s)
		}
	}
}

func (h *Hub) remove(s *Session) {
	delete(h.sessions, s)
	close(s.send)
	if h.metrics != nil {
		h.metrics.PushSessions.WithLabelValues(string(s.identity.Role())).Dec()
	}
}

func (h *Hub) leave(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}
