package pushclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ServiceConnect/internal/client/projector"
	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/pkg/logger"
)

const (
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
)

// Config параметры клиентской сессии
type Config struct {
	// BaseURL адрес API, например http://localhost:8080
	BaseURL  string
	Token    string
	Identity domain.Identity

	Store      projector.ReadStateStore
	HTTPClient *http.Client
	Dialer     *websocket.Dialer

	MinBackoff time.Duration
	MaxBackoff time.Duration

	// OnChange вызывается после каждого изменения ленты, вне блокировки
	OnChange func()
	Clock    func() time.Time
	Logger   Logger
}

// Session держит push-канал, переподключается и пересинхронизирует ленту
type Session struct {
	cfg Config

	mu        sync.Mutex
	projector *projector.Projector
	// technicianId разрешается один раз за сессию
	technicianResolved bool
}

// NewSession создает сессию
func NewSession(cfg Config) (*Session, error) {
	if cfg.BaseURL == "" || cfg.Token == "" || cfg.Identity == nil {
		return nil, fmt.Errorf("%w: base url, token and identity are required", ErrInvalidConfig)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = defaultMinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	p, err := projector.New(cfg.Identity, projector.Options{
		Clock:  cfg.Clock,
		Store:  cfg.Store,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Session{cfg: cfg, projector: p}, nil
}

// Run держит подключение до отмены контекста
// Обрыв канала обрабатывается внутри с экспоненциальной задержкой, наружу не выходит
func (s *Session) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.MinBackoff
	b.MaxInterval = s.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	for {
		synced, err := s.connect(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		if synced {
			b.Reset()
		}

		wait := b.NextBackOff()
		s.cfg.Logger.Warn("pushclient: %v, reconnecting in %s", err, wait)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// connect одно подключение: dial, пересинхронизация, чтение событий до обрыва
func (s *Session) connect(ctx context.Context) (bool, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.cfg.Token)

	conn, resp, err := s.cfg.Dialer.DialContext(ctx, s.wsURL(), header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return false, ErrUnauthorized
		}
		return false, fmt.Errorf("%w: dial: %v", ErrChannelClosed, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	s.mu.Lock()
	s.projector.MarkStale()
	s.mu.Unlock()
	s.notify()

	if err := s.resync(ctx); err != nil {
		return false, err
	}
	s.cfg.Logger.Info("pushclient: connected and synced as %s %s", s.cfg.Identity.Role(), s.cfg.Identity.UserID())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("%w: %v", ErrChannelClosed, err)
		}
		s.handle(data)
	}
}

func (s *Session) resync(ctx context.Context) error {
	if s.cfg.Identity.Role() == domain.RoleTechnician && !s.technicianResolved {
		id, err := s.resolveTechnician(ctx, s.cfg.Identity.UserID())
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.projector.SetTechnicianID(id)
		s.technicianResolved = true
		s.mu.Unlock()
	}

	bookings, err := s.listBookings(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = s.projector.Resync(bookings)
	s.mu.Unlock()
	if err != nil {
		s.cfg.Logger.Warn("pushclient: save read state: %v", err)
	}
	s.notify()
	return nil
}

func (s *Session) handle(data []byte) {
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		s.cfg.Logger.Warn("pushclient: skip malformed event: %v", err)
		return
	}
	if event.Event != models.EventBookingUpdate {
		s.cfg.Logger.Debug("pushclient: skip event %q", event.Event)
		return
	}

	s.mu.Lock()
	changed := s.projector.ApplySnapshot(event.Data)
	expired := s.projector.Expire(s.cfg.Clock())
	s.mu.Unlock()

	if changed || expired > 0 {
		s.notify()
	}
}

func (s *Session) wsURL() string {
	u := s.cfg.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

func (s *Session) notify() {
	if s.cfg.OnChange != nil {
		s.cfg.OnChange()
	}
}

// Feed текущая лента
func (s *Session) Feed() []projector.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projector.Expire(s.cfg.Clock())
	return s.projector.Feed()
}

// Badge размер именованного счётчика
func (s *Session) Badge(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projector.Badge(name)
}

// Badges все счётчики
func (s *Session) Badges() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projector.Badges()
}

// UnreadCount число непрочитанных уведомлений
func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projector.UnreadCount()
}

// Stale сообщает, идёт ли пересинхронизация
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projector.Stale()
}

// MarkRead отмечает уведомление прочитанным
func (s *Session) MarkRead(id string) error {
	s.mu.Lock()
	err := s.projector.MarkRead(id)
	s.mu.Unlock()
	s.notify()
	return err
}

// MarkAllRead отмечает прочитанными все уведомления
func (s *Session) MarkAllRead() error {
	s.mu.Lock()
	err := s.projector.MarkAllRead()
	s.mu.Unlock()
	s.notify()
	return err
}

// Dismiss скрывает уведомление из ленты
func (s *Session) Dismiss(id string) error {
	s.mu.Lock()
	err := s.projector.Dismiss(id)
	s.mu.Unlock()
	s.notify()
	return err
}

// PushLocal показывает временный тост
func (s *Session) PushLocal(kind projector.Kind, title, message string, ttl time.Duration) projector.Notice {
	s.mu.Lock()
	n := s.projector.PushLocal(kind, title, message, ttl)
	s.mu.Unlock()
	s.notify()
	return n
}
