package projector

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// BadgeRule именованное множество бронирований в заданном статусе
type BadgeRule struct {
	Name   string
	Status domain.BookingStatus
}

const (
	BadgePendingJobs     = "pending_jobs"
	BadgeActiveBookings  = "active_bookings"
	BadgePendingBookings = "pending_bookings"
)

// DefaultBadgeRules счётчики, которые показываются пользователю с данной ролью
func DefaultBadgeRules(role domain.Role) []BadgeRule {
	switch role {
	case domain.RoleTechnician:
		return []BadgeRule{{Name: BadgePendingJobs, Status: domain.StatusPending}}
	case domain.RoleCustomer:
		return []BadgeRule{{Name: BadgeActiveBookings, Status: domain.StatusAccepted}}
	case domain.RoleAdmin:
		return []BadgeRule{{Name: BadgePendingBookings, Status: domain.StatusPending}}
	}
	return nil
}

// Options зависимости проектора, пустые поля заменяются значениями по умолчанию
type Options struct {
	Clock  func() time.Time
	Store  ReadStateStore
	Rules  []BadgeRule
	Logger Logger
}

// Projector лента уведомлений одной клиентской сессии
// Не безопасен для конкурентного использования
type Projector struct {
	identity     domain.Identity
	technicianID string

	clock  func() time.Time
	store  ReadStateStore
	rules  []BadgeRule
	logger Logger

	server map[string]Notice
	local  map[string]Notice
	badges map[string]idSet

	read      idSet
	dismissed idSet

	synced bool
	stale  bool
}

// New создает проектор и загружает сохранённое состояние прочтения
// До первого Resync лента считается устаревшей
func New(identity domain.Identity, opts Options) (*Projector, error) {
	p := &Projector{
		identity: identity,
		clock:    opts.Clock,
		store:    opts.Store,
		rules:    opts.Rules,
		logger:   opts.Logger,
		server:   make(map[string]Notice),
		local:    make(map[string]Notice),
		badges:   make(map[string]idSet),
		stale:    true,
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.store == nil {
		p.store = &MemoryStore{}
	}
	if p.rules == nil && identity != nil {
		p.rules = DefaultBadgeRules(identity.Role())
	}
	for _, rule := range p.rules {
		p.badges[rule.Name] = make(idSet)
	}

	state, err := p.store.Load()
	if err != nil {
		return nil, err
	}
	p.read = newIDSet(state.Read)
	p.dismissed = newIDSet(state.Dismissed)

	return p, nil
}

// SetTechnicianID задаёт разрешённый technicianId текущего пользователя
func (p *Projector) SetTechnicianID(id string) {
	p.technicianID = id
}

// TechnicianID разрешённый technicianId текущего пользователя
func (p *Projector) TechnicianID() string {
	return p.technicianID
}

// Relevant сообщает, касается ли снимок текущего пользователя
func (p *Projector) Relevant(b models.Booking) bool {
	if p.identity == nil {
		return false
	}
	return access.IsParty(p.identity, p.technicianID, b.CustomerID, b.TechnicianID)
}

// ApplySnapshot применяет событие booking:update
// Возвращает true, если лента или счётчики изменились
func (p *Projector) ApplySnapshot(b models.Booking) bool {
	status, err := models.ToDomainBookingStatus(b.Status)
	if err != nil || b.ID == "" {
		p.warn("skip snapshot %q with status %q", b.ID, b.Status)
		return false
	}

	if !p.Relevant(b) {
		// бронирование могло уйти из области видимости (например, переназначено)
		return p.forgetBooking(b.ID)
	}

	changed := p.updateBadges(b.ID, status)

	at := p.snapshotTime(b)
	n := serverNotice(p.identity.Role(), b, status, at)
	if existing, ok := p.server[n.ID]; ok && !n.Timestamp.After(existing.Timestamp) {
		return changed
	}
	p.server[n.ID] = n
	return true
}

// PushLocal добавляет временный тост
func (p *Projector) PushLocal(kind Kind, title, message string, ttl time.Duration) Notice {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	now := p.clock()
	expires := now.Add(ttl)

	n := Notice{
		ID:        uuid.NewString(),
		Source:    SourceLocal,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Priority:  PriorityNormal,
		Timestamp: now,
		ExpiresAt: &expires,
	}
	if kind == KindError {
		n.Priority = PriorityHigh
	}
	p.local[n.ID] = n
	return n
}

// Expire удаляет истёкшие тосты, возвращает число удалённых
func (p *Projector) Expire(now time.Time) int {
	removed := 0
	for id, n := range p.local {
		if n.ExpiresAt != nil && !now.Before(*n.ExpiresAt) {
			delete(p.local, id)
			removed++
		}
	}
	if removed > 0 {
		p.prune()
	}
	return removed
}

// Feed лента, отсортированная по времени по убыванию
func (p *Projector) Feed() []Notice {
	now := p.clock()
	merged := make(map[string]Notice, len(p.server)+len(p.local))

	for id, n := range p.server {
		merged[id] = n
	}
	for id, n := range p.local {
		if n.ExpiresAt != nil && !now.Before(*n.ExpiresAt) {
			continue
		}
		if existing, ok := merged[id]; ok && !n.Timestamp.After(existing.Timestamp) {
			continue
		}
		merged[id] = n
	}

	feed := make([]Notice, 0, len(merged))
	for id, n := range merged {
		if p.dismissed.has(id) {
			continue
		}
		n.Read = p.read.has(id)
		feed = append(feed, n)
	}

	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].Timestamp.Equal(feed[j].Timestamp) {
			return feed[i].Timestamp.After(feed[j].Timestamp)
		}
		return feed[i].ID < feed[j].ID
	})
	return feed
}

// UnreadCount число непрочитанных элементов ленты
func (p *Projector) UnreadCount() int {
	count := 0
	for _, n := range p.Feed() {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead отмечает уведомление прочитанным
func (p *Projector) MarkRead(id string) error {
	if !p.live(id) || p.read.has(id) {
		return nil
	}
	p.read[id] = struct{}{}
	return p.save()
}

// MarkAllRead отмечает прочитанными все видимые уведомления
func (p *Projector) MarkAllRead() error {
	changed := false
	for _, n := range p.Feed() {
		if !n.Read {
			p.read[n.ID] = struct{}{}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return p.save()
}

// Dismiss скрывает уведомление только из локальной ленты, бронирование не меняется
func (p *Projector) Dismiss(id string) error {
	if _, ok := p.local[id]; ok {
		delete(p.local, id)
		return p.pruneAndSave()
	}
	if _, ok := p.server[id]; !ok || p.dismissed.has(id) {
		return nil
	}
	p.dismissed[id] = struct{}{}
	return p.save()
}

// Badge размер именованного множества
func (p *Projector) Badge(name string) int {
	return len(p.badges[name])
}

// BadgeIDs идентификаторы бронирований во множестве, по возрастанию
func (p *Projector) BadgeIDs(name string) []string {
	set, ok := p.badges[name]
	if !ok {
		return nil
	}
	return set.sorted()
}

// Badges размеры всех множеств
func (p *Projector) Badges() map[string]int {
	out := make(map[string]int, len(p.badges))
	for name, set := range p.badges {
		out[name] = len(set)
	}
	return out
}

// MarkStale помечает ленту устаревшей до следующего Resync, лента не очищается
func (p *Projector) MarkStale() {
	p.stale = true
}

// Stale сообщает, ожидается ли ресинхронизация
func (p *Projector) Stale() bool {
	return p.stale
}

// Resync перестраивает серверные уведомления и счётчики по полному списку бронирований
// Локальные тосты и состояние прочтения сохраняются, затем прореживаются
func (p *Projector) Resync(snapshots []models.Booking) error {
	// на время перестроения прореживание отключено
	p.synced = false
	p.server = make(map[string]Notice)
	for name := range p.badges {
		p.badges[name] = make(idSet)
	}

	for _, b := range snapshots {
		p.ApplySnapshot(b)
	}

	p.synced = true
	p.stale = false
	return p.pruneAndSave()
}

func (p *Projector) updateBadges(bookingID string, status domain.BookingStatus) bool {
	changed := false
	for _, rule := range p.rules {
		set := p.badges[rule.Name]
		switch {
		case rule.Status == status && !set.has(bookingID):
			set[bookingID] = struct{}{}
			changed = true
		case rule.Status != status && set.has(bookingID):
			delete(set, bookingID)
			changed = true
		}
	}
	return changed
}

// forgetBooking убирает бронирование из счётчиков и ленты
func (p *Projector) forgetBooking(bookingID string) bool {
	changed := false
	for _, set := range p.badges {
		if set.has(bookingID) {
			delete(set, bookingID)
			changed = true
		}
	}
	for id, n := range p.server {
		if n.BookingID == bookingID {
			delete(p.server, id)
			changed = true
		}
	}
	if changed {
		p.prune()
	}
	return changed
}

// snapshotTime время изменения снимка, если оно есть, иначе время получения
func (p *Projector) snapshotTime(b models.Booking) time.Time {
	if b.UpdatedAt != "" {
		if t, err := models.ParseTime(b.UpdatedAt); err == nil {
			return t
		}
	}
	return p.clock().UTC()
}

func (p *Projector) live(id string) bool {
	if _, ok := p.server[id]; ok {
		return true
	}
	_, ok := p.local[id]
	return ok
}

// prune прореживает состояние прочтения
// До первого Resync живых id ещё нет, поэтому загруженное состояние не трогаем
func (p *Projector) prune() {
	if err := p.pruneAndSave(); err != nil {
		p.warn("save read state: %v", err)
	}
}

func (p *Projector) pruneAndSave() error {
	if !p.synced {
		return nil
	}
	readChanged := p.read.retain(p.live)
	dismissedChanged := p.dismissed.retain(p.live)
	if !readChanged && !dismissedChanged {
		return nil
	}
	return p.save()
}

func (p *Projector) save() error {
	return p.store.Save(ReadState{
		Read:      p.read.sorted(),
		Dismissed: p.dismissed.sorted(),
	})
}

func (p *Projector) warn(format string, v ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(format, v...)
	}
}
