package projector

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/pkg/ptr"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func snapshot(id, status, customerID string, technicianID *string, updatedAt time.Time) models.Booking {
	return models.Booking{
		ID:             id,
		ServiceID:      "svc-1",
		ServiceName:    "Plumbing",
		CustomerID:     customerID,
		CustomerName:   "Alice",
		TechnicianID:   technicianID,
		TechnicianName: ptr.Ptr("Bob"),
		Date:           models.FormatTime(base.Add(24 * time.Hour)),
		Location:       "Main st 1",
		Status:         status,
		TotalCost:      100,
		ServiceFee:     90,
		PlatformFee:    10,
		CreatedAt:      models.FormatTime(base),
		UpdatedAt:      models.FormatTime(updatedAt),
	}
}

func newProjector(t *testing.T, identity domain.Identity, store ReadStateStore) (*Projector, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: base.Add(time.Hour)}
	p, err := New(identity, Options{Clock: clock.Now, Store: store})
	require.NoError(t, err)
	return p, clock
}

func feedIDs(feed []Notice) []string {
	ids := make([]string, 0, len(feed))
	for _, n := range feed {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestProjector_DeduplicatesByBookingAndStatus(t *testing.T) {
	p, _ := newProjector(t, domain.Customer{ID: "u1"}, nil)
	require.NoError(t, p.Resync(nil))

	pending := snapshot("bk1", "pending", "u1", ptr.Ptr("t1"), base)
	assert.True(t, p.ApplySnapshot(pending))
	p.ApplySnapshot(pending)

	feed := p.Feed()
	require.Len(t, feed, 1)
	assert.Equal(t, "bk1:pending", feed[0].ID)

	p.ApplySnapshot(snapshot("bk1", "accepted", "u1", ptr.Ptr("t1"), base.Add(time.Minute)))

	assert.Equal(t, []string{"bk1:accepted", "bk1:pending"}, feedIDs(p.Feed()))
}

func TestProjector_GreaterTimestampWins(t *testing.T) {
	p, _ := newProjector(t, domain.Customer{ID: "u1"}, nil)

	p.ApplySnapshot(snapshot("bk1", "pending", "u1", nil, base))
	p.ApplySnapshot(snapshot("bk1", "pending", "u1", nil, base.Add(5*time.Minute)))
	assert.False(t, p.ApplySnapshot(snapshot("bk1", "pending", "u1", nil, base.Add(time.Minute))))

	feed := p.Feed()
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Timestamp.Equal(base.Add(5*time.Minute)))
}

func TestProjector_ReadStateSurvivesResync(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state", "read.json"))
	customer := domain.Customer{ID: "u1"}
	bookings := []models.Booking{snapshot("bk1", "pending", "u1", ptr.Ptr("t1"), base)}

	first, _ := newProjector(t, customer, store)
	require.NoError(t, first.Resync(bookings))
	require.NoError(t, first.MarkRead("bk1:pending"))

	// новое подключение с тем же хранилищем
	second, _ := newProjector(t, customer, store)
	assert.True(t, second.Stale())
	require.NoError(t, second.Resync(bookings))
	assert.False(t, second.Stale())

	feed := second.Feed()
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Read)
	assert.Equal(t, 0, second.UnreadCount())

	// бронирование ушло из области видимости
	second.MarkStale()
	require.NoError(t, second.Resync(nil))
	assert.Empty(t, second.Feed())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Read)
}

func TestProjector_LoadedStateKeptUntilFirstResync(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save(ReadState{Read: []string{"bk1:pending"}}))

	p, _ := newProjector(t, domain.Customer{ID: "u1"}, store)
	p.PushLocal(KindInfo, "Hello", "", 0)
	assert.Equal(t, 1, p.Expire(base.Add(2*time.Hour)))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"bk1:pending"}, state.Read)
}

func TestProjector_BadgeSetIsIdempotent(t *testing.T) {
	p, _ := newProjector(t, domain.TechnicianUser{ID: "tu1"}, nil)
	p.SetTechnicianID("t1")
	require.NoError(t, p.Resync(nil))

	pending := snapshot("bk1", "pending", "u1", ptr.Ptr("t1"), base)
	p.ApplySnapshot(pending)
	p.ApplySnapshot(pending)
	p.ApplySnapshot(snapshot("bk2", "pending", "u2", ptr.Ptr("t1"), base))
	assert.Equal(t, 2, p.Badge(BadgePendingJobs))
	assert.Equal(t, []string{"bk1", "bk2"}, p.BadgeIDs(BadgePendingJobs))

	p.ApplySnapshot(snapshot("bk1", "accepted", "u1", ptr.Ptr("t1"), base.Add(time.Minute)))
	p.ApplySnapshot(snapshot("bk1", "accepted", "u1", ptr.Ptr("t1"), base.Add(time.Minute)))
	assert.Equal(t, 1, p.Badge(BadgePendingJobs))
	assert.Equal(t, map[string]int{BadgePendingJobs: 1}, p.Badges())
}

func TestProjector_IgnoresOtherTechnician(t *testing.T) {
	p, _ := newProjector(t, domain.TechnicianUser{ID: "tu2"}, nil)
	p.SetTechnicianID("t2")

	assert.False(t, p.ApplySnapshot(snapshot("bk1", "pending", "u1", ptr.Ptr("t1"), base)))
	assert.Empty(t, p.Feed())
	assert.Equal(t, 0, p.Badge(BadgePendingJobs))
}

func TestProjector_ReassignedBookingLeavesScope(t *testing.T) {
	p, _ := newProjector(t, domain.TechnicianUser{ID: "tu1"}, nil)
	p.SetTechnicianID("t1")
	require.NoError(t, p.Resync(nil))

	p.ApplySnapshot(snapshot("bk1", "pending", "u1", ptr.Ptr("t1"), base))
	require.NoError(t, p.MarkRead("bk1:pending"))

	assert.True(t, p.ApplySnapshot(snapshot("bk1", "pending", "u1", ptr.Ptr("t9"), base.Add(time.Minute))))
	assert.Empty(t, p.Feed())
	assert.Equal(t, 0, p.Badge(BadgePendingJobs))
	assert.Empty(t, p.read)
}

func TestProjector_LocalToastExpires(t *testing.T) {
	p, clock := newProjector(t, domain.Customer{ID: "u1"}, nil)

	toast := p.PushLocal(KindSuccess, "Booking created", "We are looking for a technician", 0)
	require.NotNil(t, toast.ExpiresAt)
	assert.Equal(t, clock.now.Add(DefaultToastTTL), *toast.ExpiresAt)
	assert.Equal(t, []string{toast.ID}, feedIDs(p.Feed()))

	clock.now = clock.now.Add(DefaultToastTTL)
	assert.Empty(t, p.Feed())
	assert.Equal(t, 1, p.Expire(clock.now))
	assert.Equal(t, 0, p.Expire(clock.now))
}

func TestProjector_FeedOrderMergesSources(t *testing.T) {
	p, clock := newProjector(t, domain.Customer{ID: "u1"}, nil)

	p.ApplySnapshot(snapshot("bk1", "pending", "u1", nil, base))
	toast := p.PushLocal(KindInfo, "Saved", "", time.Minute)
	p.ApplySnapshot(snapshot("bk2", "pending", "u1", nil, base.Add(2*time.Hour)))

	assert.True(t, toast.Timestamp.Equal(clock.now))
	assert.Equal(t, []string{"bk2:pending", toast.ID, "bk1:pending"}, feedIDs(p.Feed()))
}

func TestProjector_DismissOnlyHidesNotice(t *testing.T) {
	store := &MemoryStore{}
	p, _ := newProjector(t, domain.Customer{ID: "u1"}, store)
	require.NoError(t, p.Resync([]models.Booking{snapshot("bk1", "accepted", "u1", ptr.Ptr("t1"), base)}))

	require.NoError(t, p.Dismiss("bk1:accepted"))
	assert.Empty(t, p.Feed())
	assert.Equal(t, 1, p.Badge(BadgeActiveBookings))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"bk1:accepted"}, state.Dismissed)
}

func TestProjector_MarkAllRead(t *testing.T) {
	p, _ := newProjector(t, domain.Admin{ID: "a1"}, nil)
	require.NoError(t, p.Resync([]models.Booking{
		snapshot("bk1", "pending", "u1", nil, base),
		snapshot("bk2", "completed", "u2", ptr.Ptr("t1"), base),
	}))
	assert.Equal(t, 2, p.UnreadCount())
	assert.Equal(t, 1, p.Badge(BadgePendingBookings))

	require.NoError(t, p.MarkAllRead())
	assert.Equal(t, 0, p.UnreadCount())
}

func TestProjector_RejectsUnknownStatus(t *testing.T) {
	p, _ := newProjector(t, domain.Admin{ID: "a1"}, nil)
	assert.False(t, p.ApplySnapshot(snapshot("bk1", "archived", "u1", nil, base)))
	assert.Empty(t, p.Feed())
}

func TestServerNotice_RoleSpecificText(t *testing.T) {
	b := snapshot("bk1", "pending", "u1", nil, base)

	tech := serverNotice(domain.RoleTechnician, b, domain.StatusPending, base)
	assert.Equal(t, "New Job Request", tech.Title)
	assert.Equal(t, "/technician-dashboard", tech.TargetPath)

	customer := serverNotice(domain.RoleCustomer, b, domain.StatusPending, base)
	assert.Equal(t, "/booking-success/bk1", customer.TargetPath)

	admin := serverNotice(domain.RoleAdmin, b, domain.StatusPending, base)
	assert.Equal(t, "Booking Needs Technician", admin.Title)
	assert.Equal(t, PriorityHigh, admin.Priority)

	done := serverNotice(domain.RoleTechnician, b, domain.StatusCompleted, base)
	assert.Equal(t, "/technician-wallet", done.TargetPath)
	assert.Equal(t, "You earned 90.00 for Plumbing", done.Message)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "none.json"))
	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Read)
	assert.Empty(t, state.Dismissed)
}
