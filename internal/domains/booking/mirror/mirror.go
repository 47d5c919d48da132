// Package mirror keeps a per-user, in-process copy of "my bookings" for fast
// listing. It is never authoritative: every value it holds came back from the
// booking service, and Refresh replaces a user's view wholesale.
//
// Mutations go through the mirror so the entry can show the expected result
// while the call is in flight. Each entry keeps the last confirmed record and,
// separately, the optimistic one, so a failed call simply drops the optimistic
// value instead of having to undo an in-place write.
package mirror

import (
	"context"
	"errors"
	"sort"
	"sync"
	"voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/service"
	"voyage/shared/failure"
	"voyage/shared/timezone"

	"github.com/rs/zerolog/log"
)

type entry struct {
	confirmed model.Booking
	pending   *model.Booking
}

// View is one listed booking. Reconciling is true while a mutation on it is
// in flight and Booking holds the expected, not yet confirmed, record.
type View struct {
	Booking     model.Booking
	Reconciling bool
}

type Mirror struct {
	bookings service.Booking

	mu      sync.RWMutex
	entries map[string]*entry
	byUser  map[string]map[string]struct{}
}

func New(bookings service.Booking) *Mirror {
	return &Mirror{
		bookings: bookings,
		entries:  map[string]*entry{},
		byUser:   map[string]map[string]struct{}{},
	}
}

// View lists the user's bookings newest first, preferring optimistic values.
func (m *Mirror) View(userID string) []View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	views := make([]View, 0, len(m.byUser[userID]))

	for id := range m.byUser[userID] {
		e := m.entries[id]
		if e.pending != nil {
			views = append(views, View{Booking: *e.pending, Reconciling: true})

			continue
		}

		views = append(views, View{Booking: e.confirmed})
	}

	sort.Slice(views, func(i, j int) bool {
		a, b := views[i].Booking, views[j].Booking
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}

		return a.CreatedAt.After(b.CreatedAt)
	})

	return views
}

// Refresh reloads the user's bookings from the store. A failed read is logged
// and the previous view is kept; the next refresh heals it. Records older than
// the cached revision are ignored.
func (m *Mirror) Refresh(ctx context.Context, userID string) []View {
	records, err := m.bookings.GetUserBookings(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to refresh bookings, serving previous view")

		return m.View(userID)
	}

	m.mu.Lock()

	fresh := make(map[string]struct{}, len(records))

	for _, record := range records {
		fresh[record.ID] = struct{}{}

		e, ok := m.entries[record.ID]
		if !ok {
			m.entries[record.ID] = &entry{confirmed: record}

			continue
		}

		// a snapshot read before a mutation committed must not roll the entry back
		if record.Revision < e.confirmed.Revision {
			log.Debug().
				Str("booking_id", record.ID).
				Int64("cached_revision", e.confirmed.Revision).
				Int64("stored_revision", record.Revision).
				Msg("refresh returned an older revision, keeping the newer record")

			continue
		}

		if e.confirmed.Revision != record.Revision && e.pending == nil {
			log.Debug().
				Str("booking_id", record.ID).
				Str("cached", e.confirmed.Status.String()).
				Str("stored", record.Status.String()).
				Msg("booking changed outside this client")
		}

		e.confirmed = record
	}

	for id := range m.byUser[userID] {
		if _, ok := fresh[id]; ok {
			continue
		}

		if m.entries[id].pending != nil {
			fresh[id] = struct{}{}

			continue
		}

		delete(m.entries, id)
	}

	m.byUser[userID] = fresh

	m.mu.Unlock()

	return m.View(userID)
}

// ConfirmBookingPayment confirms through the booking service with an
// optimistic processing/paid entry while the call runs.
func (m *Mirror) ConfirmBookingPayment(ctx context.Context, id, paymentReference string) (model.Booking, error) {
	return m.mutate(ctx, id, func(cached model.Booking) (model.Booking, error) {
		if cached.IsConfirmedWith(paymentReference) {
			return cached, nil
		}

		now := timezone.Now()

		t, err := cached.ConfirmPayment(paymentReference, now)
		if err != nil {
			return cached, err
		}

		return cached.Apply(t, now), nil
	}, func() (model.Booking, error) {
		return m.bookings.ConfirmBookingPayment(ctx, id, paymentReference)
	})
}

func (m *Mirror) CancelBooking(ctx context.Context, id, reason string) (model.Booking, error) {
	return m.mutate(ctx, id, func(cached model.Booking) (model.Booking, error) {
		now := timezone.Now()

		t, err := cached.Cancel(reason, now)
		if err != nil {
			return cached, err
		}

		return cached.Apply(t, now), nil
	}, func() (model.Booking, error) {
		return m.bookings.CancelBooking(ctx, id, reason)
	})
}

func (m *Mirror) mutate(
	ctx context.Context,
	id string,
	expect func(cached model.Booking) (model.Booking, error),
	call func() (model.Booking, error),
) (model.Booking, error) {
	m.markPending(id, expect)

	booking, err := call()
	if err != nil {
		m.settleFailure(ctx, id, err)

		return booking, err
	}

	m.store(booking)

	return booking, nil
}

// markPending sets the optimistic value when the booking is cached and the
// transition is allowed from what the mirror last saw. Otherwise the entry is
// left alone and the service decides.
func (m *Mirror) markPending(id string, expect func(model.Booking) (model.Booking, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return
	}

	expected, err := expect(e.confirmed)
	if err != nil {
		return
	}

	e.pending = &expected
}

func (m *Mirror) store(booking model.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[booking.ID] = &entry{confirmed: booking}

	ids, ok := m.byUser[booking.UserID]
	if !ok {
		ids = map[string]struct{}{}
		m.byUser[booking.UserID] = ids
	}

	ids[booking.ID] = struct{}{}
}

func (m *Mirror) settleFailure(ctx context.Context, id string, cause error) {
	m.mu.Lock()

	e, ok := m.entries[id]
	if ok {
		e.pending = nil
	}

	if ok && failure.IsKind(cause, failure.KindNotFound) {
		delete(m.entries, id)
		delete(m.byUser[e.confirmed.UserID], id)
	}

	m.mu.Unlock()

	// An invalid transition means the cached status was stale; pull the
	// current record so the next view shows it.
	if !ok || !failure.IsKind(cause, failure.KindInvalidState) {
		return
	}

	latest, err := m.bookings.FetchBooking(ctx, id)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("booking_id", id).Msg("failed to reload booking after rejected transition")
		}

		return
	}

	m.store(latest)
}
