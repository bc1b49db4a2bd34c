package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrcars/backend/internal/alert"
	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// Marketplace bundles the recurring maintenance jobs for the marketplace.
type Marketplace struct {
	appointments  repository.AppointmentRepository
	listings      repository.ListingRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	alerts        *alert.Service
	expiryAfter   time.Duration
	logger        *slog.Logger
}

// NewMarketplace creates the marketplace job set.
func NewMarketplace(
	appointments repository.AppointmentRepository,
	listings repository.ListingRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	alerts *alert.Service,
	expiryAfter time.Duration,
	logger *slog.Logger,
) *Marketplace {
	return &Marketplace{
		appointments:  appointments,
		listings:      listings,
		users:         users,
		notifications: notifications,
		alerts:        alerts,
		expiryAfter:   expiryAfter,
		logger:        logger,
	}
}

// RemindAppointments creates a high priority notification for every staff
// and admin user for each confirmed viewing in the next 24 hours, and pings
// the alert channels.
func (m *Marketplace) RemindAppointments(ctx context.Context) error {
	now := time.Now().UTC()
	due, err := m.appointments.DueBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("load due appointments: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	staff, err := m.staffUsers(ctx)
	if err != nil {
		return fmt.Errorf("load staff users: %w", err)
	}

	for _, appt := range due {
		listing, err := m.listings.GetByID(ctx, appt.ListingID)
		if err != nil {
			m.logger.Error("appointment reminder listing lookup failed", "appointment", appt.ID, "error", err)
			continue
		}
		customer, err := m.users.GetByID(ctx, appt.UserID)
		if err != nil {
			m.logger.Error("appointment reminder user lookup failed", "appointment", appt.ID, "error", err)
			continue
		}

		title := "Upcoming viewing: " + listing.Title()
		message := fmt.Sprintf("%s has a confirmed viewing of %s at %s.",
			customer.FullName(), listing.Title(), appt.ScheduledAt.Format("Mon Jan 2 15:04"))

		for _, u := range staff {
			apptID := appt.ID
			n := &model.Notification{
				BaseEntity: model.NewBaseEntity(),
				UserID:     u.ID,
				Kind:       model.NotificationAppointment,
				Title:      title,
				Message:    message,
				Priority:   model.PriorityHigh,
				RelatedID:  &apptID,
			}
			if err := m.notifications.Create(ctx, n); err != nil {
				m.logger.Error("appointment reminder notification failed", "user", u.ID, "error", err)
			}
		}

		if err := m.alerts.SendAppointmentReminder(ctx, customer.FullName(), listing.Title(), appt.ScheduledAt.Format(time.RFC1123)); err != nil {
			m.logger.Warn("appointment reminder alert failed", "appointment", appt.ID, "error", err)
		}
	}

	m.logger.Info("appointment reminders sent", "appointments", len(due), "recipients", len(staff))
	return nil
}

// ExpireListings expires pending listings that sat unreviewed past the
// configured window.
func (m *Marketplace) ExpireListings(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-m.expiryAfter)
	count, err := m.listings.ExpirePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expire pending listings: %w", err)
	}
	if count == 0 {
		return nil
	}

	m.logger.Info("stale listings expired", "count", count, "cutoff", cutoff)
	if err := m.alerts.SendListingsExpired(ctx, count); err != nil {
		m.logger.Warn("listing expiry alert failed", "error", err)
	}
	return nil
}

// staffUsers returns the active staff and admin accounts that receive
// admin notifications.
func (m *Marketplace) staffUsers(ctx context.Context) ([]*model.User, error) {
	users, _, err := m.users.List(ctx, model.Pagination{Page: 1, PageSize: 500})
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.Active && (u.Role == model.RoleAdmin || u.Role == model.RoleStaff) {
			out = append(out, u)
		}
	}
	return out, nil
}
