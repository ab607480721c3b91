package db

import (
	"context"
	"database/sql"
	"errors"
	"ms-booking/internal/models"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a booking lookup matches nothing.
var ErrNotFound = errors.New("booking not found")

type DB struct {
	Bun *bun.DB
}

// ---------------- LEDGER ----------------

// CreateBooking → insert the booking and its participant rows
func (d *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(booking).Exec(ctx); err != nil {
			return err
		}
		if len(booking.Participants) == 0 {
			return nil
		}
		for i := range booking.Participants {
			booking.Participants[i].BookingID = booking.ID
		}
		_, err := tx.NewInsert().Model(&booking.Participants).Exec(ctx)
		return err
	})
}

// GetBookingByID → fetch one booking with its participants
func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Relation("Participants").
		Where("booking.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookings → filtered list, newest first
func (d *DB) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	bookings := []models.Booking{}
	q := d.Bun.NewSelect().
		Model(&bookings).
		Relation("Participants").
		Order("created_at DESC")

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ActivityID != "" {
		q = q.Where("activity_id = ?", filter.ActivityID)
	}
	if filter.ActivityModel != "" {
		q = q.Where("activity_model = ?", filter.ActivityModel)
	}
	if filter.ActivityCategory != "" {
		q = q.Where("activity_category = ?", filter.ActivityCategory)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingPeriod → patch the user-editable fields
func (d *DB) UpdateBookingPeriod(ctx context.Context, id string, start, end time.Time) (*models.Booking, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("period_start = ?", start).
		Set("period_end = ?", end).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}
	return d.GetBookingByID(ctx, id)
}

// UpdateBookingStatus → the only write path for the status column
func (d *DB) UpdateBookingStatus(ctx context.Context, id string, status string) (*models.Booking, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}
	return d.GetBookingByID(ctx, id)
}

// SetBookingVoucher stores the generated voucher bytes on the record.
func (d *DB) SetBookingVoucher(ctx context.Context, id string, voucher []byte) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("voucher = ?", voucher).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteBooking → remove the booking and its participant rows
func (d *DB) DeleteBooking(ctx context.Context, id string) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Participant)(nil)).
			Where("booking_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Booking)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---------------- ADMISSION QUERIES ----------------

// HasOverlappingBooking reports whether the member already holds a booking on
// the house whose period overlaps [start, end]. The test is inclusive on
// both ends.
func (d *DB) HasOverlappingBooking(ctx context.Context, userID, houseID string, start, end time.Time) (bool, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("user_id = ?", userID).
		Where("activity_id = ?", houseID).
		Where("activity_model = ?", models.ActivityModelHouse).
		Where("period_start <= ?", end).
		Where("period_end >= ?", start).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasEventBooking reports whether the member already holds a booking for the
// event, regardless of its status.
func (d *DB) HasEventBooking(ctx context.Context, userID, eventID string) (bool, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("user_id = ?", userID).
		Where("activity_id = ?", eventID).
		Where("activity_model = ?", models.ActivityModelEvent).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
