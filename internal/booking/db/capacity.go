package db

import (
	"context"
	"ms-booking/internal/models"
)

// ReserveEventSlot increments the event's participant counter by one, but
// only while the counter is still below the cap. The guard and the increment
// are a single conditional UPDATE so two requests racing for the last slot
// cannot both win. Returns false when the event was already full.
func (d *DB) ReserveEventSlot(ctx context.Context, eventID string) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("current_participants = current_participants + 1").
		Where("id = ?", eventID).
		Where("current_participants < max_participants").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ReleaseEventSlot decrements the participant counter, clamped at zero.
// Returns false when the counter was already zero so the caller can log the
// anomaly instead of letting the count go negative.
func (d *DB) ReleaseEventSlot(ctx context.Context, eventID string) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("current_participants = current_participants - 1").
		Where("id = ?", eventID).
		Where("current_participants > 0").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
