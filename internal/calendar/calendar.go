package calendar

import (
	"context"
	"ms-booking/internal/models"
	"time"

	"github.com/uptrace/bun"
)

// DayFormat is the ISO day layout used for unavailable-date entries.
const DayFormat = "2006-01-02"

// ExpandRange returns every calendar day from start through end inclusive,
// as ISO day strings. An end before start yields nil.
func ExpandRange(start, end time.Time) []string {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayFormat))
	}
	return days
}

// Adjuster blocks and frees house calendar days. Both operations keep set
// semantics: blocking an already-blocked day is a no-op, freeing a day that
// is not blocked is a no-op.
type Adjuster struct {
	Bun *bun.DB
}

func NewAdjuster(bunDB *bun.DB) *Adjuster {
	return &Adjuster{Bun: bunDB}
}

// BlockRange adds every day in [start, end] to the house's unavailable set.
func (a *Adjuster) BlockRange(ctx context.Context, houseID string, start, end time.Time) error {
	days := ExpandRange(start, end)
	if len(days) == 0 {
		return nil
	}

	entries := make([]models.HouseUnavailableDate, len(days))
	for i, day := range days {
		entries[i] = models.HouseUnavailableDate{HouseID: houseID, Date: day}
	}

	_, err := a.Bun.NewInsert().
		Model(&entries).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}

// FreeRange removes every day in [start, end] from the house's unavailable set.
func (a *Adjuster) FreeRange(ctx context.Context, houseID string, start, end time.Time) error {
	days := ExpandRange(start, end)
	if len(days) == 0 {
		return nil
	}

	_, err := a.Bun.NewDelete().
		Model((*models.HouseUnavailableDate)(nil)).
		Where("house_id = ?", houseID).
		Where("date IN (?)", bun.In(days)).
		Exec(ctx)
	return err
}

// UnavailableDates returns the house's blocked days, sorted.
func (a *Adjuster) UnavailableDates(ctx context.Context, houseID string) ([]string, error) {
	var days []string
	err := a.Bun.NewSelect().
		Column("date").
		Model((*models.HouseUnavailableDate)(nil)).
		Where("house_id = ?", houseID).
		Order("date").
		Scan(ctx, &days)
	if err != nil {
		return nil, err
	}
	return days, nil
}
