package activities

import (
	"context"
	"database/sql"
	"errors"
	"ms-booking/internal/models"

	"github.com/uptrace/bun"
)

// Lookup errors for the resource directory.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrHouseNotFound = errors.New("house not found")
	ErrUserNotFound  = errors.New("user not found")
)

// Directory reads the Event/House resource store and the member directory.
// Capacity-affecting writes live in the booking db layer, not here.
type Directory struct {
	Bun *bun.DB
}

func NewDirectory(bunDB *bun.DB) *Directory {
	return &Directory{Bun: bunDB}
}

func (d *Directory) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (d *Directory) GetHouse(ctx context.Context, id string) (*models.House, error) {
	var house models.House
	err := d.Bun.NewSelect().
		Model(&house).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHouseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &house, nil
}

func (d *Directory) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
