package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-booking/internal/config"
	"ms-booking/internal/models"
)

// Development helper: drops the booking schema, recreates it from the bun
// models and seeds sample members, events and houses. Production schema
// changes go through the golang-migrate files in ./migrations.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	log.Println("Dropping tables...")
	dropTables(ctx, db)

	log.Println("Creating tables...")
	createTables(ctx, db)

	log.Println("Seeding sample data...")
	seedData(ctx, db)

	log.Println("Done.")
}

func dropTables(ctx context.Context, db *bun.DB) {
	tables := []interface{}{
		(*models.Participant)(nil),
		(*models.Booking)(nil),
		(*models.HouseUnavailableDate)(nil),
		(*models.House)(nil),
		(*models.Event)(nil),
		(*models.User)(nil),
	}
	for _, m := range tables {
		_, _ = db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx)
	}
}

func createTables(ctx context.Context, db *bun.DB) {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Event)(nil),
		(*models.House)(nil),
		(*models.HouseUnavailableDate)(nil),
		(*models.Booking)(nil),
		(*models.Participant)(nil),
	}
	for _, m := range tables {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			log.Fatalf("Failed to create table for %T: %v", m, err)
		}
	}
}

func seedData(ctx context.Context, db *bun.DB) {
	users := []models.User{
		{ID: "member001", Email: "camille@example.com", FullName: "Camille Dupont", Status: models.MemberApproved, CreatedAt: time.Now()},
		{ID: "member002", Email: "ahmed@example.com", FullName: "Ahmed Benali", Status: models.MemberApproved, CreatedAt: time.Now()},
		{ID: "member003", Email: "lea@example.com", FullName: "Léa Martin", Status: models.MemberPending, CreatedAt: time.Now()},
	}
	_, _ = db.NewInsert().Model(&users).Exec(ctx)

	events := []models.Event{
		{
			ID:              "event001",
			Name:            "Voyage à Rome 2026",
			Description:     "Voyage culturel de printemps",
			StartDate:       time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC),
			MaxParticipants: 40,
			ChildPresence:   true,
			ChildPrice:      250,
			NumberOfChildren: 2,
			CojoinPresence:   true,
			CojoinPrice:      480,
			NumberOfCompanions: 1,
			CreatedAt:          time.Now(),
		},
		{
			ID:              "event002",
			Name:            "Excursion Mont Saint-Michel",
			StartDate:       time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
			MaxParticipants: 25,
			CreatedAt:       time.Now(),
		},
	}
	_, _ = db.NewInsert().Model(&events).Exec(ctx)

	houses := []models.House{
		{ID: "house001", Name: "Maison de Bretagne", Description: "Gîte en bord de mer", PricePerNight: 85, CreatedAt: time.Now()},
		{ID: "house002", Name: "Chalet des Vosges", PricePerNight: 110, CreatedAt: time.Now()},
	}
	_, _ = db.NewInsert().Model(&houses).Exec(ctx)
}
