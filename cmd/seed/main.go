package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cekaratas/randevu/internal/appointment"
	"github.com/cekaratas/randevu/internal/config"
	"github.com/cekaratas/randevu/internal/notify"
	"github.com/cekaratas/randevu/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	gw, err := storage.NewRedis(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.StorageNamespace)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer gw.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), gw, 40); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments writes demo appointments through the store so the persisted
// blob has exactly the shape the api-server reads back. Reminders go through a
// fake scheduler; the server arms real ones when it loads the data.
func seedAppointments(ctx context.Context, gw storage.Gateway, count int) error {
	log.Printf("seeding %d appointments", count)

	titles := []string{
		"Diş hekimi kontrolü",
		"Göz muayenesi",
		"Proje toplantısı",
		"Sprint planlama",
		"Veli toplantısı",
		"İngilizce kursu",
		"Halı saha maçı",
		"Koşu antrenmanı",
		"Market alışverişi",
		"Aile yemeği",
		"Uçuş check-in",
		"Araç bakımı",
	}
	repeats := []appointment.Repeat{
		appointment.RepeatNone,
		appointment.RepeatNone,
		appointment.RepeatNone,
		appointment.RepeatWeekly,
		appointment.RepeatMonthly,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := appointment.New(gw, notify.NewFake(), logger, appointment.Config{})
	store.LoadFromPersistence(ctx)

	for i := 0; i < count; i++ {
		category := appointment.Categories[gofakeit.Number(0, len(appointment.Categories)-1)]

		// spread across the past month and the next two months
		offset := time.Duration(gofakeit.Number(-30, 60)) * 24 * time.Hour
		date := time.Now().Add(offset).Truncate(time.Minute)

		_, err := store.Create(ctx, appointment.Draft{
			Title:       titles[gofakeit.Number(0, len(titles)-1)],
			Category:    category,
			Description: gofakeit.Sentence(6),
			Date:        date,
			Repeat:      repeats[gofakeit.Number(0, len(repeats)-1)],
		})
		if err != nil {
			return err
		}
	}

	log.Println("appointments seeded")
	return nil
}
