// Command seed imports tour fixtures into the database for development.
//
//	go run ./cmd/seed -file dev-data/tours.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/nshrestha/trailbook/internal/config"
	"github.com/nshrestha/trailbook/internal/database"
	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/repositories"
	"github.com/nshrestha/trailbook/internal/services"
	pkglogger "github.com/nshrestha/trailbook/pkg/logger"
)

type tourFixture struct {
	Name         string  `json:"name"`
	DurationDays int     `json:"durationDays"`
	MaxGroupSize int     `json:"maxGroupSize"`
	Difficulty   string  `json:"difficulty"`
	Price        float64 `json:"price"`
	Summary      string  `json:"summary"`
	Description  string  `json:"description"`
	ImageCover   string  `json:"imageCover"`
}

func main() {
	file := flag.String("file", "dev-data/tours.json", "path to the tour fixtures file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(cfg.Server.Env, cfg.Server.LogLevel)

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read fixtures", slog.String("file", *file), slog.Any("error", err))
		os.Exit(1)
	}

	var fixtures []tourFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		logger.Error("failed to parse fixtures", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.Migrate(cfg.Database.DSN()); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	repo := repositories.NewTourRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	imported := 0
	for _, f := range fixtures {
		difficulty, err := models.ParseDifficulty(f.Difficulty)
		if err != nil {
			logger.Warn("skipping fixture", slog.String("name", f.Name), slog.Any("error", err))
			continue
		}

		_, err = repo.Create(ctx, &models.Tour{
			Name:         f.Name,
			Slug:         services.Slugify(f.Name),
			DurationDays: f.DurationDays,
			MaxGroupSize: f.MaxGroupSize,
			Difficulty:   difficulty,
			Price:        f.Price,
			Summary:      f.Summary,
			Description:  f.Description,
			ImageCover:   f.ImageCover,
		})
		if err != nil {
			logger.Warn("failed to import tour", slog.String("name", f.Name), slog.Any("error", err))
			continue
		}
		imported++
	}

	logger.Info("seed completed", slog.Int("imported", imported), slog.Int("total", len(fixtures)))
}
