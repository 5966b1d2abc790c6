// Package main provides a CLI tool for running a one-shot financial analysis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"ledgerlens/internal/core/period"
	"ledgerlens/internal/domain/analysis"
	"ledgerlens/internal/infrastructure/storage/postgres"
	"ledgerlens/internal/infrastructure/storage/postgres/analysis_repo"
	"ledgerlens/pkg/logger"
)

func main() {
	var (
		company       = flag.String("company", "", "company name (required)")
		year          = flag.Int("year", time.Now().Year(), "fiscal year")
		kind          = flag.String("period", "annual", "period kind: annual, quarterly, monthly")
		number        = flag.String("number", "", "quarter (1-4 or Q1-Q4) or month (1-12) for periodic kinds")
		sections      = flag.String("sections", "", "comma-separated sections (empty = all)")
		forecastYears = flag.Int("forecast-years", 0, "forecast horizon in years")
	)
	flag.Parse()

	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "warn",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if *company == "" {
		log.Fatal("-company is required")
	}

	periodKind, err := period.ParseKind(*kind)
	if err != nil {
		log.Fatalw("invalid period kind", "error", err)
	}

	var raw []string
	if *sections != "" {
		raw = strings.Split(*sections, ",")
	}
	sectionSet, unknown := analysis.ParseSections(raw)
	if len(unknown) > 0 {
		log.Fatalw("unknown sections", "sections", unknown)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	service := analysis.NewService(analysis_repo.NewAnalysisRepo(pool))

	result, err := service.Analyze(ctx, analysis.Request{
		Company:       *company,
		Year:          *year,
		PeriodKind:    periodKind,
		PeriodNumber:  *number,
		Sections:      sectionSet,
		ForecastYears: *forecastYears,
	})
	if err != nil {
		log.Fatalw("analysis failed", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		log.Fatalw("failed to encode result", "error", err)
	}
}
