package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"familycoach/internal/analytics"
	"familycoach/internal/config"
	"familycoach/internal/database"
	"familycoach/internal/logger"
	"familycoach/internal/models"
	"familycoach/internal/repository"
	"familycoach/internal/validation"
)

func main() {
	// Define subcommands
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	analyticsCmd := flag.NewFlagSet("analytics", flag.ExitOnError)

	// Analytics flags
	familyID := analyticsCmd.String("family", "", "Family ID (required)")
	childID := analyticsCmd.String("child", "", "Child ID (default: every child in the family)")
	timeframe := analyticsCmd.String("timeframe", "month", "Timeframe: week, month or quarter")
	output := analyticsCmd.String("output", "", "Output file path (default: stdout)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch os.Args[1] {
	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		db := openDatabase(cfg, log)
		defer db.Close()
		handleMigrate(db, log)

	case "analytics":
		analyticsCmd.Parse(os.Args[2:])
		if err := validation.ValidateID("family", *familyID); err != nil {
			fmt.Printf("Error: %v\n", err)
			analyticsCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := validation.ValidateOptionalID("child", *childID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := validation.ValidateTimeframe(*timeframe); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		db := openDatabase(cfg, log)
		defer db.Close()
		handleAnalytics(db, log, *familyID, *childID, models.Timeframe(*timeframe), *output)

	default:
		printUsage()
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config, log *logger.Logger) *database.DB {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	return db
}

func handleMigrate(db *database.DB, log *logger.Logger) {
	applied, err := db.RunMigrations(context.Background())
	if err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	if len(applied) == 0 {
		log.Info("Schema is up to date")
		return
	}
	for _, name := range applied {
		log.Info("Applied migration", "file", name)
	}
}

func handleAnalytics(db *database.DB, log *logger.Logger, familyID, childID string, timeframe models.Timeframe, outputPath string) {
	ctx := context.Background()
	patterns := repository.NewPatternRepository(db)

	events, err := patterns.ListEvents(ctx, familyID, childID, analytics.TimeframeStart(timeframe, database.Now()))
	if err != nil {
		log.Fatal("Failed to load pattern events", "error", err)
	}

	report := analytics.ComputePatternAnalytics(events, timeframe)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode analytics", "error", err)
	}

	if outputPath == "" {
		fmt.Println(string(data))
		return
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create output directory", "error", err)
		}
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
		log.Fatal("Failed to write analytics", "error", err)
	}
	log.Info("Analytics written", "file", outputPath, "events", report.TotalEvents)
}

func printUsage() {
	fmt.Println("Family Coach Operator Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  coachctl migrate                Apply pending database migrations")
	fmt.Println("  coachctl analytics [options]    Compute pattern analytics as JSON")
	fmt.Println()
	fmt.Println("Analytics Options:")
	fmt.Println("  -family <id>       Family ID (required)")
	fmt.Println("  -child <id>        Limit to one child")
	fmt.Println("  -timeframe <tf>    week, month or quarter (default: month)")
	fmt.Println("  -output <file>     Output file path (default: stdout)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  coachctl migrate")
	fmt.Println("  coachctl analytics -family 0b1e5a4e-6c1a-4a53-9c1e-1d2f3a4b5c6d -timeframe week")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./familycoach.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
