package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/heliomed/nearbycare/internal/config"
	"github.com/heliomed/nearbycare/internal/database"
	"github.com/heliomed/nearbycare/internal/stats"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if err := requirePersistentDB(cfg.DB); err != nil {
		logger.Fatal("Cannot collect statistics", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	logger.Info("Collecting statistics...", zap.String("db_type", string(cfg.DB.Type)))

	collector := stats.NewCollector(db, cfg.DB)

	ctx := context.Background()
	statistics, err := collector.Collect(ctx)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

// requirePersistentDB rejects the in-memory database, which belongs to the server
// process; opening it here would only yield an empty copy
func requirePersistentDB(cfg config.DBConfig) error {
	if cfg.IsMemory() {
		return errors.New("search history lives in the server process for DB_TYPE=memory; " +
			"set DB_TYPE=postgres or query GET /api/v1/stats")
	}
	return nil
}

func printHumanReadable(s *stats.Stats) {
	fmt.Println("=== Search Statistics ===")
	fmt.Printf("Timestamp:        %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Total Searches:   %d\n", s.Searches.Total)
	printCounts("By Status:", s.Searches.ByStatus)
	printCounts("Failures by Kind:", s.Searches.ByErrorKind)
	fmt.Printf("Avg Results:      %.2f\n", s.Searches.AvgResults)
	fmt.Printf("Avg Duration:     %.0fms\n", s.Searches.AvgDurationMs)
	fmt.Printf("Dropped Features: %d\n", s.Searches.DroppedFeatures)
	fmt.Println()

	fmt.Printf("Database:         %s (%s)\n", s.Database.Type, formatBytes(uint64(s.Database.SizeBytes)))
}

func printCounts(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println(title)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
