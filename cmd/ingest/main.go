// cmd/ingest/main.go
//
// Ingest fetches the configured datasets, normalizes them and writes
// processed CSV snapshots suitable for offline inspection or as refreshed
// local samples.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"agri-insights/internal/common/config"
	"agri-insights/internal/common/logger"
	"agri-insights/internal/dataset"
)

func main() {
	datasetsFlag := flag.String("datasets", "", "comma-separated dataset names to ingest (default: all configured)")
	outputDir := flag.String("output", "data/processed", "directory for processed CSV output")
	forceRefresh := flag.Bool("force-refresh", false, "bypass the record cache and re-fetch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	names := selectDatasets(*datasetsFlag, cfg)
	if len(names) == 0 {
		zapLog.Fatal("no datasets selected for ingestion")
	}

	ctx := context.Background()
	manager := dataset.NewManager(cfg.Datasets, cfg.App.DataDir, nil, log)

	var loadErr error
	if *forceRefresh {
		loadErr = manager.Refresh(ctx)
	} else {
		loadErr = manager.Load(ctx)
	}
	if loadErr != nil {
		zapLog.Fatal("dataset load failed", zap.Error(loadErr))
	}
	snap := manager.Snapshot()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		zapLog.Fatal("cannot create output directory", zap.Error(err))
	}

	for _, name := range names {
		path := filepath.Join(*outputDir, name+".csv")
		var rows int
		switch name {
		case dataset.NameAgriculture:
			rows, err = writeProductionCSV(path, snap.Production)
		case dataset.NameRainfall:
			rows, err = writeRainfallCSV(path, snap.Rainfall)
		default:
			zapLog.Warn("unknown dataset, skipping", zap.String("dataset", name))
			continue
		}
		if err != nil {
			zapLog.Fatal("write failed", zap.String("dataset", name), zap.Error(err))
		}
		zapLog.Info("dataset written",
			zap.String("dataset", name),
			zap.String("path", path),
			zap.Int("rows", rows),
		)
	}
}

// selectDatasets resolves the -datasets flag against the configuration,
// defaulting to every configured dataset.
func selectDatasets(flagValue string, cfg *config.Config) []string {
	if strings.TrimSpace(flagValue) == "" {
		// Stable order for the two known datasets, extras after.
		var names []string
		for _, known := range []string{dataset.NameAgriculture, dataset.NameRainfall} {
			if _, ok := cfg.Datasets[known]; ok {
				names = append(names, known)
			}
		}
		for name := range cfg.Datasets {
			if name != dataset.NameAgriculture && name != dataset.NameRainfall {
				names = append(names, name)
			}
		}
		return names
	}

	var names []string
	for _, part := range strings.Split(flagValue, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func writeProductionCSV(path string, rows []dataset.ProductionRow) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"state", "district", "crop", "year", "production_tonnes"}); err != nil {
		return 0, err
	}
	for _, row := range rows {
		record := []string{
			row.State,
			row.District,
			row.Crop,
			strconv.Itoa(row.Year),
			strconv.FormatFloat(row.ProductionTonnes, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return 0, err
		}
	}
	w.Flush()
	return len(rows), w.Error()
}

func writeRainfallCSV(path string, rows []dataset.RainfallRow) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"state", "year", "annual_rainfall_mm"}); err != nil {
		return 0, err
	}
	for _, row := range rows {
		record := []string{
			row.State,
			strconv.Itoa(row.Year),
			strconv.FormatFloat(row.AnnualRainfallMM, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return 0, err
		}
	}
	w.Flush()
	return len(rows), w.Error()
}
