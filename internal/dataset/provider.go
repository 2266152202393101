// internal/dataset/provider.go
package dataset

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"agri-insights/internal/common/config"
	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/common/logger"
)

// Manager loads both datasets and publishes immutable snapshots. Readers call
// Snapshot() and keep the pointer for the duration of a request; Refresh
// builds a fresh snapshot and swaps it atomically, so no reader ever observes
// a half-updated dataset.
type Manager struct {
	datasets map[string]config.DatasetConfig
	dataDir  string
	cache    *Cache
	fetcher  *fetcher
	logger   logger.Logger

	snapshot atomic.Pointer[Snapshot]
}

// NewManager wires a Manager; cache may be nil when Redis is disabled.
func NewManager(datasets map[string]config.DatasetConfig, dataDir string, cache *Cache, log logger.Logger) *Manager {
	return &Manager{
		datasets: datasets,
		dataDir:  dataDir,
		cache:    cache,
		fetcher:  newFetcher(30 * time.Second),
		logger:   log.WithFields(map[string]interface{}{"component": "dataset"}),
	}
}

// Load builds the initial snapshot. It must succeed before the service
// answers questions.
func (m *Manager) Load(ctx context.Context) error {
	return m.reload(ctx, false)
}

// Refresh re-fetches both datasets, bypassing the record cache, and swaps in
// the new snapshot.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.reload(ctx, true)
}

// Snapshot returns the current immutable snapshot. Safe for concurrent use.
func (m *Manager) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

// Metadata returns citation info for a dataset name.
func (m *Manager) Metadata(name string) (Metadata, error) {
	cfg, ok := m.datasets[name]
	if !ok {
		return Metadata{}, apperrors.NewUnknownDatasetError(name)
	}
	return Metadata{SourceURL: cfg.SourceURL, ResourceID: cfg.ResourceID}, nil
}

func (m *Manager) reload(ctx context.Context, force bool) error {
	prodRecords, err := m.loadRecords(ctx, NameAgriculture, force)
	if err != nil {
		return apperrors.NewDatasetUnavailableError(NameAgriculture, err)
	}
	rainRecords, err := m.loadRecords(ctx, NameRainfall, force)
	if err != nil {
		return apperrors.NewDatasetUnavailableError(NameRainfall, err)
	}

	production, err := toProductionRows(prodRecords)
	if err != nil {
		return apperrors.NewDatasetUnavailableError(NameAgriculture, err)
	}
	rainfall, err := toRainfallRows(rainRecords)
	if err != nil {
		return apperrors.NewDatasetUnavailableError(NameRainfall, err)
	}

	meta := make(map[string]Metadata, len(m.datasets))
	for name, cfg := range m.datasets {
		meta[name] = Metadata{SourceURL: cfg.SourceURL, ResourceID: cfg.ResourceID}
	}

	snap := NewSnapshot(production, rainfall, meta)
	m.snapshot.Store(snap)

	m.logger.Info("snapshot published", map[string]interface{}{
		"productionRows": len(snap.Production),
		"rainfallRows":   len(snap.Rainfall),
		"states":         len(snap.ProductionStates),
		"crops":          len(snap.Crops),
	})

	return nil
}

// loadRecords resolves one dataset's raw records: cache, then remote API,
// then the bundled local sample as the last resort.
func (m *Manager) loadRecords(ctx context.Context, name string, force bool) ([]map[string]interface{}, error) {
	cfg, ok := m.datasets[name]
	if !ok {
		return nil, apperrors.NewUnknownDatasetError(name)
	}

	if m.cache != nil && !force {
		if records, hit := m.cache.GetRecords(ctx, cfg.ResourceID); hit {
			m.logger.Debug("records served from cache", map[string]interface{}{
				"dataset": name,
				"records": len(records),
			})
			return records, nil
		}
	}

	if cfg.FetchAPIKey != "" {
		records, err := m.fetchRemote(ctx, name, cfg)
		if err == nil {
			return records, nil
		}
		m.logger.Warn("remote fetch failed, falling back to local sample", map[string]interface{}{
			"dataset": name,
			"error":   err.Error(),
		})
	}

	records, err := readCSVRecords(cfg.LocalSample)
	if err != nil {
		return nil, fmt.Errorf("local sample fallback: %w", err)
	}
	return records, nil
}

func (m *Manager) fetchRemote(ctx context.Context, name string, cfg config.DatasetConfig) ([]map[string]interface{}, error) {
	records, err := m.fetcher.fetch(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := validateRecords(name, records); err != nil {
		return nil, err
	}

	if path, err := writeRawSnapshot(m.dataDir, cfg.ResourceID, records); err != nil {
		m.logger.Warn("raw snapshot write failed", map[string]interface{}{
			"dataset": name,
			"error":   err.Error(),
		})
	} else {
		m.logger.Info("raw snapshot written", map[string]interface{}{
			"dataset": name,
			"path":    path,
		})
	}

	if m.cache != nil {
		if err := m.cache.SetRecords(ctx, cfg.ResourceID, records); err != nil {
			m.logger.Warn("record cache write failed", map[string]interface{}{
				"dataset": name,
				"error":   err.Error(),
			})
		}
	}

	return records, nil
}
