// internal/dataset/remote.go
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"agri-insights/internal/common/config"
	apperrors "agri-insights/internal/common/errors"
)

// fetcher pulls a full resource from the datastore_search API, page by page.
type fetcher struct {
	client *http.Client
}

const defaultPageSize = 2000

func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

type datastoreResponse struct {
	Result struct {
		Records []map[string]interface{} `json:"records"`
	} `json:"result"`
}

// fetch pages through the resource until a short page signals the end.
func (f *fetcher) fetch(ctx context.Context, cfg config.DatasetConfig) ([]map[string]interface{}, error) {
	if cfg.ResourceID == "" {
		return nil, fmt.Errorf("missing resource_id for remote fetch")
	}

	var records []map[string]interface{}
	limit := cfg.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	offset := 0

	for {
		batch, err := f.fetchPage(ctx, cfg, limit, offset)
		if err != nil {
			return nil, apperrors.NewRemoteFetchFailedError(cfg.ResourceID, err)
		}
		records = append(records, batch...)
		offset += limit
		if len(batch) < limit {
			break
		}
	}

	if len(records) == 0 {
		return nil, apperrors.NewRemoteFetchFailedError(cfg.ResourceID, fmt.Errorf("no records returned from API"))
	}

	return records, nil
}

func (f *fetcher) fetchPage(ctx context.Context, cfg config.DatasetConfig, limit, offset int) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Set("resource_id", cfg.ResourceID)
	params.Set("api-key", cfg.FetchAPIKey)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload datastoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload.Result.Records, nil
}

// writeRawSnapshot persists the fetched payload under
// <dataDir>/raw/<resource_id>/<timestamp>.json for auditability.
func writeRawSnapshot(dataDir, resourceID string, records []map[string]interface{}) (string, error) {
	dir := filepath.Join(dataDir, "raw", resourceID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102150405")
	path := filepath.Join(dir, timestamp+".json")

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}
