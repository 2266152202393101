// test/e2e/e2e_test.go
//
// Full-stack tests: real HTTP server, real CSV samples, Redis-backed record
// cache via miniredis. Every question intent goes through the wire.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-insights/internal/common/config"
	"agri-insights/internal/common/logger"
	"agri-insights/internal/common/observability"
	"agri-insights/internal/dataset"
	"agri-insights/internal/server"
)

// ==========================
// Fixtures
// ==========================

const agriCSV = `state,district,crop,year,production_tonnes
Karnataka,Mandya,Rice,2018,41250
Karnataka,Mandya,Rice,2019,43980
Karnataka,Mandya,Rice,2020,45110
Karnataka,Mandya,Rice,2021,46890
Karnataka,Mandya,Rice,2022,48200
Karnataka,Belagavi,Maize,2021,33240
Karnataka,Belagavi,Maize,2022,34010
Karnataka,Davangere,Maize,2021,29055
Karnataka,Davangere,Maize,2022,30120
Karnataka,Kalaburagi,Millet,2021,13120
Karnataka,Kalaburagi,Millet,2022,13890
Karnataka,Mandya,Sugarcane,2021,144890
Karnataka,Mandya,Sugarcane,2022,141300
Maharashtra,Pune,Sugarcane,2021,183750
Maharashtra,Pune,Sugarcane,2022,180100
Maharashtra,Aurangabad,Maize,2021,24810
Maharashtra,Aurangabad,Maize,2022,25630
Maharashtra,Nagpur,Rice,2021,20540
Maharashtra,Nagpur,Rice,2022,21115
Punjab,Ludhiana,Wheat,2018,98500
Punjab,Ludhiana,Wheat,2019,101200
Punjab,Ludhiana,Wheat,2020,103850
Punjab,Ludhiana,Wheat,2021,106420
Punjab,Ludhiana,Wheat,2022,108900
`

const rainCSV = `state,year,annual_rainfall_mm
Karnataka,2018,1182.4
Karnataka,2019,1340.8
Karnataka,2020,1266.2
Karnataka,2021,1301.5
Karnataka,2022,1248.9
Maharashtra,2021,1098.2
Maharashtra,2022,1056.4
Punjab,2018,548.3
Punjab,2019,612.7
Punjab,2020,586.4
Punjab,2021,634.9
Punjab,2022,601.2
`

type askResponse struct {
	Answer string `json:"answer"`
	Tables []struct {
		Title   string          `json:"title"`
		Headers []string        `json:"headers"`
		Rows    [][]interface{} `json:"rows"`
	} `json:"tables"`
	Citations []struct {
		Dataset    string `json:"dataset"`
		Source     string `json:"source"`
		ResourceID string `json:"resource_id"`
	} `json:"citations"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ==========================
// Helpers
// ==========================

func startServer(t *testing.T) (*httptest.Server, *dataset.Manager) {
	t.Helper()

	dir := t.TempDir()
	agriPath := filepath.Join(dir, "agriculture.csv")
	rainPath := filepath.Join(dir, "rainfall.csv")
	require.NoError(t, os.WriteFile(agriPath, []byte(agriCSV), 0o644))
	require.NoError(t, os.WriteFile(rainPath, []byte(rainCSV), 0o644))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := dataset.NewCacheWithClient(client, time.Minute)

	cfg := &config.Config{
		Datasets: map[string]config.DatasetConfig{
			dataset.NameAgriculture: {
				ResourceID:  "agri-e2e",
				SourceURL:   "https://data.gov.in/resource/crop-production",
				LocalSample: agriPath,
			},
			dataset.NameRainfall: {
				ResourceID:  "rain-e2e",
				SourceURL:   "https://data.gov.in/resource/rainfall",
				LocalSample: rainPath,
			},
		},
	}

	log := logger.NewTestLogger(t)
	manager := dataset.NewManager(cfg.Datasets, dir, cache, log)
	require.NoError(t, manager.Load(context.Background()))

	obs := observability.New("agri-insights-e2e")
	srv := httptest.NewServer(server.New(cfg, manager, obs, log).Router())
	t.Cleanup(srv.Close)

	return srv, manager
}

func ask(t *testing.T, srv *httptest.Server, question string) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"question": question})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/ask", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

// ==========================
// Tests
// ==========================

func TestE2E_Health(t *testing.T) {
	srv, _ := startServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["snapshotLoadedAt"])
}

func TestE2E_CompareRainfallCrops(t *testing.T) {
	srv, _ := startServer(t)

	status, raw := ask(t, srv, "Compare the average annual rainfall between Karnataka and Maharashtra for the last 5 years. List the top 3 most produced crops of Maize in each of those states during the same period.")
	require.Equal(t, http.StatusOK, status, string(raw))

	var body askResponse
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Contains(t, body.Answer, "Karnataka averaged")
	assert.Contains(t, body.Answer, "Maharashtra averaged")
	require.Len(t, body.Tables, 2)
	assert.Equal(t, "Average annual rainfall (mm)", body.Tables[0].Title)
	assert.Equal(t, []string{"Year", "Karnataka", "Maharashtra"}, body.Tables[0].Headers)
	require.Len(t, body.Citations, 2)
	assert.Equal(t, "rain-e2e", body.Citations[0].ResourceID)
	assert.Equal(t, "agri-e2e", body.Citations[1].ResourceID)
}

func TestE2E_DistrictExtremes(t *testing.T) {
	srv, _ := startServer(t)

	status, raw := ask(t, srv, "Which districts in Karnataka and Maharashtra had the highest and lowest production of Maize in 2022?")
	require.Equal(t, http.StatusOK, status, string(raw))

	var body askResponse
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Contains(t, body.Answer, "Belagavi")
	require.Len(t, body.Tables, 1)
	assert.Equal(t, "District extremes for Maize in 2022", body.Tables[0].Title)
	require.Len(t, body.Citations, 1)
	assert.Equal(t, "agri-e2e", body.Citations[0].ResourceID)
}

func TestE2E_ProductionTrend(t *testing.T) {
	srv, _ := startServer(t)

	status, raw := ask(t, srv, "Show the production trend of Wheat in Punjab over the last 10 years and correlate it with rainfall.")
	require.Equal(t, http.StatusOK, status, string(raw))

	var body askResponse
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Contains(t, body.Answer, "Punjab recorded")
	assert.Contains(t, body.Answer, "Rainfall correlation")
	require.Len(t, body.Tables, 1)
	assert.Equal(t, []string{"Year", "Production (tonnes)", "Rainfall (mm)"}, body.Tables[0].Headers)
	assert.Len(t, body.Tables[0].Rows, 5)
}

func TestE2E_PolicyArguments(t *testing.T) {
	srv, _ := startServer(t)

	status, raw := ask(t, srv, "Should we promote millet over sugarcane in Karnataka? Give policy arguments using climate data.")
	require.Equal(t, http.StatusOK, status, string(raw))

	var body askResponse
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Contains(t, body.Answer, "Supporting a shift towards Millet")
	require.NotEmpty(t, body.Tables)
	require.Len(t, body.Citations, 2)
}

func TestE2E_ErrorContract(t *testing.T) {
	srv, _ := startServer(t)

	tests := []struct {
		name       string
		question   string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unresolved state",
			question:   "Compare the average annual rainfall between Atlantis and Maharashtra for the last 5 years. List the top 3 most produced crops of Maize in each of those states during the same period.",
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNRESOLVED_ENTITY",
		},
		{
			name:       "unrecognized question",
			question:   "what is the meaning of life",
			wantStatus: http.StatusBadRequest,
			wantCode:   "MALFORMED_QUESTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := ask(t, srv, tt.question)
			assert.Equal(t, tt.wantStatus, status)

			var body errorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestE2E_RefreshPublishesNewSnapshot(t *testing.T) {
	srv, manager := startServer(t)

	before := manager.Snapshot()

	resp, err := http.Post(srv.URL+"/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "reloaded", body["status"])

	after := manager.Snapshot()
	require.NotSame(t, before, after)
	assert.Equal(t, len(before.Production), len(after.Production))
}
