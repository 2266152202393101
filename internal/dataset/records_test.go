package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVRecords(t *testing.T) {
	path := writeTempCSV(t, "State, District ,Crop,Year,Production_Tonnes\n"+
		"Karnataka,Mysuru,Rice,2021,100.5\n"+
		"Maharashtra,Pune,Maize,2022,80\n")

	records, err := readCSVRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Headers are lower-cased and trimmed.
	assert.Equal(t, "Karnataka", records[0]["state"])
	assert.Equal(t, "Mysuru", records[0]["district"])
	assert.Equal(t, "100.5", records[0]["production_tonnes"])
	assert.Equal(t, "2022", records[1]["year"])
}

func TestReadCSVRecords_MissingFile(t *testing.T) {
	_, err := readCSVRecords(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestToProductionRows(t *testing.T) {
	records := []map[string]interface{}{
		{"state": "Karnataka", "district": "Mysuru", "crop": "Rice", "year": "2021", "production_tonnes": "100.5"},
		{"state": "Maharashtra", "district": "Pune", "crop": "Maize", "year": float64(2022), "production_tonnes": float64(80)},
	}

	rows, err := toProductionRows(records)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ProductionRow{State: "Karnataka", District: "Mysuru", Crop: "Rice", Year: 2021, ProductionTonnes: 100.5}, rows[0])
	assert.Equal(t, 2022, rows[1].Year)
	assert.Equal(t, 80.0, rows[1].ProductionTonnes)
}

func TestToProductionRows_BadYear(t *testing.T) {
	records := []map[string]interface{}{
		{"state": "Karnataka", "district": "Mysuru", "crop": "Rice", "year": "twenty21", "production_tonnes": "100"},
	}

	_, err := toProductionRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year")
}

func TestToRainfallRows(t *testing.T) {
	records := []map[string]interface{}{
		{"state": "Kerala", "year": "2021", "annual_rainfall_mm": "2800.4"},
	}

	rows, err := toRainfallRows(records)
	require.NoError(t, err)
	assert.Equal(t, []RainfallRow{{State: "Kerala", Year: 2021, AnnualRainfallMM: 2800.4}}, rows)
}

func TestToRainfallRows_MissingField(t *testing.T) {
	records := []map[string]interface{}{
		{"state": "Kerala", "year": "2021"},
	}

	_, err := toRainfallRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annual_rainfall_mm")
}
