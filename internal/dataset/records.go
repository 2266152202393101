// internal/dataset/records.go
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Generic records arrive from two places with the same lower-cased column
// names: the bundled CSV samples (string values) and the datastore API
// (strings or JSON numbers). Conversion coerces both.

func toProductionRows(records []map[string]interface{}) ([]ProductionRow, error) {
	rows := make([]ProductionRow, 0, len(records))
	for i, record := range records {
		year, err := intField(record, "year")
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		tonnes, err := floatField(record, "production_tonnes")
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, ProductionRow{
			State:            stringField(record, "state"),
			District:         stringField(record, "district"),
			Crop:             stringField(record, "crop"),
			Year:             year,
			ProductionTonnes: tonnes,
		})
	}
	return rows, nil
}

func toRainfallRows(records []map[string]interface{}) ([]RainfallRow, error) {
	rows := make([]RainfallRow, 0, len(records))
	for i, record := range records {
		year, err := intField(record, "year")
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		mm, err := floatField(record, "annual_rainfall_mm")
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, RainfallRow{
			State:            stringField(record, "state"),
			Year:             year,
			AnnualRainfallMM: mm,
		})
	}
	return rows, nil
}

func stringField(record map[string]interface{}, key string) string {
	if v, ok := record[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func intField(record map[string]interface{}, key string) (int, error) {
	switch v := record[key].(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return n, nil
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("field %q: missing or unsupported type %T", key, v)
	}
}

func floatField(record map[string]interface{}, key string) (float64, error) {
	switch v := record[key].(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return f, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("field %q: missing or unsupported type %T", key, v)
	}
}
