// internal/dataset/schema.go
package dataset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "agri-insights/internal/common/errors"
)

// Remote records are validated before use; a dataset whose records drifted
// from the expected shape must fail loudly rather than corrupt the snapshot.

const productionRecordSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"state": {"type": "string", "minLength": 1},
			"district": {"type": "string", "minLength": 1},
			"crop": {"type": "string", "minLength": 1},
			"year": {"type": ["string", "integer"]},
			"production_tonnes": {"type": ["string", "number"]}
		},
		"required": ["state", "district", "crop", "year", "production_tonnes"]
	}
}`

const rainfallRecordSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"state": {"type": "string", "minLength": 1},
			"year": {"type": ["string", "integer"]},
			"annual_rainfall_mm": {"type": ["string", "number"]}
		},
		"required": ["state", "year", "annual_rainfall_mm"]
	}
}`

func schemaFor(name string) (string, bool) {
	switch name {
	case NameAgriculture:
		return productionRecordSchema, true
	case NameRainfall:
		return rainfallRecordSchema, true
	default:
		return "", false
	}
}

// validateRecords checks fetched records against the dataset's JSON schema.
func validateRecords(name string, records []map[string]interface{}) error {
	schema, ok := schemaFor(name)
	if !ok {
		return apperrors.NewUnknownDatasetError(name)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(records),
	)
	if err != nil {
		return apperrors.NewSchemaValidationFailedError(name, err.Error())
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
			if len(details) == 5 {
				details = append(details, "...")
				break
			}
		}
		return apperrors.NewSchemaValidationFailedError(name, strings.Join(details, "; "))
	}

	return nil
}
