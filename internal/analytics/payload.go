package analytics

import "math"

// Table is one titled block of tabular output. Row cells are positionally
// typed by the headers; a missing numeric cell is nil, never zero.
type Table struct {
	Title   string          `json:"title"`
	Headers []string        `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

// Citation names the dataset a number came from.
type Citation struct {
	Dataset    string `json:"dataset"`
	Source     string `json:"source"`
	ResourceID string `json:"resource_id"`
}

// AnswerPayload is the complete answer to one question: narrative, tables and
// citations. It is built whole or not at all.
type AnswerPayload struct {
	Answer    string     `json:"answer"`
	Tables    []Table    `json:"tables"`
	Citations []Citation `json:"citations"`
}

// Tonnes round to 2 decimals, millimetres to 1.

func roundTonnes(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundMM(v float64) float64 {
	return math.Round(v*10) / 10
}
