package models

// ImportError describes one rejected line of a bulk import
type ImportError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk import run
type ImportResult struct {
	TotalRecords int           `json:"total_records"`
	Imported     int           `json:"imported"`
	Failed       int           `json:"failed"`
	DurationMS   int64         `json:"duration_ms"`
	Errors       []ImportError `json:"errors"`
}
