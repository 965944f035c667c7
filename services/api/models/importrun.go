package models

// Import run statuses as seen by a polling client.
const (
	StatusNotStarted = "not_started"
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// ImportRunState tracks one upload through the import pipeline. The total is
// published before row processing begins so pollers can compute a percentage
// immediately.
type ImportRunState struct {
	TotalRows     int
	ProcessedRows int
	Status        string
}

// ProgressSnapshot is the poller view of an import run.
type ProgressSnapshot struct {
	Status        string `json:"status"`
	TotalRows     int    `json:"total_rows"`
	ProcessedRows int    `json:"processed_rows"`
	Percent       int    `json:"percent"`
}

// DuplicateKey identifies a dive for dedup purposes: location and date match
// exactly, coordinates within tolerance, and the time (when present) exactly.
type DuplicateKey struct {
	Location  string
	Date      string
	Latitude  float64
	Longitude float64
	DiveTime  string
}

// Report is the aggregate outcome of one import run. Success holds both
// imported and skipped-duplicate messages in row order.
type Report struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
	Success  []string `json:"success"`
	Warnings []string `json:"warnings"`
}
