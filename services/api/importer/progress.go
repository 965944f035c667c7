package importer

import (
	"math"
	"sync"

	"github.com/seabook/divelog/services/api/models"
)

// ProgressStore keeps per-run import progress, read by the polling status
// endpoint while the import request itself is still blocked processing rows.
// Reads and writes exchange whole snapshots under a single lock.
type ProgressStore struct {
	mu   sync.Mutex
	runs map[string]*runProgress
}

type runProgress struct {
	state    models.ImportRunState
	seenDone bool
}

// NewProgressStore creates an empty store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{runs: make(map[string]*runProgress)}
}

// Start registers a run before its row total is known.
func (p *ProgressStore) Start(runID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs[runID] = &runProgress{state: models.ImportRunState{Status: models.StatusStarting}}
}

// SetTotal publishes the pre-counted row total and moves the run to
// processing, so pollers can compute a percentage immediately.
func (p *ProgressStore) SetTotal(runID string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.runs[runID]; ok {
		r.state.TotalRows = total
		r.state.Status = models.StatusProcessing
	}
}

// Advance records the number of rows processed so far.
func (p *ProgressStore) Advance(runID string, processed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.runs[runID]; ok {
		r.state.ProcessedRows = processed
	}
}

// Complete marks a run finished.
func (p *ProgressStore) Complete(runID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.runs[runID]; ok {
		r.state.Status = models.StatusCompleted
	}
}

// Snapshot returns the poller view of a run. A completed run survives exactly
// one snapshot: the first read reports completed, the second clears the run
// and reports not_started. An async poller is therefore guaranteed to observe
// the final completed state exactly once before the run resets.
func (p *ProgressStore) Snapshot(runID string) models.ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.runs[runID]
	if !ok {
		return models.ProgressSnapshot{Status: models.StatusNotStarted}
	}

	if r.state.Status == models.StatusCompleted && r.state.ProcessedRows >= r.state.TotalRows {
		if r.seenDone {
			delete(p.runs, runID)
			return models.ProgressSnapshot{Status: models.StatusNotStarted}
		}
		r.seenDone = true
	}

	snap := models.ProgressSnapshot{
		Status:        r.state.Status,
		TotalRows:     r.state.TotalRows,
		ProcessedRows: r.state.ProcessedRows,
	}
	if r.state.TotalRows > 0 {
		snap.Percent = int(math.Round(float64(r.state.ProcessedRows) / float64(r.state.TotalRows) * 100))
	}
	return snap
}
