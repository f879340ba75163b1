package analyzer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Tracker remembers which ASNs have already been processed across runs.
// State lives in memory and is flushed to a JSON file on Checkpoint; the
// file path is given explicitly at construction.
type Tracker struct {
	path      string
	processed map[string]struct{}
}

type trackingFile struct {
	ProcessedASNs  []string  `json:"processed_asns"`
	LastUpdated    time.Time `json:"last_updated"`
	TotalProcessed int       `json:"total_processed"`
}

// NewTracker loads persisted state from path. A missing or corrupt file is
// not fatal: the tracker starts empty.
func NewTracker(path string) *Tracker {
	t := &Tracker{
		path:      path,
		processed: map[string]struct{}{},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t
	}
	if err != nil {
		slog.Warn("could not read tracking file, starting fresh", "path", path, "err", err)
		return t
	}

	var state trackingFile
	if err := json.Unmarshal(raw, &state); err != nil {
		slog.Warn("tracking file is corrupt, starting fresh", "path", path, "err", err)
		return t
	}
	for _, asn := range state.ProcessedASNs {
		t.processed[asn] = struct{}{}
	}
	return t
}

// Filter partitions the requested ASNs into not-yet-processed and
// already-processed, preserving the original relative order of each.
func (t *Tracker) Filter(requested []string) (newASNs, alreadyDone []string) {
	for _, asn := range requested {
		if _, ok := t.processed[asn]; ok {
			alreadyDone = append(alreadyDone, asn)
		} else {
			newASNs = append(newASNs, asn)
		}
	}
	return newASNs, alreadyDone
}

// MarkProcessed is idempotent and touches memory only; call Checkpoint to
// persist.
func (t *Tracker) MarkProcessed(asn string) {
	t.processed[asn] = struct{}{}
}

func (t *Tracker) Contains(asn string) bool {
	_, ok := t.processed[asn]
	return ok
}

// Checkpoint writes the full in-memory set to disk, creating the parent
// directory when needed.
func (t *Tracker) Checkpoint() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create tracking directory: %w", err)
	}

	state := trackingFile{
		ProcessedASNs:  t.sorted(),
		LastUpdated:    time.Now(),
		TotalProcessed: len(t.processed),
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.path, raw, 0o644); err != nil {
		return fmt.Errorf("write tracking file: %w", err)
	}
	return nil
}

// Reset clears the in-memory set and deletes the persisted file if present.
func (t *Tracker) Reset() error {
	t.processed = map[string]struct{}{}
	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type TrackerStats struct {
	TotalProcessed int
	ProcessedASNs  []string
	TrackingFile   string
}

func (t *Tracker) Stats() TrackerStats {
	return TrackerStats{
		TotalProcessed: len(t.processed),
		ProcessedASNs:  t.sorted(),
		TrackingFile:   t.path,
	}
}

func (t *Tracker) sorted() []string {
	asns := make([]string, 0, len(t.processed))
	for asn := range t.processed {
		asns = append(asns, asn)
	}
	sort.Strings(asns)
	return asns
}

// BatchFilename produces a timestamped report path inside dir so repeated
// runs never collide.
func BatchFilename(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("asn_results_%s.json", timestamp))
}
