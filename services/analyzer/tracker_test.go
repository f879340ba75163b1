package analyzer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempTrackingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "tracking", "processed_asns.json")
}

func TestTrackerFilterPartitions(t *testing.T) {
	tracker := NewTracker(tempTrackingFile(t))
	tracker.MarkProcessed("100")
	tracker.MarkProcessed("300")

	newASNs, alreadyDone := tracker.Filter([]string{"300", "200", "100", "400"})
	require.Equal(t, []string{"200", "400"}, newASNs)
	require.Equal(t, []string{"300", "100"}, alreadyDone)

	// partitions are disjoint and cover the input
	union := map[string]bool{}
	for _, a := range append(newASNs, alreadyDone...) {
		require.False(t, union[a])
		union[a] = true
	}
	require.Len(t, union, 4)
}

func TestTrackerMarkIdempotent(t *testing.T) {
	path := tempTrackingFile(t)
	tracker := NewTracker(path)

	tracker.MarkProcessed("65001")
	tracker.MarkProcessed("65001")
	require.NoError(t, tracker.Checkpoint())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var state struct {
		ProcessedASNs  []string `json:"processed_asns"`
		TotalProcessed int      `json:"total_processed"`
	}
	require.NoError(t, json.Unmarshal(raw, &state))
	require.Equal(t, 1, state.TotalProcessed)
	require.Equal(t, []string{"65001"}, state.ProcessedASNs)
}

func TestTrackerResumeAfterReload(t *testing.T) {
	path := tempTrackingFile(t)
	batch := []string{"1", "2", "3", "4"}

	tracker := NewTracker(path)
	tracker.MarkProcessed("2")
	tracker.MarkProcessed("4")
	_, doneBefore := tracker.Filter(batch)
	require.NoError(t, tracker.Checkpoint())

	reloaded := NewTracker(path)
	_, doneAfter := reloaded.Filter(batch)
	require.Equal(t, doneBefore, doneAfter)
}

func TestTrackerReset(t *testing.T) {
	path := tempTrackingFile(t)
	tracker := NewTracker(path)
	tracker.MarkProcessed("65001")
	require.NoError(t, tracker.Checkpoint())

	require.NoError(t, tracker.Reset())
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	newASNs, alreadyDone := tracker.Filter([]string{"65001"})
	require.Equal(t, []string{"65001"}, newASNs)
	require.Empty(t, alreadyDone)

	// resetting again with no file is fine
	require.NoError(t, tracker.Reset())
}

func TestTrackerCorruptFileStartsFresh(t *testing.T) {
	path := tempTrackingFile(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tracker := NewTracker(path)
	require.Equal(t, 0, tracker.Stats().TotalProcessed)
}

func TestBatchFilename(t *testing.T) {
	name := filepath.Base(BatchFilename("data/output"))
	require.Regexp(t, regexp.MustCompile(`^asn_results_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.json$`), name)
	require.Equal(t, "data/output", filepath.Dir(BatchFilename("data/output")))
}
