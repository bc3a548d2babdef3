package searchindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is an immutable view of the search index handed to the matcher for
// the duration of one request. Concurrent readers may share one snapshot.
type Snapshot struct {
	Records   []Record
	RebuiltAt time.Time
}

// CountsByCategory tallies records per category label.
func (s *Snapshot) CountsByCategory() map[string]int {
	counts := make(map[string]int)
	for _, record := range s.Records {
		counts[record.Category]++
	}
	return counts
}

// ExportJSON writes the snapshot's records as a JSON array, matching the
// legacy search_index.json layout consumed by external tooling.
func (s *Snapshot) ExportJSON(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.Records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode search index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write search index export: %w", err)
	}
	return nil
}
