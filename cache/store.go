// backend/cache/store.go
package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/certihub/backend/models"
)

// Snapshot is the on-disk payload: the last records successfully
// collected by a live tier for one source.
type Snapshot struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Source    string             `json:"source"`
	Count     int                `json:"count"`
	Records   []models.RawRecord `json:"records"`
}

// Store keeps one snapshot file per source under Dir. Snapshots are
// overwritten only when a live tier succeeds and are never deleted, so
// the cache tier can keep answering through total outages.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(source string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_schedules.json", source))
}

// Save writes a new snapshot for source. Failures are logged and
// swallowed: a broken cache write must not fail a successful collection.
func (s *Store) Save(source string, records []models.RawRecord) {
	if err := s.save(source, records); err != nil {
		log.Printf("WARN Cache: Failed to save snapshot for %s: %v", source, err)
		return
	}
	log.Printf("Cache: Saved snapshot for %s (%d records) to %s\n", source, len(records), s.path(source))
}

func (s *Store) save(source string, records []models.RawRecord) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.Dir, err)
	}

	snapshot := Snapshot{
		FetchedAt: time.Now().UTC(),
		Source:    source,
		Count:     len(records),
		Records:   records,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", source, err)
	}
	if err := os.WriteFile(s.path(source), payload, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file for %s: %w", source, err)
	}
	return nil
}

// Load returns the last-good records for source. A missing or corrupt
// snapshot yields an empty slice, never an error: the caller treats
// both the same as "no cache available".
func (s *Store) Load(source string) []models.RawRecord {
	path := s.path(source)

	payload, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN Cache: Failed to read snapshot for %s: %v", source, err)
		} else {
			log.Printf("Cache: No snapshot file for %s (%s)\n", source, path)
		}
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		log.Printf("WARN Cache: Failed to decode snapshot for %s: %v", source, err)
		return nil
	}

	log.Printf("Cache: Loaded snapshot for %s: %d records (fetched at %s)\n",
		source, len(snapshot.Records), snapshot.FetchedAt.Format(time.RFC3339))
	return snapshot.Records
}
