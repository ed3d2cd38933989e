// backend/services/upsert_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/certihub/backend/models"
)

// ScheduleStore is the slice of the persistence layer the merge needs.
// database.TxStore implements it over one per-source transaction.
type ScheduleStore interface {
	FindCertificateID(name string) (string, error)
	FindCertificateIDByKeyword(keyword string) (string, error)
	UpsertSchedule(certID string, round int, regStart, regEnd, examDate, resultDate *time.Time) (string, error)
	UpdateCertificateOfficialURL(certID, url string) error
}

// SaveRecords merges a batch of raw records into the durable dataset and
// returns the roll-up counters.
//
// Resolution is exact name match first, then case-insensitive substring;
// an unresolved record is counted as skipped and dropped; this pipeline
// never invents certificates. Round-based records upsert schedule rows
// keyed on (certificate, round); always-open records (round 0) update the
// certificate's official URL instead, gated on an "active" status and a
// non-empty URL.
func SaveRecords(source string, store ScheduleStore, records []models.RawRecord) (models.CrawlStats, error) {
	var stats models.CrawlStats

	for _, record := range records {
		if record.CertName == "" {
			continue
		}

		stats.Found++

		certID, err := store.FindCertificateID(record.CertName)
		if err != nil {
			return stats, fmt.Errorf("certificate lookup failed for %q: %w", record.CertName, err)
		}
		if certID == "" {
			certID, err = store.FindCertificateIDByKeyword(record.CertName)
			if err != nil {
				return stats, fmt.Errorf("certificate keyword lookup failed for %q: %w", record.CertName, err)
			}
		}
		if certID == "" {
			log.Printf("WARN Service: [%s] No certificate matches %q, skipping record", source, record.CertName)
			stats.Skipped++
			continue
		}

		if record.AlwaysOpen() {
			// Metadata-only record: vendor certs with no exam rounds.
			// A non-active status never clears a stored URL; the last
			// known good value stands, same reasoning as the cache tier.
			if record.Status == "active" && record.OfficialURL != "" {
				if err := store.UpdateCertificateOfficialURL(certID, record.OfficialURL); err != nil {
					return stats, fmt.Errorf("official URL update failed for %q: %w", record.CertName, err)
				}
				stats.Updated++
			} else {
				stats.Skipped++
			}
			continue
		}

		outcome, err := store.UpsertSchedule(
			certID,
			record.Round,
			ParseScheduleDate(record.RegStart),
			ParseScheduleDate(record.RegEnd),
			ParseScheduleDate(record.ExamDate),
			ParseScheduleDate(record.ResultDate),
		)
		if err != nil {
			return stats, fmt.Errorf("schedule upsert failed for %q round %d: %w", record.CertName, record.Round, err)
		}
		switch outcome {
		case "inserted":
			stats.Inserted++
		case "updated":
			stats.Updated++
		}
	}

	log.Printf("Service: [%s] Merge complete: found %d, inserted %d, updated %d, skipped %d\n",
		source, stats.Found, stats.Inserted, stats.Updated, stats.Skipped)
	return stats, nil
}
