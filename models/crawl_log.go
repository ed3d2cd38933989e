// backend/models/crawl_log.go
package models

import "time"

// Crawl run statuses. A row is created as running and transitions exactly
// once to success or failed; it is never reopened or deleted.
const (
	CrawlStatusRunning = "running"
	CrawlStatusSuccess = "success"
	CrawlStatusFailed  = "failed"
)

// Acquisition methods, in decreasing order of trust/freshness.
const (
	MethodAPI      = "api"
	MethodScraping = "scraping"
	MethodCache    = "cache"
	MethodFailed   = "failed"
	MethodNone     = "none"
)

// CrawlStats are the per-run merge counters. Every record handed to the
// upsert store counts toward Found; its outcome rolls into exactly one of
// Inserted, Updated or Skipped.
type CrawlStats struct {
	Found    int `json:"found"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// CrawlLog is one ledger entry: a single acquisition attempt for a single
// source. The ledger is the system of record for run health; it is never
// reconstructed from other state.
type CrawlLog struct {
	ID           int64      `db:"id" json:"id"`
	Source       string     `db:"source" json:"source"`
	Status       string     `db:"status" json:"status"`
	Method       string     `db:"method" json:"method,omitempty"`
	Found        int        `db:"found" json:"found"`
	Inserted     int        `db:"inserted" json:"inserted"`
	Updated      int        `db:"updated" json:"updated"`
	Skipped      int        `db:"skipped" json:"skipped"`
	DurationSec  float64    `db:"duration_sec" json:"duration_sec"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	FinishedAt   *time.Time `db:"finished_at" json:"finished_at,omitempty"`
}

// SourceRunSummary is the orchestrator's per-source result, returned to
// callers for reporting and for the overall success/failure signal.
type SourceRunSummary struct {
	Source  string     `json:"source"`
	Status  string     `json:"status"`
	Method  string     `json:"method"`
	Stats   CrawlStats `json:"stats"`
	Seconds float64    `json:"time"`
	Error   string     `json:"error,omitempty"`
}
