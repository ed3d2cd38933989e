// backend/models/api_models.go
package models

import "time"

// SourceLastSuccess is the per-source slice of the crawl status response.
type SourceLastSuccess struct {
	LastSuccess *time.Time `json:"last_success"`
	Method      string     `json:"method,omitempty"`
	Found       int        `json:"found,omitempty"`
	Inserted    int        `json:"inserted,omitempty"`
	Updated     int        `json:"updated,omitempty"`
}

// CrawlStatusResponse summarizes the crawl subsystem for dashboards.
type CrawlStatusResponse struct {
	IsRunning     bool                         `json:"is_running"`
	LastRun       *time.Time                   `json:"last_run"`
	LastStatus    string                       `json:"last_status,omitempty"`
	NextScheduled *time.Time                   `json:"next_scheduled"`
	Sources       map[string]SourceLastSuccess `json:"sources"`
}

// CrawlStatsResponse aggregates the full ledger history.
type CrawlStatsResponse struct {
	TotalRuns     int     `json:"total_runs"`
	Success       int     `json:"success"`
	Failed        int     `json:"failed"`
	SuccessRate   float64 `json:"success_rate"`
	TotalFound    int     `json:"total_found"`
	TotalInserted int     `json:"total_inserted"`
}

// SeedSyncResult reports one export-sync pass. Status is "success" or
// "skipped" (empty projection, previous artifact left untouched).
type SeedSyncResult struct {
	Status      string `json:"status"`
	EventsCount int    `json:"events_count"`
	FilePath    string `json:"file_path"`
}
