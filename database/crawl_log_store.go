// backend/database/crawl_log_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/certihub/backend/models"
)

// maxErrorMessageLen bounds the stored error text so a pathological
// failure message cannot bloat the ledger.
const maxErrorMessageLen = 1000

// CrawlLogStore is the append-only run ledger. Rows are opened as
// running, closed exactly once as success or failed, and never deleted.
type CrawlLogStore struct{}

// Open inserts a new running ledger row for source and returns its id.
func (CrawlLogStore) Open(source string) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	res, err := DB.Exec(`
		INSERT INTO crawl_logs (source, status, method, started_at)
		VALUES (?, ?, ?, NOW())
	`, source, models.CrawlStatusRunning, models.MethodNone)
	if err != nil {
		return 0, fmt.Errorf("failed to open crawl log for %s: %w", source, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read crawl log id for %s: %w", source, err)
	}
	return id, nil
}

// CloseSuccess performs the single terminal transition to success,
// recording the winning method, the merge counters and the duration.
func (CrawlLogStore) CloseSuccess(id int64, method string, stats models.CrawlStats, duration time.Duration) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec(`
		UPDATE crawl_logs
		SET status = ?, method = ?, found = ?, inserted = ?, updated = ?,
		    skipped = ?, duration_sec = ?, finished_at = NOW()
		WHERE id = ? AND status = ?
	`, models.CrawlStatusSuccess, method, stats.Found, stats.Inserted,
		stats.Updated, stats.Skipped, duration.Seconds(), id, models.CrawlStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to close crawl log %d as success: %w", id, err)
	}
	return nil
}

// CloseFailure performs the single terminal transition to failed with a
// truncated error message.
func (CrawlLogStore) CloseFailure(id int64, message string, duration time.Duration) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if len(message) > maxErrorMessageLen {
		message = message[:maxErrorMessageLen]
	}
	_, err := DB.Exec(`
		UPDATE crawl_logs
		SET status = ?, method = ?, error_message = ?, duration_sec = ?,
		    finished_at = NOW()
		WHERE id = ? AND status = ?
	`, models.CrawlStatusFailed, models.MethodFailed, message,
		duration.Seconds(), id, models.CrawlStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to close crawl log %d as failed: %w", id, err)
	}
	return nil
}

// CountRunningCrawls returns the number of currently open ledger rows.
func CountRunningCrawls() (int, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	var count int
	err := DB.QueryRow(`
		SELECT COUNT(id) FROM crawl_logs WHERE status = ?
	`, models.CrawlStatusRunning).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count running crawls: %w", err)
	}
	return count, nil
}

// GetLatestCrawlLog returns the most recently started ledger row, or nil
// when the ledger is empty.
func GetLatestCrawlLog() (*models.CrawlLog, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	row := DB.QueryRow(`
		SELECT id, source, status, method, found, inserted, updated, skipped,
		       duration_sec, error_message, started_at, finished_at
		FROM crawl_logs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`)
	crawlLog, err := scanCrawlLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest crawl log: %w", err)
	}
	return crawlLog, nil
}

// GetLastSuccessBySource returns the newest successful ledger row per
// source in one query.
func GetLastSuccessBySource() (map[string]models.CrawlLog, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT cl.id, cl.source, cl.status, cl.method, cl.found, cl.inserted,
		       cl.updated, cl.skipped, cl.duration_sec, cl.error_message,
		       cl.started_at, cl.finished_at
		FROM crawl_logs cl
		JOIN (
			SELECT source, MAX(finished_at) AS max_finished
			FROM crawl_logs
			WHERE status = ?
			GROUP BY source
		) latest ON cl.source = latest.source AND cl.finished_at = latest.max_finished
		WHERE cl.status = ?
	`, models.CrawlStatusSuccess, models.CrawlStatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to query last success by source: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.CrawlLog)
	for rows.Next() {
		crawlLog, err := scanCrawlLog(rows)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan crawl log row: %v", err)
			continue
		}
		result[crawlLog.Source] = *crawlLog
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating last-success rows: %w", err)
	}
	return result, nil
}

// GetCrawlLogs returns ledger rows newest first, optionally filtered by
// source and/or status, bounded by limit.
func GetCrawlLogs(source, status string, limit int) ([]models.CrawlLog, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, source, status, method, found, inserted, updated, skipped,
		       duration_sec, error_message, started_at, finished_at
		FROM crawl_logs
	`
	var args []interface{}
	var where []string
	if source != "" {
		where = append(where, "source = ?")
		args = append(args, source)
	}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CrawlLog
	for rows.Next() {
		crawlLog, err := scanCrawlLog(rows)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan crawl log row: %v", err)
			continue
		}
		logs = append(logs, *crawlLog)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crawl log rows: %w", err)
	}
	return logs, nil
}

// GetCrawlStats aggregates the whole ledger for the stats endpoint.
func GetCrawlStats() (*models.CrawlStatsResponse, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	var stats models.CrawlStatsResponse
	err := DB.QueryRow(`
		SELECT COUNT(id),
		       COALESCE(SUM(status = 'success'), 0),
		       COALESCE(SUM(status = 'failed'), 0),
		       COALESCE(SUM(CASE WHEN status = 'success' THEN found ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'success' THEN inserted ELSE 0 END), 0)
		FROM crawl_logs
	`).Scan(&stats.TotalRuns, &stats.Success, &stats.Failed, &stats.TotalFound, &stats.TotalInserted)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl stats: %w", err)
	}

	if stats.TotalRuns > 0 {
		rate := float64(stats.Success) / float64(stats.TotalRuns) * 100
		stats.SuccessRate = float64(int(rate*10+0.5)) / 10 // one decimal place
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCrawlLog(row rowScanner) (*models.CrawlLog, error) {
	var cl models.CrawlLog
	var method sql.NullString
	var errMsg sql.NullString
	var finished sql.NullTime

	err := row.Scan(
		&cl.ID, &cl.Source, &cl.Status, &method, &cl.Found, &cl.Inserted,
		&cl.Updated, &cl.Skipped, &cl.DurationSec, &errMsg, &cl.StartedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	if method.Valid {
		cl.Method = method.String
	}
	if errMsg.Valid {
		cl.ErrorMessage = &errMsg.String
	}
	if finished.Valid {
		cl.FinishedAt = &finished.Time
	}
	return &cl, nil
}
