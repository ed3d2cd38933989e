// backend/services/crawl_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/certihub/backend/cache"
	"github.com/certihub/backend/database"
	"github.com/certihub/backend/models"
	"github.com/certihub/backend/sources"
)

// RunLedger is the append-only execution ledger the orchestrator writes
// to. database.CrawlLogStore is the real implementation.
type RunLedger interface {
	Open(source string) (int64, error)
	CloseSuccess(id int64, method string, stats models.CrawlStats, duration time.Duration) error
	CloseFailure(id int64, message string, duration time.Duration) error
}

// CrawlService orchestrates one acquisition pass: it drives the
// fallback engine and the upsert store for each source in scope,
// sequentially, and regenerates the seed export afterwards.
type CrawlService struct {
	Ledger  RunLedger
	Fetch   func(source string) ([]models.RawRecord, string)
	Persist func(source string, records []models.RawRecord) (models.CrawlStats, error)
	Export  func() (models.SeedSyncResult, error)
}

// NewCrawlService wires the production dependencies: the source
// registry behind the fallback engine, one database transaction per
// source for persistence, and the seed-sync exporter.
func NewCrawlService(snapshots *cache.Store, seedSync *SeedSyncService) *CrawlService {
	return &CrawlService{
		Ledger: database.CrawlLogStore{},
		Fetch: func(name string) ([]models.RawRecord, string) {
			src, err := sources.New(name)
			if err != nil {
				// Scope is validated before Run; an unknown name here is
				// a programming error and handled like any source panic.
				panic(err)
			}
			defer src.Close()
			return sources.FetchWithFallback(src, snapshots)
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			store, err := database.NewTxStore()
			if err != nil {
				return models.CrawlStats{}, err
			}
			defer store.Rollback()
			stats, err := SaveRecords(source, store, records)
			if err != nil {
				return stats, err
			}
			if err := store.Commit(); err != nil {
				return stats, err
			}
			return stats, nil
		},
		Export: seedSync.Sync,
	}
}

// ResolveScope expands a scope token into the source list for one pass.
// "all" (or "") means every registered source; anything else must name a
// registered source.
func ResolveScope(scope string) ([]string, error) {
	if scope == "" || scope == "all" {
		return sources.Names(), nil
	}
	if !sources.IsRegistered(scope) {
		return nil, fmt.Errorf("unknown source %q", scope)
	}
	return []string{scope}, nil
}

// Run executes one acquisition pass over the given sources,
// sequentially and in order. Each source gets its own ledger entry and
// its own persistence transaction; a failure (error or panic) closes
// that entry as failed and the pass moves on, so one source can never
// block its siblings. The seed export runs once, best-effort, strictly
// after the last source closes.
func (s *CrawlService) Run(sourceNames []string) []models.SourceRunSummary {
	log.Printf("Service: Starting crawl pass over %d sources: %v\n", len(sourceNames), sourceNames)

	summaries := make([]models.SourceRunSummary, 0, len(sourceNames))
	for _, name := range sourceNames {
		summaries = append(summaries, s.runOne(name))
	}

	if s.Export != nil {
		result, err := s.Export()
		if err != nil {
			log.Printf("WARN Service: Seed export failed (crawl results are unaffected): %v", err)
		} else {
			log.Printf("Service: Seed export %s: %d events\n", result.Status, result.EventsCount)
		}
	}

	success, failed := 0, 0
	for _, summary := range summaries {
		if summary.Status == models.CrawlStatusSuccess {
			success++
		} else {
			failed++
		}
	}
	log.Printf("Service: Crawl pass complete: %d succeeded, %d failed\n", success, failed)
	return summaries
}

// runOne processes a single source end to end. The recover fence is the
// isolation boundary: whatever goes wrong in the engine or the merge is
// converted into a failed ledger entry for this source only.
func (s *CrawlService) runOne(name string) (summary models.SourceRunSummary) {
	summary = models.SourceRunSummary{Source: name, Method: models.MethodNone}

	logID, err := s.Ledger.Open(name)
	if err != nil {
		log.Printf("ERROR Service: [%s] Could not open ledger entry: %v", name, err)
		summary.Status = models.CrawlStatusFailed
		summary.Error = err.Error()
		return summary
	}

	start := time.Now()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		elapsed := time.Since(start)
		message := fmt.Sprintf("panic: %v", r)
		log.Printf("ERROR Service: [%s] Crawl panicked: %s", name, message)
		if err := s.Ledger.CloseFailure(logID, message, elapsed); err != nil {
			log.Printf("ERROR Service: [%s] Could not close ledger entry: %v", name, err)
		}
		summary.Status = models.CrawlStatusFailed
		summary.Method = models.MethodFailed
		summary.Error = message
		summary.Seconds = elapsed.Seconds()
	}()

	records, method := s.Fetch(name)
	summary.Method = method

	stats, err := s.Persist(name, records)
	elapsed := time.Since(start)
	summary.Seconds = elapsed.Seconds()

	if err != nil {
		log.Printf("ERROR Service: [%s] Crawl failed: %v", name, err)
		if closeErr := s.Ledger.CloseFailure(logID, err.Error(), elapsed); closeErr != nil {
			log.Printf("ERROR Service: [%s] Could not close ledger entry: %v", name, closeErr)
		}
		summary.Status = models.CrawlStatusFailed
		summary.Error = err.Error()
		return summary
	}

	if err := s.Ledger.CloseSuccess(logID, method, stats, elapsed); err != nil {
		log.Printf("ERROR Service: [%s] Could not close ledger entry: %v", name, err)
	}
	summary.Status = models.CrawlStatusSuccess
	summary.Stats = stats
	log.Printf("Service: [%s] Crawl finished via %s in %.1fs\n", name, method, elapsed.Seconds())
	return summary
}
