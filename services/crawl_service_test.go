// backend/services/crawl_service_test.go
package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/certihub/backend/models"
)

type ledgerEntry struct {
	source  string
	status  string
	method  string
	message string
	stats   models.CrawlStats
}

// fakeLedger records open/close transitions in memory.
type fakeLedger struct {
	nextID  int64
	entries map[int64]*ledgerEntry
	order   []int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[int64]*ledgerEntry)}
}

func (f *fakeLedger) Open(source string) (int64, error) {
	f.nextID++
	f.entries[f.nextID] = &ledgerEntry{source: source, status: models.CrawlStatusRunning}
	f.order = append(f.order, f.nextID)
	return f.nextID, nil
}

func (f *fakeLedger) CloseSuccess(id int64, method string, stats models.CrawlStats, duration time.Duration) error {
	entry := f.entries[id]
	if entry.status != models.CrawlStatusRunning {
		return errors.New("ledger entry already closed")
	}
	entry.status = models.CrawlStatusSuccess
	entry.method = method
	entry.stats = stats
	return nil
}

func (f *fakeLedger) CloseFailure(id int64, message string, duration time.Duration) error {
	entry := f.entries[id]
	if entry.status != models.CrawlStatusRunning {
		return errors.New("ledger entry already closed")
	}
	entry.status = models.CrawlStatusFailed
	entry.message = message
	return nil
}

func (f *fakeLedger) bySource(source string) *ledgerEntry {
	for _, id := range f.order {
		if f.entries[id].source == source {
			return f.entries[id]
		}
	}
	return nil
}

func TestRunProcessesSourcesSequentially(t *testing.T) {
	ledger := newFakeLedger()
	var fetched []string

	svc := &CrawlService{
		Ledger: ledger,
		Fetch: func(source string) ([]models.RawRecord, string) {
			fetched = append(fetched, source)
			return []models.RawRecord{{CertName: "x"}}, models.MethodAPI
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			return models.CrawlStats{Found: len(records), Inserted: len(records)}, nil
		},
	}

	summaries := svc.Run([]string{"qnet", "kdata", "cloud"})
	if len(summaries) != 3 {
		t.Fatalf("summaries = %d, want 3", len(summaries))
	}
	if strings.Join(fetched, ",") != "qnet,kdata,cloud" {
		t.Fatalf("fetch order = %v, want qnet,kdata,cloud", fetched)
	}
	for _, summary := range summaries {
		if summary.Status != models.CrawlStatusSuccess {
			t.Fatalf("summary for %s = %+v, want success", summary.Source, summary)
		}
		if summary.Method != models.MethodAPI {
			t.Fatalf("method for %s = %q, want api", summary.Source, summary.Method)
		}
	}
	if entry := ledger.bySource("kdata"); entry == nil || entry.status != models.CrawlStatusSuccess {
		t.Fatalf("kdata ledger entry = %+v, want closed success", entry)
	}
}

func TestRunIsolatesFailingSource(t *testing.T) {
	ledger := newFakeLedger()

	svc := &CrawlService{
		Ledger: ledger,
		Fetch: func(source string) ([]models.RawRecord, string) {
			return []models.RawRecord{{CertName: "x"}}, models.MethodScraping
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			if source == "kdata" {
				return models.CrawlStats{}, errors.New("tx aborted")
			}
			return models.CrawlStats{Found: 1, Inserted: 1}, nil
		},
	}

	summaries := svc.Run([]string{"qnet", "kdata", "cloud"})

	if summaries[0].Status != models.CrawlStatusSuccess {
		t.Fatalf("qnet = %+v, want success", summaries[0])
	}
	if summaries[1].Status != models.CrawlStatusFailed || summaries[1].Error != "tx aborted" {
		t.Fatalf("kdata = %+v, want failed with tx aborted", summaries[1])
	}
	if summaries[2].Status != models.CrawlStatusSuccess {
		t.Fatalf("cloud after failure = %+v, want success (failure must not block siblings)", summaries[2])
	}
	if entry := ledger.bySource("kdata"); entry.status != models.CrawlStatusFailed || entry.message != "tx aborted" {
		t.Fatalf("kdata ledger = %+v, want failed", entry)
	}
}

func TestRunConfinesPanicsToTheirSource(t *testing.T) {
	ledger := newFakeLedger()

	svc := &CrawlService{
		Ledger: ledger,
		Fetch: func(source string) ([]models.RawRecord, string) {
			if source == "qnet" {
				panic("selector blew up")
			}
			return []models.RawRecord{{CertName: "x"}}, models.MethodAPI
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			return models.CrawlStats{Found: 1}, nil
		},
	}

	summaries := svc.Run([]string{"qnet", "kdata"})

	if summaries[0].Status != models.CrawlStatusFailed {
		t.Fatalf("qnet = %+v, want failed", summaries[0])
	}
	if !strings.Contains(summaries[0].Error, "selector blew up") {
		t.Fatalf("qnet error = %q, want panic message", summaries[0].Error)
	}
	if summaries[1].Status != models.CrawlStatusSuccess {
		t.Fatalf("kdata = %+v, want success after sibling panic", summaries[1])
	}
	if entry := ledger.bySource("qnet"); entry.status != models.CrawlStatusFailed {
		t.Fatalf("qnet ledger = %+v, want failed", entry)
	}
}

func TestRunExportsOnceAfterAllSources(t *testing.T) {
	ledger := newFakeLedger()
	exports := 0
	var processed []string

	svc := &CrawlService{
		Ledger: ledger,
		Fetch: func(source string) ([]models.RawRecord, string) {
			processed = append(processed, source)
			return nil, models.MethodFailed
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			return models.CrawlStats{}, nil
		},
		Export: func() (models.SeedSyncResult, error) {
			exports++
			if len(processed) != 2 {
				t.Fatalf("export ran before all sources finished (%d of 2)", len(processed))
			}
			return models.SeedSyncResult{Status: "success", EventsCount: 3}, nil
		},
	}

	svc.Run([]string{"qnet", "kdata"})
	if exports != 1 {
		t.Fatalf("export ran %d times, want exactly 1", exports)
	}
}

func TestRunSurvivesExportFailure(t *testing.T) {
	ledger := newFakeLedger()

	svc := &CrawlService{
		Ledger: ledger,
		Fetch: func(source string) ([]models.RawRecord, string) {
			return []models.RawRecord{{CertName: "x"}}, models.MethodAPI
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			return models.CrawlStats{Found: 1}, nil
		},
		Export: func() (models.SeedSyncResult, error) {
			return models.SeedSyncResult{}, errors.New("disk full")
		},
	}

	summaries := svc.Run([]string{"qnet"})
	if summaries[0].Status != models.CrawlStatusSuccess {
		t.Fatalf("summary = %+v, want success despite export failure", summaries[0])
	}
}
