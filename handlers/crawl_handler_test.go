// backend/handlers/crawl_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/certihub/backend/models"
	"github.com/certihub/backend/services"
)

type noopLedger struct{}

func (noopLedger) Open(source string) (int64, error) { return 1, nil }
func (noopLedger) CloseSuccess(id int64, method string, stats models.CrawlStats, duration time.Duration) error {
	return nil
}
func (noopLedger) CloseFailure(id int64, message string, duration time.Duration) error { return nil }

func initTestServices(done chan string) {
	crawl := &services.CrawlService{
		Ledger: noopLedger{},
		Fetch: func(source string) ([]models.RawRecord, string) {
			return nil, models.MethodFailed
		},
		Persist: func(source string, records []models.RawRecord) (models.CrawlStats, error) {
			if done != nil {
				done <- source
			}
			return models.CrawlStats{}, nil
		},
	}
	seed := &services.SeedSyncService{
		FilePath: "unused",
		List: func() ([]models.CalendarSchedule, error) {
			return nil, nil
		},
	}
	Init(crawl, seed, nil)
}

func TestTriggerCrawlRejectsGet(t *testing.T) {
	initTestServices(nil)

	rec := httptest.NewRecorder()
	TriggerCrawlHandler(rec, httptest.NewRequest(http.MethodGet, "/api/crawl/trigger", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestTriggerCrawlRejectsUnknownSource(t *testing.T) {
	initTestServices(nil)

	rec := httptest.NewRecorder()
	TriggerCrawlHandler(rec, httptest.NewRequest(http.MethodPost, "/api/crawl/trigger?source=telepathy", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "telepathy") {
		t.Fatalf("error body does not name the bad source: %s", rec.Body.String())
	}
}

func TestTriggerCrawlAcknowledgesImmediately(t *testing.T) {
	done := make(chan string, 1)
	initTestServices(done)

	rec := httptest.NewRecorder()
	TriggerCrawlHandler(rec, httptest.NewRequest(http.MethodPost, "/api/crawl/trigger?source=qnet", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "accepted") {
		t.Fatalf("body = %s, want an accepted ack", rec.Body.String())
	}

	select {
	case source := <-done:
		if source != "qnet" {
			t.Fatalf("background run processed %q, want qnet", source)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("background crawl never ran")
	}
}

func TestCrawlLogsRejectsBadLimit(t *testing.T) {
	initTestServices(nil)

	for _, raw := range []string{"0", "101", "abc"} {
		rec := httptest.NewRecorder()
		CrawlLogsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/crawl/logs?limit="+raw, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestSyncSeedHandlerReportsSkip(t *testing.T) {
	initTestServices(nil)

	rec := httptest.NewRecorder()
	SyncSeedHandler(rec, httptest.NewRequest(http.MethodPost, "/api/crawl/sync-seed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"skipped"`) {
		t.Fatalf("body = %s, want a skipped result", rec.Body.String())
	}
}
