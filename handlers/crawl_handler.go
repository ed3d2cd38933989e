// backend/handlers/crawl_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/certihub/backend/database"
	"github.com/certihub/backend/models"
	"github.com/certihub/backend/services"
	"github.com/certihub/backend/sources"
)

var (
	crawlService *services.CrawlService
	seedSync     *services.SeedSyncService
	scheduler    *services.Scheduler
)

// Init hands the shared service instances to this package. main calls
// it once before registering routes; scheduler may be nil when the cron
// spec was rejected.
func Init(crawl *services.CrawlService, seed *services.SeedSyncService, sched *services.Scheduler) {
	crawlService = crawl
	seedSync = seed
	scheduler = sched
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// TriggerCrawlHandler handles POST /api/crawl/trigger?source=<scope>.
// The scope is "all" (default) or one registered source. The crawl runs
// in the background; the response acknowledges immediately.
func TriggerCrawlHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	scope := r.URL.Query().Get("source")
	names, err := services.ResolveScope(scope)
	if err != nil {
		respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Unknown source '%s'. Use 'all' or one of %v.", scope, sources.Names()))
		return
	}

	go crawlService.Run(names)

	if scope == "" {
		scope = "all"
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": fmt.Sprintf("Crawl started for scope '%s'.", scope),
		"status":  "accepted",
	})
}

// CrawlStatusHandler handles GET /api/crawl/status.
func CrawlStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	running, err := database.CountRunningCrawls()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read crawl status: %v", err))
		return
	}

	status := models.CrawlStatusResponse{
		IsRunning: running > 0,
		Sources:   make(map[string]models.SourceLastSuccess),
	}

	if latest, err := database.GetLatestCrawlLog(); err != nil {
		log.Printf("WARN Handlers: Could not load latest crawl log: %v", err)
	} else if latest != nil {
		status.LastStatus = latest.Status
		if latest.FinishedAt != nil {
			status.LastRun = latest.FinishedAt
		} else {
			status.LastRun = &latest.StartedAt
		}
	}

	lastSuccess, err := database.GetLastSuccessBySource()
	if err != nil {
		log.Printf("WARN Handlers: Could not load per-source history: %v", err)
		lastSuccess = nil
	}
	for _, name := range sources.Names() {
		entry := models.SourceLastSuccess{}
		if crawlLog, ok := lastSuccess[name]; ok {
			entry.LastSuccess = crawlLog.FinishedAt
			entry.Method = crawlLog.Method
			entry.Found = crawlLog.Found
			entry.Inserted = crawlLog.Inserted
			entry.Updated = crawlLog.Updated
		}
		status.Sources[name] = entry
	}

	status.NextScheduled = scheduler.NextRun()

	respondWithJSON(w, http.StatusOK, status)
}

// CrawlLogsHandler handles GET /api/crawl/logs?source=&status=&limit=.
func CrawlLogsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	query := r.URL.Query()
	source := query.Get("source")
	status := query.Get("status")

	limit := 20
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondWithError(w, http.StatusBadRequest, "Parameter 'limit' must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	logs, err := database.GetCrawlLogs(source, status, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to query crawl logs: %v", err))
		return
	}
	if logs == nil {
		logs = []models.CrawlLog{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(logs),
		"logs":  logs,
	})
}

// CrawlStatsHandler handles GET /api/crawl/stats.
func CrawlStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	stats, err := database.GetCrawlStats()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to query crawl stats: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// SyncSeedHandler handles POST /api/crawl/sync-seed, a manual trigger
// for the seed export.
func SyncSeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	result, err := seedSync.Sync()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Seed sync failed: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
