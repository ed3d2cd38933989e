// backend/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/certihub/backend/cache"
	"github.com/certihub/backend/config"
	"github.com/certihub/backend/database"
	"github.com/certihub/backend/handlers"
	"github.com/certihub/backend/services"
	"github.com/certihub/backend/sources"
)

func main() {
	log.Println("Starting CertiHub Backend Application...")

	configPath := "backend/config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config/config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)
	log.Printf("Registered sources: %v", sources.Names())

	err = database.InitDB(config.AppConfig.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	snapshots := cache.NewStore(config.AppConfig.Cache.Dir)
	seedSync := services.NewSeedSyncService(config.AppConfig.Export.SeedFilePath)
	crawlService := services.NewCrawlService(snapshots, seedSync)

	var scheduler *services.Scheduler
	if config.AppConfig.Scheduler.Enabled {
		scheduler, err = services.StartScheduler(crawlService, config.AppConfig.Scheduler.CronSpec)
		if err != nil {
			// Manual triggers still work without the scheduler.
			log.Printf("ERROR Service: Scheduler not started: %v", err)
		} else {
			defer scheduler.Stop()
		}
	} else {
		log.Println("Service: Scheduler disabled in config, manual triggers only")
	}

	handlers.Init(crawlService, seedSync, scheduler)

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "CertiHub backend is healthy"}`)
	})

	http.HandleFunc("/api/crawl/trigger", handlers.TriggerCrawlHandler)
	http.HandleFunc("/api/crawl/status", handlers.CrawlStatusHandler)
	http.HandleFunc("/api/crawl/logs", handlers.CrawlLogsHandler)
	http.HandleFunc("/api/crawl/stats", handlers.CrawlStatsHandler)
	http.HandleFunc("/api/crawl/sync-seed", handlers.SyncSeedHandler)

	http.HandleFunc("/api/certifications", handlers.ListCertificationsHandler)
	http.HandleFunc("/api/schedules/calendar", handlers.CalendarHandler)

	http.HandleFunc("/api/admin/import-certs", handlers.ImportCertificationsHandler)

	serverAddr := ":" + config.AppConfig.Server.Port
	server := &http.Server{Addr: serverAddr}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Println("Shutdown signal received, closing server...")
		server.Close()
	}()

	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("Error starting server: %v", err)
	}
}
