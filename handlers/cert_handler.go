// backend/handlers/cert_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/certihub/backend/database"
	"github.com/certihub/backend/models"
	"github.com/certihub/backend/services"
)

// ListCertificationsHandler handles GET /api/certifications?tag=&level=.
func ListCertificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	query := r.URL.Query()
	level := query.Get("level")
	if level != "" && !models.ValidLevel(level) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid level '%s'.", level))
		return
	}

	certs, err := database.ListCertificates(query.Get("tag"), level)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to query certifications: %v", err))
		return
	}
	if certs == nil {
		certs = []models.Certificate{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count":          len(certs),
		"certifications": certs,
	})
}

// CalendarHandler handles GET /api/schedules/calendar, serving the same
// event projection the seed export writes.
func CalendarHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	schedules, err := database.ListCalendarSchedules()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to query schedules: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, services.ProjectCalendarEvents(schedules))
}
