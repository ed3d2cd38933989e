// backend/handlers/admin_handler.go
package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jszwec/csvutil"

	"github.com/certihub/backend/database"
	"github.com/certihub/backend/models"
)

// maxSeedCSVBytes caps the admin import body.
const maxSeedCSVBytes = 4 << 20

// ImportCertificationsHandler handles POST /api/admin/import-certs.
// The body is a CSV with a header row matching the certificate csv tags
// (id, name_ko, name_en, tag, sub_tag, level, official_url); rows are
// upserted keyed on name_ko and blank ids get fresh UUIDs.
func ImportCertificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSeedCSVBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}
	if len(body) == 0 {
		respondWithError(w, http.StatusBadRequest, "Request body is empty. Expected a certificate CSV.")
		return
	}

	var certs []models.Certificate
	if err := csvutil.Unmarshal(body, &certs); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid certificate CSV: %v", err))
		return
	}

	saved, err := database.SaveCertificates(certs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to import certificates: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  fmt.Sprintf("Imported %d certificates.", saved),
		"imported": saved,
	})
}
