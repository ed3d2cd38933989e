// backend/handlers/admin_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestImportCertificationsRejectsGet(t *testing.T) {
	rec := httptest.NewRecorder()
	ImportCertificationsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/admin/import-certs", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestImportCertificationsRejectsEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	ImportCertificationsHandler(rec, httptest.NewRequest(http.MethodPost, "/api/admin/import-certs", strings.NewReader("")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestImportCertificationsRejectsMalformedCSV(t *testing.T) {
	body := "name_ko,level\n\"unterminated"
	rec := httptest.NewRecorder()
	ImportCertificationsHandler(rec, httptest.NewRequest(http.MethodPost, "/api/admin/import-certs", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
