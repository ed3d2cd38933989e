// backend/services/seed_sync_service_test.go
package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/certihub/backend/models"
)

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return &parsed
}

func intPtr(v int) *int { return &v }

func TestProjectCalendarEventsFullSchedule(t *testing.T) {
	schedules := []models.CalendarSchedule{{
		CertID:     "cert-1",
		CertNameKo: "정보처리기사",
		Round:      intPtr(1),
		RegStart:   datePtr(t, "2026-01-19"),
		RegEnd:     datePtr(t, "2026-01-22"),
		ExamDate:   datePtr(t, "2026-02-22"),
		ResultDate: datePtr(t, "2026-03-20"),
	}}

	events := ProjectCalendarEvents(schedules)
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3 (registration, exam, result)", len(events))
	}

	reg := events[0]
	if reg.Title != "정보처리기사 1회 접수" || reg.Type != "registration" {
		t.Fatalf("registration event = %+v", reg)
	}
	if reg.Start != "2026-01-19" || reg.End != "2026-01-22" {
		t.Fatalf("registration span = %s..%s", reg.Start, reg.End)
	}
	if reg.Color != "#93c5fd" || reg.TextColor != "#1e40af" {
		t.Fatalf("registration colors = %s/%s", reg.Color, reg.TextColor)
	}

	exam := events[1]
	if exam.Title != "정보처리기사 1회 시험" || exam.Color != "#ef4444" || exam.Type != "exam" {
		t.Fatalf("exam event = %+v", exam)
	}
	if exam.End != "" {
		t.Fatalf("exam event has end %q, want single day", exam.End)
	}

	result := events[2]
	if result.Title != "정보처리기사 1회 발표" || result.Color != "#22c55e" || result.Type != "result" {
		t.Fatalf("result event = %+v", result)
	}
	if result.CertID != "cert-1" {
		t.Fatalf("result cert_id = %q", result.CertID)
	}
}

func TestProjectCalendarEventsSkipsMissingDates(t *testing.T) {
	schedules := []models.CalendarSchedule{{
		CertID:     "cert-2",
		CertNameKo: "SQLD",
		Round:      intPtr(52),
		RegStart:   datePtr(t, "2026-03-02"), // no RegEnd: span is incomplete
		ExamDate:   datePtr(t, "2026-04-05"),
	}}

	events := ProjectCalendarEvents(schedules)
	if len(events) != 1 {
		t.Fatalf("events = %+v, want only the exam", events)
	}
	if events[0].Type != "exam" {
		t.Fatalf("event type = %q, want exam", events[0].Type)
	}
}

func TestProjectCalendarEventsOmitsRoundZeroLabel(t *testing.T) {
	round := models.AlwaysOpenRound
	schedules := []models.CalendarSchedule{{
		CertID:     "cert-aws",
		CertNameKo: "AWS SAA",
		Round:      &round,
		ExamDate:   datePtr(t, "2026-05-01"),
	}}

	events := ProjectCalendarEvents(schedules)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Title != "AWS SAA 시험" {
		t.Fatalf("title = %q, round 0 must carry no round label", events[0].Title)
	}
}

func TestSyncWritesSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib", "seed-events.ts")
	svc := &SeedSyncService{
		FilePath: path,
		List: func() ([]models.CalendarSchedule, error) {
			return []models.CalendarSchedule{{
				CertID:     "cert-1",
				CertNameKo: "정보처리기사",
				Round:      intPtr(1),
				ExamDate:   datePtr(t, "2026-02-22"),
			}}, nil
		},
	}

	result, err := svc.Sync()
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if result.Status != "success" || result.EventsCount != 1 {
		t.Fatalf("result = %+v, want success with 1 event", result)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("seed file not written: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "export const INITIAL_EVENTS: CalendarEvent[] = [") {
		t.Fatal("seed file missing INITIAL_EVENTS declaration")
	}
	if !strings.Contains(text, `title: "정보처리기사 1회 시험"`) {
		t.Fatalf("seed file missing exam event:\n%s", text)
	}
	if !strings.Contains(text, `color: "#ef4444"`) {
		t.Fatal("seed file missing exam color")
	}

	// No leftover temp files beside the artifact.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading seed dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("seed dir has %d entries, want only the artifact", len(entries))
	}
}

func TestSyncEmptyProjectionKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed-events.ts")
	previous := "export const INITIAL_EVENTS: CalendarEvent[] = [];\n"
	if err := os.WriteFile(path, []byte(previous), 0644); err != nil {
		t.Fatalf("seeding previous artifact: %v", err)
	}

	svc := &SeedSyncService{
		FilePath: path,
		List: func() ([]models.CalendarSchedule, error) {
			return nil, nil
		},
	}

	result, err := svc.Sync()
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if result.Status != "skipped" || result.EventsCount != 0 {
		t.Fatalf("result = %+v, want skipped", result)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("previous artifact gone: %v", err)
	}
	if string(content) != previous {
		t.Fatal("empty projection overwrote a previously good artifact")
	}
}
