// backend/services/seed_sync_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/certihub/backend/database"
	"github.com/certihub/backend/models"
)

const dateLayout = "2006-01-02"

// SeedSyncService regenerates the front-end seed-events.ts artifact
// from the database. The file is a fallback for when the API is down;
// normal reads go through /api/schedules/calendar.
type SeedSyncService struct {
	List     func() ([]models.CalendarSchedule, error)
	FilePath string
}

// NewSeedSyncService binds the exporter to the database and the
// configured seed file path.
func NewSeedSyncService(filePath string) *SeedSyncService {
	return &SeedSyncService{
		List:     database.ListCalendarSchedules,
		FilePath: filePath,
	}
}

// Sync reads every schedule, projects calendar events, and rewrites the
// seed file atomically. An empty projection leaves the existing file
// untouched and reports status "skipped".
func (s *SeedSyncService) Sync() (models.SeedSyncResult, error) {
	result := models.SeedSyncResult{FilePath: s.FilePath}

	schedules, err := s.List()
	if err != nil {
		return result, fmt.Errorf("seed sync: %w", err)
	}

	events := ProjectCalendarEvents(schedules)
	if len(events) == 0 {
		log.Println("WARN Service: No schedule data to export, keeping existing seed file")
		result.Status = "skipped"
		return result, nil
	}

	if err := writeSeedFile(s.FilePath, generateSeedTS(events, time.Now())); err != nil {
		return result, fmt.Errorf("seed sync: %w", err)
	}

	log.Printf("Service: Seed file regenerated with %d events: %s\n", len(events), s.FilePath)
	result.Status = "success"
	result.EventsCount = len(events)
	return result, nil
}

// ProjectCalendarEvents expands schedule rows into calendar events: a
// registration span (when both boundaries are known), an exam day, and
// a result day, each with its own color. Round 0 rows carry no round
// label.
func ProjectCalendarEvents(schedules []models.CalendarSchedule) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(schedules)*3)
	for _, sched := range schedules {
		roundLabel := ""
		if sched.Round != nil && *sched.Round != models.AlwaysOpenRound {
			roundLabel = fmt.Sprintf(" %d회", *sched.Round)
		}

		if sched.RegStart != nil && sched.RegEnd != nil {
			events = append(events, models.CalendarEvent{
				Title:     sched.CertNameKo + roundLabel + " 접수",
				Start:     sched.RegStart.Format(dateLayout),
				End:       sched.RegEnd.Format(dateLayout),
				Color:     "#93c5fd",
				TextColor: "#1e40af",
				Type:      "registration",
				CertID:    sched.CertID,
			})
		}
		if sched.ExamDate != nil {
			events = append(events, models.CalendarEvent{
				Title:  sched.CertNameKo + roundLabel + " 시험",
				Start:  sched.ExamDate.Format(dateLayout),
				Color:  "#ef4444",
				Type:   "exam",
				CertID: sched.CertID,
			})
		}
		if sched.ResultDate != nil {
			events = append(events, models.CalendarEvent{
				Title:  sched.CertNameKo + roundLabel + " 발표",
				Start:  sched.ResultDate.Format(dateLayout),
				Color:  "#22c55e",
				Type:   "result",
				CertID: sched.CertID,
			})
		}
	}
	return events
}

func generateSeedTS(events []models.CalendarEvent, now time.Time) string {
	var b strings.Builder
	b.WriteString("import type { CalendarEvent } from \"./types\";\n\n")
	b.WriteString("// ===================================================================\n")
	fmt.Fprintf(&b, "// 자동 생성 파일 — DB에서 동기화됨 (%s)\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("// 이 파일은 API 장애 시 fallback 전용입니다.\n")
	b.WriteString("// 수동으로 수정하지 마세요. 크롤러 실행 시 자동으로 갱신됩니다.\n")
	b.WriteString("// ===================================================================\n\n")
	b.WriteString("export const INITIAL_EVENTS: CalendarEvent[] = [\n")

	for _, evt := range events {
		parts := []string{
			fmt.Sprintf("title: %q", evt.Title),
			fmt.Sprintf("start: %q", evt.Start),
		}
		if evt.End != "" {
			parts = append(parts, fmt.Sprintf("end: %q", evt.End))
		}
		parts = append(parts, fmt.Sprintf("color: %q", evt.Color))
		if evt.TextColor != "" {
			parts = append(parts, fmt.Sprintf("textColor: %q", evt.TextColor))
		}
		parts = append(parts,
			fmt.Sprintf("type: %q", evt.Type),
			fmt.Sprintf("cert_id: %q", evt.CertID),
		)
		b.WriteString("  { " + strings.Join(parts, ", ") + " },\n")
	}

	b.WriteString("];\n")
	return b.String()
}

// writeSeedFile replaces the target via a sibling temp file and rename,
// so a reader never sees a half-written artifact.
func writeSeedFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".seed-events-*.ts")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
