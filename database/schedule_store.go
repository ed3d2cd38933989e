// backend/database/schedule_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/certihub/backend/models"
)

// Upsert outcomes as reported back to the merge counters.
const (
	UpsertInserted = "inserted"
	UpsertUpdated  = "updated"
)

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// UpsertSchedule inserts or merges one exam schedule keyed on
// (cert_id, round). On merge, each date column is overwritten only when
// the incoming value is non-nil; COALESCE keeps the stored value
// otherwise. updated_at is refreshed either way.
func (s *TxStore) UpsertSchedule(certID string, round int, regStart, regEnd, examDate, resultDate *time.Time) (string, error) {
	var existingID int64
	err := s.Tx.QueryRow(`
		SELECT id FROM exam_schedules WHERE cert_id = ? AND round = ?
	`, certID, round).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up schedule for cert %s round %d: %w", certID, round, err)
	}

	if err == nil {
		_, err = s.Tx.Exec(`
			UPDATE exam_schedules
			SET reg_start = COALESCE(?, reg_start),
			    reg_end = COALESCE(?, reg_end),
			    exam_date = COALESCE(?, exam_date),
			    result_date = COALESCE(?, result_date),
			    updated_at = NOW()
			WHERE id = ?
		`, toNullTime(regStart), toNullTime(regEnd), toNullTime(examDate), toNullTime(resultDate), existingID)
		if err != nil {
			return "", fmt.Errorf("failed to update schedule for cert %s round %d: %w", certID, round, err)
		}
		return UpsertUpdated, nil
	}

	_, err = s.Tx.Exec(`
		INSERT INTO exam_schedules (
			cert_id, round, reg_start, reg_end, exam_date, result_date,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, certID, round, toNullTime(regStart), toNullTime(regEnd), toNullTime(examDate), toNullTime(resultDate))
	if err != nil {
		return "", fmt.Errorf("failed to insert schedule for cert %s round %d: %w", certID, round, err)
	}
	return UpsertInserted, nil
}

// ListCalendarSchedules reads every schedule joined with its certificate
// name, ordered for the calendar projection and the seed export.
func ListCalendarSchedules() ([]models.CalendarSchedule, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	rows, err := DB.Query(`
		SELECT es.id, es.cert_id, c.name_ko, es.round,
		       es.reg_start, es.reg_end, es.exam_date, es.result_date
		FROM exam_schedules es
		JOIN certifications c ON es.cert_id = c.id
		ORDER BY c.name_ko, es.round, es.exam_date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.CalendarSchedule
	for rows.Next() {
		var cs models.CalendarSchedule
		var round sql.NullInt64
		var regStart, regEnd, examDate, resultDate sql.NullTime

		err := rows.Scan(
			&cs.ScheduleID, &cs.CertID, &cs.CertNameKo, &round,
			&regStart, &regEnd, &examDate, &resultDate,
		)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan calendar schedule row: %v", err)
			continue
		}
		if round.Valid {
			r := int(round.Int64)
			cs.Round = &r
		}
		if regStart.Valid {
			cs.RegStart = &regStart.Time
		}
		if regEnd.Valid {
			cs.RegEnd = &regEnd.Time
		}
		if examDate.Valid {
			cs.ExamDate = &examDate.Time
		}
		if resultDate.Valid {
			cs.ResultDate = &resultDate.Time
		}
		schedules = append(schedules, cs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar schedule rows: %w", err)
	}

	log.Printf("Database: Retrieved %d calendar schedules.\n", len(schedules))
	return schedules, nil
}
