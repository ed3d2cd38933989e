// backend/database/schedule_store_test.go
package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockTxStore(t *testing.T) (*TxStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("beginning mock transaction: %v", err)
	}
	return &TxStore{Tx: tx}, mock
}

func TestUpsertScheduleInsertsNewRow(t *testing.T) {
	store, mock := newMockTxStore(t)

	regStart := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	regEnd := time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)
	examDate := time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id FROM exam_schedules WHERE cert_id = \? AND round = \?`).
		WithArgs("cert-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO exam_schedules`).
		WithArgs("cert-1", 1, regStart, regEnd, examDate, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	outcome, err := store.UpsertSchedule("cert-1", 1, &regStart, &regEnd, &examDate, nil)
	if err != nil {
		t.Fatalf("UpsertSchedule error: %v", err)
	}
	if outcome != UpsertInserted {
		t.Fatalf("outcome = %q, want %q", outcome, UpsertInserted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A merge must keep the latest non-null value per field: every date
// column goes through COALESCE(incoming, stored), with the incoming
// value bound as SQL NULL when the record carried no date. Pinning the
// statement and the argument order here keeps a stored exam_date intact
// when a later record arrives without one.
func TestUpsertScheduleMergeKeepsStoredFields(t *testing.T) {
	store, mock := newMockTxStore(t)

	resultDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id FROM exam_schedules WHERE cert_id = \? AND round = \?`).
		WithArgs("cert-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`UPDATE exam_schedules\s+` +
		`SET reg_start = COALESCE\(\?, reg_start\),\s+` +
		`reg_end = COALESCE\(\?, reg_end\),\s+` +
		`exam_date = COALESCE\(\?, exam_date\),\s+` +
		`result_date = COALESCE\(\?, result_date\),\s+` +
		`updated_at = NOW\(\)\s+` +
		`WHERE id = \?`).
		WithArgs(nil, nil, nil, resultDate, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	outcome, err := store.UpsertSchedule("cert-1", 1, nil, nil, nil, &resultDate)
	if err != nil {
		t.Fatalf("UpsertSchedule error: %v", err)
	}
	if outcome != UpsertUpdated {
		t.Fatalf("outcome = %q, want %q", outcome, UpsertUpdated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertScheduleMergeOverwritesWithNewDates(t *testing.T) {
	store, mock := newMockTxStore(t)

	examDate := time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)
	resultDate := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id FROM exam_schedules WHERE cert_id = \? AND round = \?`).
		WithArgs("cert-2", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`UPDATE exam_schedules`).
		WithArgs(nil, nil, examDate, resultDate, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	outcome, err := store.UpsertSchedule("cert-2", 2, nil, nil, &examDate, &resultDate)
	if err != nil {
		t.Fatalf("UpsertSchedule error: %v", err)
	}
	if outcome != UpsertUpdated {
		t.Fatalf("outcome = %q, want %q", outcome, UpsertUpdated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
