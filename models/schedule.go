// backend/models/schedule.go
package models

import "time"

// AlwaysOpenRound is the sentinel round number for certifications with
// no fixed exam schedule (vendor/cloud certs, registration always open).
// Records carrying it update certificate metadata instead of schedule rows.
const AlwaysOpenRound = 0

// CalendarSchedule is one schedule row joined with its certificate name,
// as read back for the calendar projection and the seed export.
type CalendarSchedule struct {
	ScheduleID int64
	CertID     string
	CertNameKo string
	Round      *int
	RegStart   *time.Time
	RegEnd     *time.Time
	ExamDate   *time.Time
	ResultDate *time.Time
}

// CalendarEvent is the projected event consumed by the front-end calendar
// and written into the seed fallback artifact.
type CalendarEvent struct {
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end,omitempty"`
	Color     string `json:"color"`
	TextColor string `json:"textColor,omitempty"`
	Type      string `json:"type"`
	CertID    string `json:"cert_id"`
}
