// backend/models/raw_record.go
package models

// RawRecord is an unvalidated schedule record as emitted by a source
// adapter tier. Date fields are left as the source's strings; parsing
// happens at merge time. RawRecords are never persisted as-is, only
// inside cache snapshots.
type RawRecord struct {
	CertName    string `json:"cert_name"`
	Round       int    `json:"round"`
	RegStart    string `json:"reg_start,omitempty"`
	RegEnd      string `json:"reg_end,omitempty"`
	ExamDate    string `json:"exam_date,omitempty"`
	ResultDate  string `json:"result_date,omitempty"`
	Status      string `json:"status,omitempty"`
	OfficialURL string `json:"web_url,omitempty"`
}

// AlwaysOpen reports whether the record is metadata-only (no fixed round).
func (r RawRecord) AlwaysOpen() bool {
	return r.Round == AlwaysOpenRound
}
