// backend/models/certificate.go
package models

import "time"

// Certificate levels, ordered Basic < Intermediate < Advanced < Master.
const (
	LevelBasic        = "Basic"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelMaster       = "Master"
)

// Certificate is the master record for one certification.
// Rows are owned by the seed import; the crawl pipeline only mutates
// official_url and updated_at, it never creates certificates.
type Certificate struct {
	ID          string    `db:"id" json:"id" csv:"id"`
	NameKo      string    `db:"name_ko" json:"name_ko" csv:"name_ko"`
	NameEn      string    `db:"name_en" json:"name_en" csv:"name_en"`
	Tag         string    `db:"tag" json:"tag" csv:"tag"`
	SubTag      string    `db:"sub_tag" json:"sub_tag,omitempty" csv:"sub_tag"`
	Level       string    `db:"level" json:"level" csv:"level"`
	OfficialURL string    `db:"official_url" json:"official_url,omitempty" csv:"official_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at" csv:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// ValidLevel reports whether s is one of the four defined levels.
func ValidLevel(s string) bool {
	switch s {
	case LevelBasic, LevelIntermediate, LevelAdvanced, LevelMaster:
		return true
	}
	return false
}
