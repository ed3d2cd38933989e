// backend/database/cert_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/certihub/backend/models"
	"github.com/google/uuid"
)

// TxStore wraps one source's crawl transaction. All certificate and
// schedule mutations for a single source run go through one TxStore so a
// mid-source failure rolls back that source's writes and nothing else.
type TxStore struct {
	Tx *sql.Tx
}

// NewTxStore begins a transaction on the shared pool.
func NewTxStore() (*TxStore, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	tx, err := DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin crawl transaction: %w", err)
	}
	return &TxStore{Tx: tx}, nil
}

// FindCertificateID resolves a certificate by exact Korean or English name.
// Returns "" (no error) when nothing matches.
func (s *TxStore) FindCertificateID(name string) (string, error) {
	var id string
	err := s.Tx.QueryRow(`
		SELECT id FROM certifications
		WHERE name_ko = ? OR name_en = ?
		LIMIT 1
	`, name, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query certificate by name %q: %w", name, err)
	}
	return id, nil
}

// FindCertificateIDByKeyword resolves a certificate by case-insensitive
// substring match on either name field, taking the first match.
func (s *TxStore) FindCertificateIDByKeyword(keyword string) (string, error) {
	pattern := "%" + keyword + "%"
	var id string
	err := s.Tx.QueryRow(`
		SELECT id FROM certifications
		WHERE LOWER(name_ko) LIKE LOWER(?) OR LOWER(name_en) LIKE LOWER(?)
		LIMIT 1
	`, pattern, pattern).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query certificate by keyword %q: %w", keyword, err)
	}
	return id, nil
}

// UpdateCertificateOfficialURL overwrites the official URL for an
// always-open certificate. Last write wins; updated_at is refreshed.
func (s *TxStore) UpdateCertificateOfficialURL(certID, url string) error {
	_, err := s.Tx.Exec(`
		UPDATE certifications
		SET official_url = ?, updated_at = NOW()
		WHERE id = ?
	`, url, certID)
	if err != nil {
		return fmt.Errorf("failed to update official_url for certificate %s: %w", certID, err)
	}
	return nil
}

// Commit commits the source's transaction.
func (s *TxStore) Commit() error {
	if err := s.Tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit crawl transaction: %w", err)
	}
	return nil
}

// Rollback rolls the transaction back. Safe to call after Commit.
func (s *TxStore) Rollback() {
	s.Tx.Rollback()
}

// SaveCertificates upserts seed certificate rows, keyed on name_ko.
// Rows without an ID get a fresh UUID. Used by the admin seed import;
// the crawl pipeline itself never creates certificates.
func SaveCertificates(certs []models.Certificate) (int, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	if len(certs) == 0 {
		log.Println("Database: No certificates provided to save.")
		return 0, nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for certificates: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO certifications (
			id, name_ko, name_en, tag, sub_tag, level, official_url,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			name_en = VALUES(name_en),
			tag = VALUES(tag),
			sub_tag = VALUES(sub_tag),
			level = VALUES(level),
			official_url = VALUES(official_url),
			updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare certificate insert statement: %w", err)
	}
	defer stmt.Close()

	savedCount := 0
	for _, cert := range certs {
		if cert.NameKo == "" {
			log.Printf("WARN Database: Skipping seed certificate with empty name_ko (name_en=%q)", cert.NameEn)
			continue
		}
		if !models.ValidLevel(cert.Level) {
			return savedCount, fmt.Errorf("invalid level %q for certificate %q", cert.Level, cert.NameKo)
		}
		if cert.ID == "" {
			cert.ID = uuid.NewString()
		}
		_, err := stmt.Exec(
			cert.ID, cert.NameKo, cert.NameEn, cert.Tag, cert.SubTag,
			cert.Level, cert.OfficialURL,
		)
		if err != nil {
			return savedCount, fmt.Errorf("failed to upsert certificate %q: %w", cert.NameKo, err)
		}
		savedCount++
	}

	if err := tx.Commit(); err != nil {
		return savedCount, fmt.Errorf("failed to commit certificate seed transaction: %w", err)
	}

	log.Printf("Database: Successfully saved/updated %d certificates.\n", savedCount)
	return savedCount, nil
}

// ListCertificates returns certificates, optionally filtered by tag and/or level.
func ListCertificates(tag, level string) ([]models.Certificate, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	query := `
		SELECT id, name_ko, name_en, tag, sub_tag, level,
		       COALESCE(official_url, ''), created_at, updated_at
		FROM certifications
	`
	var args []interface{}
	var where []string
	if tag != "" {
		where = append(where, "tag = ?")
		args = append(args, tag)
	}
	if level != "" {
		where = append(where, "level = ?")
		args = append(args, level)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY name_ko"

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query certifications: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		var c models.Certificate
		err := rows.Scan(
			&c.ID, &c.NameKo, &c.NameEn, &c.Tag, &c.SubTag, &c.Level,
			&c.OfficialURL, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan certificate row: %v", err)
			continue
		}
		certs = append(certs, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certificate rows: %w", err)
	}
	return certs, nil
}
