package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vertextoedge/linkguard/internal/domain"
)

// CreateDownload records a newly requested download
func (s *Store) CreateDownload(r *domain.DownloadRecord) error {
	status := r.Status
	if status == "" {
		status = domain.DownloadStatusRequested
	}
	requestedAt := r.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO downloads (id, view_id, url, downloads_path, status, requested_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.ViewID, r.URL, r.DownloadsPath, string(status), requestedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create download: %w", err)
	}
	r.Status = status
	r.RequestedAt = requestedAt
	return nil
}

// ResolveDownload stores the terminal status of a download
func (s *Store) ResolveDownload(id string, status domain.DownloadStatus, filePath, fileName string) error {
	if !status.IsTerminal() {
		return fmt.Errorf("%w: %s is not a terminal status", domain.ErrInvalidStateTransition, status)
	}

	result, err := s.db.Exec(`
		UPDATE downloads
		SET status = ?, file_path = ?, file_name = ?, resolved_at = ?
		WHERE id = ? AND resolved_at IS NULL
	`, string(status), nullString(filePath), nullString(fileName), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve download: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := s.GetDownload(id); gerr != nil {
			return gerr
		}
		return fmt.Errorf("%w: %s", domain.ErrAlreadyResolved, id)
	}
	return nil
}

// GetDownload retrieves a download record by request ID
func (s *Store) GetDownload(id string) (*domain.DownloadRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, view_id, url, downloads_path, status, file_path, file_name, requested_at, resolved_at
		FROM downloads WHERE id = ?
	`, id)

	r, err := scanDownload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: download %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListDownloads returns the most recent downloads, newest first
func (s *Store) ListDownloads(limit int) ([]*domain.DownloadRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT id, view_id, url, downloads_path, status, file_path, file_name, requested_at, resolved_at
		FROM downloads
		ORDER BY requested_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.DownloadRecord
	for rows.Next() {
		r, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CleanupOldDownloads removes resolved records older than the specified duration
func (s *Store) CleanupOldDownloads(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.Exec(`
		DELETE FROM downloads
		WHERE resolved_at IS NOT NULL AND resolved_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup downloads: %w", err)
	}
	n, err := result.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDownload(row scanner) (*domain.DownloadRecord, error) {
	r := &domain.DownloadRecord{}
	var status string
	var filePath, fileName sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(
		&r.ID, &r.ViewID, &r.URL, &r.DownloadsPath, &status,
		&filePath, &fileName, &r.RequestedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = domain.DownloadStatus(status)
	if filePath.Valid {
		r.FilePath = filePath.String
	}
	if fileName.Valid {
		r.FileName = fileName.String
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		r.ResolvedAt = &t
	}
	return r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
