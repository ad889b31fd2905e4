package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vertextoedge/linkguard/internal/domain"
)

// CreateDomain registers a chat domain and assigns its ID
func (s *Store) CreateDomain(d *domain.ChatDomain) error {
	result, err := s.db.Exec(
		`INSERT INTO domains (alias, url) VALUES (?, ?)`,
		d.Alias, d.URL,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: domain %s", domain.ErrAlreadyExists, d.URL)
		}
		return fmt.Errorf("failed to create domain: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get domain id: %w", err)
	}
	d.ID = id

	return s.db.QueryRow(`SELECT created_at FROM domains WHERE id = ?`, id).Scan(&d.CreatedAt)
}

// GetDomain retrieves a chat domain by ID
func (s *Store) GetDomain(id int64) (*domain.ChatDomain, error) {
	d := &domain.ChatDomain{}
	err := s.db.QueryRow(
		`SELECT id, alias, url, created_at FROM domains WHERE id = ?`, id,
	).Scan(&d.ID, &d.Alias, &d.URL, &d.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrDomainNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDomains returns all chat domains ordered by ID
func (s *Store) ListDomains() ([]*domain.ChatDomain, error) {
	rows, err := s.db.Query(`SELECT id, alias, url, created_at FROM domains ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []*domain.ChatDomain
	for rows.Next() {
		d := &domain.ChatDomain{}
		if err := rows.Scan(&d.ID, &d.Alias, &d.URL, &d.CreatedAt); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

// DeleteDomain removes a chat domain by ID
func (s *Store) DeleteDomain(id int64) error {
	result, err := s.db.Exec(`DELETE FROM domains WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", domain.ErrDomainNotFound, id)
	}
	return nil
}

// TrustedPrefix returns the registered URL of a domain index
func (s *Store) TrustedPrefix(index int64) (string, error) {
	var url string
	err := s.db.QueryRow(`SELECT url FROM domains WHERE id = ?`, index).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %d", domain.ErrDomainNotFound, index)
	}
	if err != nil {
		return "", err
	}
	return url, nil
}
