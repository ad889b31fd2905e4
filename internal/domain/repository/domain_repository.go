package repository

import (
	"github.com/vertextoedge/linkguard/internal/domain"
)

// DomainRepository defines the interface for chat domain persistence
type DomainRepository interface {
	// CreateDomain registers a chat domain and assigns its ID
	// Returns domain.ErrAlreadyExists if the URL is already registered
	CreateDomain(d *domain.ChatDomain) error

	// GetDomain retrieves a chat domain by ID
	// Returns domain.ErrDomainNotFound if it does not exist
	GetDomain(id int64) (*domain.ChatDomain, error)

	// ListDomains returns all chat domains ordered by ID
	ListDomains() ([]*domain.ChatDomain, error)

	// DeleteDomain removes a chat domain by ID
	DeleteDomain(id int64) error
}
