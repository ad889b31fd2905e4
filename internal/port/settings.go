package port

import (
	"github.com/vertextoedge/linkguard/internal/domain"
)

// SettingsSource supplies the download settings at interception time
type SettingsSource interface {
	DownloadConfig() domain.DownloadConfig
}

// DomainRegistry resolves the trusted prefix of a chat domain
type DomainRegistry interface {
	// TrustedPrefix returns the prefix URL for a domain index.
	// Returns domain.ErrDomainNotFound for unknown indexes.
	TrustedPrefix(index int64) (string, error)
}
