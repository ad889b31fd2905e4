package domain

import (
	"fmt"
	"time"

	"github.com/vertextoedge/linkguard/internal/domain/vo"
)

// ChatDomain is a chat server registered with the client.
// ID is the index views use to identify their source domain.
type ChatDomain struct {
	ID        int64
	Alias     string
	URL       string
	CreatedAt time.Time
}

// NewChatDomain validates the URL and builds a ChatDomain with its
// normalized prefix as URL.
func NewChatDomain(alias, rawURL string) (*ChatDomain, error) {
	prefix, err := vo.NewDomainPrefix(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomainPrefix, err)
	}
	if alias == "" {
		alias = prefix.Host()
	}
	return &ChatDomain{
		Alias: alias,
		URL:   prefix.String(),
	}, nil
}

// Prefix returns the trusted prefix for this domain
func (d *ChatDomain) Prefix() (vo.DomainPrefix, error) {
	return vo.NewDomainPrefix(d.URL)
}

// DownloadRecord is the persisted history of one download request
type DownloadRecord struct {
	ID            string
	ViewID        string
	URL           string
	DownloadsPath string
	Status        DownloadStatus
	FilePath      string
	FileName      string
	RequestedAt   time.Time
	ResolvedAt    *time.Time
}
