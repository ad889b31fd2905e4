package repository

import (
	"time"

	"github.com/vertextoedge/linkguard/internal/domain"
)

// DownloadRepository defines the interface for download history
type DownloadRepository interface {
	// CreateDownload records a newly requested download
	CreateDownload(record *domain.DownloadRecord) error

	// ResolveDownload stores the terminal status of a download
	// filePath and fileName are empty for failed downloads
	ResolveDownload(id string, status domain.DownloadStatus, filePath, fileName string) error

	// GetDownload retrieves a download record by request ID
	GetDownload(id string) (*domain.DownloadRecord, error)

	// ListDownloads returns the most recent downloads, newest first
	ListDownloads(limit int) ([]*domain.DownloadRecord, error)

	// CleanupOldDownloads removes resolved records older than the specified duration
	CleanupOldDownloads(olderThan time.Duration) (int, error)
}
