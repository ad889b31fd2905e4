package port

import (
	"github.com/vertextoedge/linkguard/internal/domain/repository"
)

// DomainRepository is an alias to domain repository interface
type DomainRepository = repository.DomainRepository

// DownloadRepository is an alias to domain repository interface
type DownloadRepository = repository.DownloadRepository

// Store is an alias to domain repository interface
type Store = repository.Store
