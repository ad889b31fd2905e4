package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/port"
	"github.com/vertextoedge/linkguard/internal/service/navigation"
	"go.uber.org/zap"
)

// APIHandler handles the read-only JSON API
type APIHandler struct {
	store  port.Store
	guard  *navigation.Guard
	logger *zap.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(store port.Store, guard *navigation.Guard, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		store:  store,
		guard:  guard,
		logger: logger,
	}
}

type classifyResponse struct {
	URL               string `json:"url"`
	DomainIndex       int64  `json:"domain_index"`
	Trusted           bool   `json:"trusted"`
	DownloadCandidate bool   `json:"download_candidate"`
	Decision          string `json:"decision"`
}

type domainResponse struct {
	ID        int64     `json:"id"`
	Alias     string    `json:"alias"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type downloadResponse struct {
	ID          string     `json:"id"`
	ViewID      string     `json:"view_id,omitempty"`
	URL         string     `json:"url"`
	Status      string     `json:"status"`
	FilePath    string     `json:"file_path,omitempty"`
	FileName    string     `json:"file_name,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// HandleClassify classifies a URL without acting on it
func (h *APIHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "Missing url parameter", http.StatusBadRequest)
		return
	}
	index, err := strconv.ParseInt(r.URL.Query().Get("domain_index"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid domain_index parameter", http.StatusBadRequest)
		return
	}

	c := h.guard.Classify(domain.NavigationRequest{URL: rawURL, DomainIndex: index})
	writeJSON(w, classifyResponse{
		URL:               rawURL,
		DomainIndex:       index,
		Trusted:           c.IsTrusted,
		DownloadCandidate: c.IsDownloadCandidate,
		Decision:          string(c.Decision()),
	})
}

// HandleDownloads lists recent downloads
func (h *APIHandler) HandleDownloads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.store.ListDownloads(limit)
	if err != nil {
		h.logger.Error("failed to list downloads", zap.Error(err))
		http.Error(w, "Failed to list downloads", http.StatusInternalServerError)
		return
	}

	out := make([]downloadResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, downloadResponse{
			ID:          rec.ID,
			ViewID:      rec.ViewID,
			URL:         rec.URL,
			Status:      string(rec.Status),
			FilePath:    rec.FilePath,
			FileName:    rec.FileName,
			RequestedAt: rec.RequestedAt,
			ResolvedAt:  rec.ResolvedAt,
		})
	}
	writeJSON(w, out)
}

// HandleDomains lists registered chat domains
func (h *APIHandler) HandleDomains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	domains, err := h.store.ListDomains()
	if err != nil {
		h.logger.Error("failed to list domains", zap.Error(err))
		http.Error(w, "Failed to list domains", http.StatusInternalServerError)
		return
	}

	out := make([]domainResponse, 0, len(domains))
	for _, d := range domains {
		out = append(out, domainResponse{ID: d.ID, Alias: d.Alias, URL: d.URL, CreatedAt: d.CreatedAt})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
