package classifier

import (
	"net/url"
	"path"
	"strings"

	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/domain/vo"
)

// DefaultUploadsPath is where chat servers serve user-uploaded files
const DefaultUploadsPath = "/user_uploads/"

// DefaultImageExtensions are rendered inline instead of downloaded
var DefaultImageExtensions = []string{"bmp", "gif", "jpg", "jpeg", "png", "webp"}

// Policy configures the classifier
type Policy struct {
	UploadsPath     string
	ImageExtensions []string
}

// DefaultPolicy returns the default classification policy
func DefaultPolicy() *Policy {
	exts := make([]string, len(DefaultImageExtensions))
	copy(exts, DefaultImageExtensions)
	return &Policy{
		UploadsPath:     DefaultUploadsPath,
		ImageExtensions: exts,
	}
}

// Classifier decides whether a URL belongs to a trusted chat domain
// and whether it should be diverted to a download.
type Classifier struct {
	uploadsPath string
	images      map[string]struct{}
}

// New creates a Classifier. A nil policy uses DefaultPolicy.
func New(policy *Policy) *Classifier {
	if policy == nil {
		policy = DefaultPolicy()
	}

	uploads := strings.Trim(policy.UploadsPath, "/")
	if uploads == "" {
		uploads = strings.Trim(DefaultUploadsPath, "/")
	}

	exts := policy.ImageExtensions
	if len(exts) == 0 {
		exts = DefaultImageExtensions
	}
	images := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			images[ext] = struct{}{}
		}
	}

	return &Classifier{
		uploadsPath: "/" + uploads + "/",
		images:      images,
	}
}

// Classify matches rawURL against the trusted prefix. It never fails:
// anything that cannot be matched is untrusted.
func (c *Classifier) Classify(rawURL string, prefix vo.DomainPrefix) domain.Classification {
	var untrusted domain.Classification

	if prefix.IsEmpty() {
		return untrusted
	}

	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return untrusted
	}

	u, err := url.Parse(raw)
	if err != nil {
		return untrusted
	}

	// Relative links stay inside the view's domain.
	if !u.IsAbs() && u.Host == "" {
		u = prefix.URL().ResolveReference(u)
	}

	if !strings.EqualFold(u.Scheme, prefix.Scheme()) {
		return untrusted
	}
	if u.User != nil {
		return untrusted
	}
	if canonicalHost(u.Scheme, u.Host) != canonicalHost(prefix.Scheme(), prefix.Host()) {
		return untrusted
	}

	p := cleanPath(u.Path)
	base := prefix.Path()
	if base != "" && p != base && !strings.HasPrefix(p, base+"/") {
		return untrusted
	}

	uploads := strings.HasPrefix(p, base+c.uploadsPath)
	return domain.Classification{
		IsTrusted:           true,
		IsDownloadCandidate: uploads && !c.IsImage(p),
	}
}

// IsImage reports whether the path ends in an inline image extension.
// Query strings and fragments must already be stripped.
func (c *Classifier) IsImage(p string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ext == "" {
		return false
	}
	_, ok := c.images[ext]
	return ok
}

// cleanPath resolves dot segments the way a browser would before loading
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// canonicalHost lower-cases the host and drops the scheme's default port
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch strings.ToLower(scheme) {
	case "https":
		host = strings.TrimSuffix(host, ":443")
	case "http":
		host = strings.TrimSuffix(host, ":80")
	}
	return host
}
