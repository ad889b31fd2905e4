package vo

import (
	"errors"
	"net/url"
	"strings"
)

// DomainPrefix represents the trusted base URL of a chat server.
// A zero DomainPrefix trusts nothing.
type DomainPrefix struct {
	scheme string
	host   string
	path   string
}

var (
	ErrEmptyPrefix   = errors.New("domain prefix cannot be empty")
	ErrInvalidPrefix = errors.New("domain prefix must be an absolute http or https URL")
)

// NewDomainPrefix parses and normalizes a trusted domain prefix.
// The scheme and host are lower-cased and any trailing slash is dropped.
func NewDomainPrefix(raw string) (DomainPrefix, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DomainPrefix{}, ErrEmptyPrefix
	}

	u, err := url.Parse(raw)
	if err != nil {
		return DomainPrefix{}, ErrInvalidPrefix
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return DomainPrefix{}, ErrInvalidPrefix
	}
	if u.Host == "" || u.User != nil {
		return DomainPrefix{}, ErrInvalidPrefix
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return DomainPrefix{}, ErrInvalidPrefix
	}

	return DomainPrefix{
		scheme: scheme,
		host:   strings.ToLower(u.Host),
		path:   strings.TrimRight(u.Path, "/"),
	}, nil
}

// MustDomainPrefix creates a new DomainPrefix, panicking if invalid.
func MustDomainPrefix(raw string) DomainPrefix {
	p, err := NewDomainPrefix(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// EmptyDomainPrefix returns a prefix that matches no URL.
func EmptyDomainPrefix() DomainPrefix {
	return DomainPrefix{}
}

// String returns the normalized prefix.
func (p DomainPrefix) String() string {
	if p.IsEmpty() {
		return ""
	}
	return p.scheme + "://" + p.host + p.path
}

// URL returns the prefix as a parsed URL, or nil when empty.
func (p DomainPrefix) URL() *url.URL {
	if p.IsEmpty() {
		return nil
	}
	return &url.URL{Scheme: p.scheme, Host: p.host, Path: p.path + "/"}
}

// Scheme returns the lower-cased scheme.
func (p DomainPrefix) Scheme() string {
	return p.scheme
}

// Host returns the lower-cased host, including any port.
func (p DomainPrefix) Host() string {
	return p.host
}

// Path returns the prefix path without a trailing slash.
func (p DomainPrefix) Path() string {
	return p.path
}

// IsEmpty returns true if the prefix trusts nothing.
func (p DomainPrefix) IsEmpty() bool {
	return p.host == ""
}

// Equals checks if two prefixes are equal.
func (p DomainPrefix) Equals(other DomainPrefix) bool {
	return p == other
}
