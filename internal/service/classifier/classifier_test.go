package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/domain/vo"
)

func TestClassifier_Classify(t *testing.T) {
	prefix := vo.MustDomainPrefix("https://chat.example.com")
	c := New(nil)

	tests := []struct {
		name string
		url  string
		want domain.Decision
	}{
		{name: "upload pdf is downloaded", url: "https://chat.example.com/user_uploads/1/2/abc/report.pdf", want: domain.DecisionDownload},
		{name: "upload png renders inline", url: "https://chat.example.com/user_uploads/1/2/abc/photo.png", want: domain.DecisionNavigate},
		{name: "upload image extension is case-insensitive", url: "https://chat.example.com/user_uploads/1/2/abc/photo.JPEG", want: domain.DecisionNavigate},
		{name: "image query string ignored", url: "https://chat.example.com/user_uploads/1/a.webp?s=100", want: domain.DecisionNavigate},
		{name: "image-looking query on a pdf", url: "https://chat.example.com/user_uploads/1/a.pdf?x=.png", want: domain.DecisionDownload},
		{name: "upload without extension", url: "https://chat.example.com/user_uploads/1/2/abc/README", want: domain.DecisionDownload},
		{name: "trusted page", url: "https://chat.example.com/#narrow/stream/1", want: domain.DecisionNavigate},
		{name: "trusted root", url: "https://chat.example.com", want: domain.DecisionNavigate},
		{name: "explicit default port", url: "https://chat.example.com:443/user_uploads/1/a.zip", want: domain.DecisionDownload},
		{name: "host case-insensitive", url: "https://CHAT.example.com/user_uploads/1/a.zip", want: domain.DecisionDownload},
		{name: "relative upload", url: "/user_uploads/1/2/notes.txt", want: domain.DecisionDownload},
		{name: "relative page", url: "help/keyboard", want: domain.DecisionNavigate},
		{name: "untrusted host", url: "https://evil.example/phish", want: domain.DecisionExternal},
		{name: "untrusted host with upload path", url: "https://evil.example/user_uploads/1/a.pdf", want: domain.DecisionExternal},
		{name: "suffix-extended host", url: "https://chat.example.com.evil.example/user_uploads/a.pdf", want: domain.DecisionExternal},
		{name: "user info trick", url: "https://chat.example.com@evil.example/", want: domain.DecisionExternal},
		{name: "protocol-relative other host", url: "//evil.example/x", want: domain.DecisionExternal},
		{name: "scheme downgrade", url: "http://chat.example.com/user_uploads/a.pdf", want: domain.DecisionExternal},
		{name: "other port", url: "https://chat.example.com:8443/", want: domain.DecisionExternal},
		{name: "mailto", url: "mailto:someone@chat.example.com", want: domain.DecisionExternal},
		{name: "empty", url: "", want: domain.DecisionExternal},
		{name: "malformed", url: "https://chat.example.com/%zz", want: domain.DecisionExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.url, prefix)
			assert.Equal(t, tt.want, got.Decision(), "Classify(%q) = %+v", tt.url, got)
		})
	}
}

func TestClassifier_PrefixWithPath(t *testing.T) {
	prefix := vo.MustDomainPrefix("https://chat.example.com/team")
	c := New(nil)

	tests := []struct {
		name string
		url  string
		want domain.Decision
	}{
		{name: "inside path", url: "https://chat.example.com/team/stream", want: domain.DecisionNavigate},
		{name: "path itself", url: "https://chat.example.com/team", want: domain.DecisionNavigate},
		{name: "upload under team", url: "https://chat.example.com/team/user_uploads/1/a.pdf", want: domain.DecisionDownload},
		{name: "upload at host root is not this domain's upload path", url: "https://chat.example.com/user_uploads/1/a.pdf", want: domain.DecisionExternal},
		{name: "sibling path sharing a prefix", url: "https://chat.example.com/teammates", want: domain.DecisionExternal},
		{name: "dot segments escaping path", url: "https://chat.example.com/team/../other", want: domain.DecisionExternal},
		{name: "relative resolves under path", url: "user_uploads/1/a.pdf", want: domain.DecisionDownload},
		{name: "absolute-path reference escapes path", url: "/other", want: domain.DecisionExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.url, prefix)
			assert.Equal(t, tt.want, got.Decision(), "Classify(%q) = %+v", tt.url, got)
		})
	}
}

func TestClassifier_EmptyPrefixFailsClosed(t *testing.T) {
	c := New(nil)
	got := c.Classify("https://chat.example.com/user_uploads/a.pdf", vo.EmptyDomainPrefix())
	assert.False(t, got.IsTrusted)
	assert.False(t, got.IsDownloadCandidate)
}

func TestClassifier_CustomPolicy(t *testing.T) {
	c := New(&Policy{
		UploadsPath:     "files",
		ImageExtensions: []string{".SVG", " png "},
	})
	prefix := vo.MustDomainPrefix("https://chat.example.com")

	assert.Equal(t, domain.DecisionNavigate, c.Classify("https://chat.example.com/files/a.svg", prefix).Decision())
	assert.Equal(t, domain.DecisionNavigate, c.Classify("https://chat.example.com/files/a.png", prefix).Decision())
	assert.Equal(t, domain.DecisionDownload, c.Classify("https://chat.example.com/files/a.gif", prefix).Decision())
	assert.Equal(t, domain.DecisionNavigate, c.Classify("https://chat.example.com/user_uploads/a.pdf", prefix).Decision())
}

func TestClassifier_IsImage(t *testing.T) {
	c := New(nil)
	for _, p := range []string{"/a.png", "/a.JPG", "/x/y.gif", "/a.bmp", "/a.webp", "/a.jpeg"} {
		assert.True(t, c.IsImage(p), p)
	}
	for _, p := range []string{"/a.pdf", "/a", "/a.png.exe", "/", "/a.svg"} {
		assert.False(t, c.IsImage(p), p)
	}
}
