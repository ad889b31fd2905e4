package vo

import (
	"errors"
	"testing"
)

func TestNewDomainPrefix(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain host", raw: "https://chat.example.com", want: "https://chat.example.com"},
		{name: "trailing slash dropped", raw: "https://chat.example.com/", want: "https://chat.example.com"},
		{name: "host lower-cased", raw: "HTTPS://Chat.Example.COM", want: "https://chat.example.com"},
		{name: "with port and path", raw: "http://localhost:9991/team/", want: "http://localhost:9991/team"},
		{name: "surrounding whitespace", raw: "  https://chat.example.com  ", want: "https://chat.example.com"},
		{name: "empty", raw: "", wantErr: ErrEmptyPrefix},
		{name: "relative", raw: "/team", wantErr: ErrInvalidPrefix},
		{name: "non-http scheme", raw: "file:///etc/passwd", wantErr: ErrInvalidPrefix},
		{name: "user info", raw: "https://user@chat.example.com", wantErr: ErrInvalidPrefix},
		{name: "query string", raw: "https://chat.example.com/?a=b", wantErr: ErrInvalidPrefix},
		{name: "unparseable", raw: "https://chat example.com/%zz", wantErr: ErrInvalidPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDomainPrefix(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewDomainPrefix(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				if !got.IsEmpty() {
					t.Errorf("NewDomainPrefix(%q) returned non-empty prefix on error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDomainPrefix(%q) unexpected error: %v", tt.raw, err)
			}
			if got.String() != tt.want {
				t.Errorf("String() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestDomainPrefix_URL(t *testing.T) {
	p := MustDomainPrefix("https://chat.example.com/team")
	u := p.URL()
	if u.String() != "https://chat.example.com/team/" {
		t.Errorf("URL() = %q, want trailing slash form", u.String())
	}

	if EmptyDomainPrefix().URL() != nil {
		t.Error("URL() of empty prefix should be nil")
	}
}

func TestDomainPrefix_Equals(t *testing.T) {
	a := MustDomainPrefix("https://chat.example.com/")
	b := MustDomainPrefix("https://CHAT.example.com")
	if !a.Equals(b) {
		t.Error("normalized prefixes should be equal")
	}
	if a.Equals(EmptyDomainPrefix()) {
		t.Error("prefix should not equal empty prefix")
	}
}
