package rubygems

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

func mustPURL(t *testing.T, s string) *core.PURL {
	t.Helper()
	p, err := core.ParsePURL(s)
	if err != nil {
		t.Fatalf("ParsePURL(%q) failed: %v", s, err)
	}
	return p
}

func apiServer(t *testing.T, meta map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(meta)
	}))
}

func TestBuildDownloadURL(t *testing.T) {
	h := &Handler{}
	got, err := h.BuildDownloadURL(mustPURL(t, "pkg:gem/rails@7.0.0"))
	if err != nil {
		t.Fatalf("BuildDownloadURL failed: %v", err)
	}
	if got != "https://rubygems.org/downloads/rails-7.0.0.gem" {
		t.Errorf("url %q", got)
	}
}

func TestDownloadURLFromAPIGemURIWins(t *testing.T) {
	server := apiServer(t, map[string]string{
		"gem_uri":         "https://rubygems.org/gems/rails-7.0.0.gem",
		"source_code_uri": "https://github.com/rails/rails",
	})
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:gem/rails@7.0.0"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://rubygems.org/gems/rails-7.0.0.gem" {
		t.Errorf("url %q, want gem_uri", got)
	}
}

func TestDownloadURLFromAPISourceCodeURI(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]string
		want string
	}{
		{
			"github source gets .git suffix",
			map[string]string{"source_code_uri": "https://github.com/rails/rails"},
			"https://github.com/rails/rails.git",
		},
		{
			"non-github source returned verbatim",
			map[string]string{"source_code_uri": "https://gitlab.com/example/gem"},
			"https://gitlab.com/example/gem",
		},
		{
			"lookalike host is not github",
			map[string]string{"source_code_uri": "https://github.com.evil.example/rails/rails"},
			"https://github.com.evil.example/rails/rails",
		},
		{
			"github homepage gets .git suffix",
			map[string]string{"homepage_uri": "https://github.com/rails/rails"},
			"https://github.com/rails/rails.git",
		},
		{
			"non-github homepage is ignored",
			map[string]string{"homepage_uri": "https://rubyonrails.org"},
			"",
		},
	}
	for _, tt := range tests {
		server := apiServer(t, tt.meta)
		h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
		got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:gem/rails@7.0.0"))
		server.Close()
		if err != nil {
			t.Fatalf("%s: DownloadURLFromAPI failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: url %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFallbackCommand(t *testing.T) {
	h := &Handler{}
	if got := h.FallbackCommand(mustPURL(t, "pkg:gem/rails@7.0.0")); got != "gem fetch rails --version 7.0.0" {
		t.Errorf("command %q", got)
	}
	if got := h.FallbackCommand(mustPURL(t, "pkg:gem/rails")); got != "" {
		t.Errorf("command %q, want empty without a version", got)
	}
}
