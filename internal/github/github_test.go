package github

import (
	"context"
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

func TestBuildDownloadURL(t *testing.T) {
	h := &Handler{}
	tests := []struct {
		name string
		purl string
		want string
	}{
		{
			"clone url with version",
			"pkg:github/gorilla/mux@v1.8.0",
			"https://github.com/gorilla/mux.git",
		},
		{
			"clone url without version",
			"pkg:github/gorilla/mux",
			"https://github.com/gorilla/mux.git",
		},
		{
			"raw file with version",
			"pkg:github/gorilla/mux@v1.8.0#README.md",
			"https://raw.githubusercontent.com/gorilla/mux/v1.8.0/README.md",
		},
		{
			"raw file defaults to main",
			"pkg:github/gorilla/mux#docs/intro.md",
			"https://raw.githubusercontent.com/gorilla/mux/main/docs/intro.md",
		},
		{"no namespace", "pkg:github/mux@v1.8.0", ""},
	}
	for _, tt := range tests {
		got, err := h.BuildDownloadURL(mustPURL(t, tt.purl))
		if err != nil {
			t.Fatalf("%s: BuildDownloadURL failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: BuildDownloadURL = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDownloadURLFromAPIRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/gorilla/mux/releases/tags/v1.8.0" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"tarball_url":"https://api.github.com/repos/gorilla/mux/tarball/v1.8.0"}`))
	}))
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:github/gorilla/mux@v1.8.0"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://api.github.com/repos/gorilla/mux/tarball/v1.8.0" {
		t.Errorf("url %q", got)
	}
}

func TestDownloadURLFromAPINoReleaseFallsBackToArchive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:github/gorilla/mux@v1.8.0"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://github.com/gorilla/mux/archive/refs/tags/v1.8.0.tar.gz" {
		t.Errorf("url %q, want archive fallback", got)
	}
}

func TestDownloadURLFromAPIBranchSkipsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("releases API called for a branch name")
	}))
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:github/gorilla/mux@main"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://github.com/gorilla/mux/archive/refs/tags/main.tar.gz" {
		t.Errorf("url %q", got)
	}
}

func TestFallbackCommand(t *testing.T) {
	h := &Handler{}
	got := h.FallbackCommand(mustPURL(t, "pkg:github/gorilla/mux@v1.8.0"))
	if got != "git clone https://github.com/gorilla/mux.git && cd mux && git checkout v1.8.0" {
		t.Errorf("command %q", got)
	}
	got = h.FallbackCommand(mustPURL(t, "pkg:github/gorilla/mux"))
	if got != "git clone https://github.com/gorilla/mux.git" {
		t.Errorf("command %q", got)
	}
}
