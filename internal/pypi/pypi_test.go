package pypi

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

func TestBuildDownloadURL(t *testing.T) {
	h := &Handler{}
	tests := []struct {
		purl string
		want string
	}{
		{"pkg:pypi/requests@2.31.0", "https://pypi.python.org/packages/source/r/requests/requests-2.31.0.tar.gz"},
		{"pkg:pypi/Django@4.2.0", "https://pypi.python.org/packages/source/d/Django/Django-4.2.0.tar.gz"},
		{"pkg:pypi/requests", ""},
	}
	for _, tt := range tests {
		got, err := h.BuildDownloadURL(mustPURL(t, tt.purl))
		if err != nil {
			t.Fatalf("BuildDownloadURL(%q) failed: %v", tt.purl, err)
		}
		if got != tt.want {
			t.Errorf("BuildDownloadURL(%q) = %q, want %q", tt.purl, got, tt.want)
		}
	}
}

func TestDownloadURLFromAPIPrefersSdist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"releases": map[string]interface{}{
				"2.31.0": []map[string]string{
					{"url": "https://files.pythonhosted.org/requests-2.31.0-py3-none-any.whl", "packagetype": "bdist_wheel"},
					{"url": "https://files.pythonhosted.org/requests-2.31.0.tar.gz", "packagetype": "sdist"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:pypi/requests@2.31.0"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://files.pythonhosted.org/requests-2.31.0.tar.gz" {
		t.Errorf("url %q, want the sdist", got)
	}
}

func TestDownloadURLFromAPITarballSuffixFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"releases": map[string]interface{}{
				"1.0.0": []map[string]string{
					{"url": "https://files.pythonhosted.org/test.tar.gz"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:pypi/test@1.0.0"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://files.pythonhosted.org/test.tar.gz" {
		t.Errorf("url %q", got)
	}
}

func TestDownloadURLFromAPINoVersionUsesLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"urls": []map[string]string{
				{"url": "https://files.pythonhosted.org/requests-2.32.0.tar.gz", "packagetype": "sdist"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	h := &Handler{client: client.DefaultClient(), apiURL: server.URL}
	got, err := h.DownloadURLFromAPI(context.Background(), mustPURL(t, "pkg:pypi/requests"))
	if err != nil {
		t.Fatalf("DownloadURLFromAPI failed: %v", err)
	}
	if got != "https://files.pythonhosted.org/requests-2.32.0.tar.gz" {
		t.Errorf("url %q", got)
	}
}

func TestFallbackCommand(t *testing.T) {
	h := &Handler{}
	got := h.FallbackCommand(mustPURL(t, "pkg:pypi/requests@2.31.0"))
	if got != "pip download --no-deps --no-binary :all: requests%3D%3D2.31.0" {
		t.Errorf("command %q", got)
	}
	if cmd := h.FallbackCommand(mustPURL(t, "pkg:pypi/requests")); cmd != "" {
		t.Errorf("command %q, want empty without a version", cmd)
	}
}

func TestParseFallbackOutput(t *testing.T) {
	h := &Handler{}
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			"downloading line",
			"Collecting requests==2.31.0\n  Downloading https://files.pythonhosted.org/requests-2.31.0.tar.gz (110 kB)\n",
			"https://files.pythonhosted.org/requests-2.31.0.tar.gz",
		},
		{
			"from line",
			"  Using cached requests from https://files.pythonhosted.org/requests-2.31.0.tar.gz\n",
			"https://files.pythonhosted.org/requests-2.31.0.tar.gz",
		},
		{"no url", "ERROR: No matching distribution found\n", ""},
	}
	for _, tt := range tests {
		if got := h.ParseFallbackOutput(tt.output); got != tt.want {
			t.Errorf("%s: ParseFallbackOutput = %q, want %q", tt.name, got, tt.want)
		}
	}
}
