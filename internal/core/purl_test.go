package core

import "testing"

func TestParsePURL(t *testing.T) {
	p, err := ParsePURL("pkg:npm/%40angular/core@12.0.0")
	if err != nil {
		t.Fatalf("ParsePURL failed: %v", err)
	}

	if p.Type != "npm" {
		t.Errorf("type %q, want npm", p.Type)
	}
	if p.Namespace != "@angular" {
		t.Errorf("namespace %q, want @angular", p.Namespace)
	}
	if p.Name != "core" {
		t.Errorf("name %q, want core", p.Name)
	}
	if p.Version != "12.0.0" {
		t.Errorf("version %q, want 12.0.0", p.Version)
	}
}

func TestParsePURLInvalid(t *testing.T) {
	if _, err := ParsePURL("not-a-purl"); err == nil {
		t.Error("expected parse error")
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		purl string
		want string
	}{
		{"pkg:npm/%40angular/core@12.0.0", "@angular/core"},
		{"pkg:npm/lodash@4.17.21", "lodash"},
		{"pkg:golang/github.com/gorilla/mux@v1.8.0", "github.com/gorilla/mux"},
	}
	for _, tt := range tests {
		p, err := ParsePURL(tt.purl)
		if err != nil {
			t.Fatalf("ParsePURL(%q) failed: %v", tt.purl, err)
		}
		if got := p.FullName(); got != tt.want {
			t.Errorf("FullName(%q) = %q, want %q", tt.purl, got, tt.want)
		}
	}
}

func TestQualifier(t *testing.T) {
	p, err := ParsePURL("pkg:maven/org.apache/commons@1.0?type=pom&classifier=sources")
	if err != nil {
		t.Fatalf("ParsePURL failed: %v", err)
	}

	if got := p.Qualifier("type"); got != "pom" {
		t.Errorf("type qualifier %q, want pom", got)
	}
	if got := p.Qualifier("classifier"); got != "sources" {
		t.Errorf("classifier qualifier %q, want sources", got)
	}
	if got := p.Qualifier("missing"); got != "" {
		t.Errorf("missing qualifier %q, want empty", got)
	}
}
