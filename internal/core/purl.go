// Package core provides the shared types, the handler registry, and the
// resolution strategy engine.
package core

import (
	packageurl "github.com/package-url/packageurl-go"
)

// PURL wraps packageurl.PackageURL with resolution-specific helpers.
type PURL struct {
	packageurl.PackageURL
}

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:cargo/serde) and version PURLs
// (pkg:cargo/serde@1.0.0).
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	return &PURL{p}, nil
}

// FullName returns the package name in the format expected by the registry.
// For npm: "@angular/core", for golang: "github.com/gorilla/mux".
func (p *PURL) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "/" + p.Name
}

// Qualifier returns the value of the named qualifier, or "" if absent.
func (p *PURL) Qualifier(key string) string {
	for _, q := range p.Qualifiers {
		if q.Key == key {
			return q.Value
		}
	}
	return ""
}

// String returns the canonical PURL string form.
func (p *PURL) String() string {
	return p.ToString()
}
