// Package all registers every ecosystem handler. Import it for its side
// effects when the full handler set is wanted:
//
//	import _ "github.com/git-pkgs/purl2src/all"
package all

import (
	_ "github.com/git-pkgs/purl2src/internal/cargo"
	_ "github.com/git-pkgs/purl2src/internal/conda"
	_ "github.com/git-pkgs/purl2src/internal/generic"
	_ "github.com/git-pkgs/purl2src/internal/github"
	_ "github.com/git-pkgs/purl2src/internal/golang"
	_ "github.com/git-pkgs/purl2src/internal/maven"
	_ "github.com/git-pkgs/purl2src/internal/npm"
	_ "github.com/git-pkgs/purl2src/internal/nuget"
	_ "github.com/git-pkgs/purl2src/internal/pypi"
	_ "github.com/git-pkgs/purl2src/internal/rubygems"
)
