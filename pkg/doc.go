// Package pkg provides the core libraries for pkgsmith package building.
//
// # Overview
//
// Pkgsmith automates Arch Linux packaging in CI: it reads PKGBUILD manifests
// without executing them, installs their dependencies, runs the build through
// an AUR helper, and collects the artifacts for upload. The pkg directory is
// organized into three main areas:
//
//  1. Manifest handling (parsing, version metadata)
//  2. Build execution (dependencies, build, artifacts)
//  3. Registry lookups (official repos, AUR, caching)
//
// # Architecture
//
// The typical data flow through pkgsmith:
//
//	PKGBUILD manifest
//	         ↓
//	    [pkgbuild] package (textual extraction, no shell execution)
//	         ↓
//	    [deps] package (install depends/makedepends/checkdepends)
//	         ↓
//	    [build] package (run the AUR helper, verify output)
//	         ↓
//	    [artifacts] package (collect packages, logs, receipt)
//	         ↓
//	    *.pkg.tar.zst + version.env + collection.json
//
// # Quick Start
//
// Parse a manifest and collect its dependency set:
//
//	import "github.com/matzehuels/pkgsmith/pkg/pkgbuild"
//
//	info, err := pkgbuild.Parse("PKGBUILD")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(info.Name, info.FullVersion())
//	for _, spec := range info.AllDependencies() {
//	    fmt.Println(spec)
//	}
//
// # Main Packages
//
// [pkgbuild] - Restricted PKGBUILD parser. Extracts name, version, release,
// architectures, and the three dependency classes from manifest text with
// compiled patterns, so untrusted manifests are never executed.
//
// [deps] - Dependency installation through pacman or an AUR helper, including
// the rust/rustup conflict resolution needed on rustup-based runners.
//
// [build] - Package build execution. Runs the configured helper in the
// manifest directory and fails when no package files are produced.
//
// [artifacts] - Artifact collection. Moves packages and logs to the output
// directory, copies manifest sources, and writes a collection receipt.
//
// [versionfile] - version.env generation for downstream CI jobs, with GitLab
// CI detection.
//
// [registry] - Read-only clients for the official repository search API and
// the AUR RPC, plus the resolver that classifies dependency specs.
//
// [cache] - Cache backends for registry lookups: file, Redis, scoped, and
// null implementations behind one interface.
//
// [render] - Dependency graph rendering to Graphviz DOT and SVG.
//
// [config] - TOML configuration with defaults, discovery, and validation.
//
// [run] - Subprocess execution with logging and context cancellation.
//
// [errors] - Coded errors shared across all packages.
//
// [buildinfo] - Build metadata injected at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/pkgbuild/...  # Specific package
//
// [pkgbuild]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/pkgbuild
// [deps]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/deps
// [build]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/build
// [artifacts]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/artifacts
// [versionfile]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/versionfile
// [registry]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/registry
// [cache]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/config
// [run]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/run
// [errors]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pkgsmith/pkg/buildinfo
package pkg
