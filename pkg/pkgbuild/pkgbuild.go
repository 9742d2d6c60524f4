// Package pkgbuild extracts structured package metadata from PKGBUILD
// manifests without executing any shell.
//
// # Overview
//
// A PKGBUILD is a shell script, but the metadata pkgsmith needs from it
// (package name, version, release, architectures, and three dependency
// classes) is declared through a restricted assignment subset:
//
//	pkgname="demo"
//	pkgver=1.0.0
//	pkgrel=1
//	arch=('x86_64' 'aarch64')
//	depends=('glibc')
//	makedepends=('gcc' 'make')
//
// Manifests arrive from arbitrary upstream sources and must be treated as
// attacker-influenceable input, so extraction is purely textual: a fixed set
// of patterns compiled once at package initialization, applied in passes,
// with no evaluation of variables, functions, conditionals, or command
// substitution. A manifest that computes its version dynamically (a pkgver()
// function) fails validation as missing-field, it is never executed.
//
// # Extraction passes
//
// Parsing runs a short linear pipeline: a scalar pass (double-quoted,
// single-quoted, then unquoted assignment forms; the first captured value for
// a key wins across the three forms), an array pass (parenthesized, possibly
// multi-line lists; the last match for a key wins), a fallback pass applied
// only while a mandatory scalar is still unset (a loose key=value form with
// no quote awareness), and validation that pkgname, pkgver, and pkgrel were
// all found.
//
// The quoted-before-unquoted scan order means an earlier quoted declaration
// takes precedence over a later unquoted one for the same key, and a
// manifest that assigns a key twice keeps the first occurrence captured.
// Real manifests sometimes redeclare a scalar conditionally; keeping the
// first stable declaration avoids picking up conditional overrides that a
// textual parser cannot evaluate.
//
// Each parsed field carries provenance ([Info.FieldSource]) recording which
// pass produced it, so callers can surface degraded-confidence extractions.
//
// # Concurrency
//
// The package holds only immutable compiled patterns after initialization;
// [Parse] and [ParseText] are safe for concurrent use.
package pkgbuild

// Manifest keys recognized by the scalar passes.
const (
	KeyName    = "pkgname"
	KeyVersion = "pkgver"
	KeyRelease = "pkgrel"
)

// Manifest keys recognized by the array pass.
const (
	KeyArch         = "arch"
	KeyDepends      = "depends"
	KeyMakeDepends  = "makedepends"
	KeyCheckDepends = "checkdepends"
)

// Source records which extraction pass produced a field value.
type Source int

const (
	// SourceUnset marks a field no pass captured.
	SourceUnset Source = iota
	// SourceStrict marks a field captured by the quoted/unquoted scalar pass.
	SourceStrict
	// SourceFallback marks a field recovered by the loose fallback pass.
	SourceFallback
)

// String returns a short label for logging.
func (s Source) String() string {
	switch s {
	case SourceStrict:
		return "strict"
	case SourceFallback:
		return "fallback"
	default:
		return "unset"
	}
}

// Info is the metadata record extracted from a PKGBUILD.
//
// After a successful parse Name, Version, and Release are non-empty; any
// list field may legitimately be empty. List order follows the manifest and
// duplicates are preserved. The record is immutable once returned.
type Info struct {
	Name         string   `json:"name"`          // pkgname
	Version      string   `json:"version"`       // pkgver
	Release      string   `json:"release"`       // pkgrel
	Arch         []string `json:"arch"`          // target architectures
	Depends      []string `json:"depends"`       // runtime dependencies
	MakeDepends  []string `json:"make_depends"`  // build-time dependencies
	CheckDepends []string `json:"check_depends"` // test-time dependencies

	sources map[string]Source
}

// FullVersion returns the pacman-style full version, "pkgver-pkgrel".
func (i *Info) FullVersion() string {
	return i.Version + "-" + i.Release
}

// AllDependencies returns runtime, build-time, and test-time dependencies
// concatenated in that order. Duplicates are preserved.
func (i *Info) AllDependencies() []string {
	all := make([]string, 0, len(i.Depends)+len(i.MakeDepends)+len(i.CheckDepends))
	all = append(all, i.Depends...)
	all = append(all, i.MakeDepends...)
	all = append(all, i.CheckDepends...)
	return all
}

// FieldSource reports which extraction pass produced the value for a scalar
// manifest key (KeyName, KeyVersion, KeyRelease). Array fields are always
// SourceStrict when present.
func (i *Info) FieldSource(key string) Source {
	return i.sources[key]
}
