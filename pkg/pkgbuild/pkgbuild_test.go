package pkgbuild

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pkgsmith/pkg/errors"
)

func mustParseText(t *testing.T, src string) *Info {
	t.Helper()
	info, err := ParseText(src, "PKGBUILD")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	return info
}

func TestParseText_QuotingStyles(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "double quoted",
			src:  "pkgname=\"demo\"\npkgver=\"1.0.0\"\npkgrel=\"1\"\n",
		},
		{
			name: "single quoted",
			src:  "pkgname='demo'\npkgver='1.0.0'\npkgrel='1'\n",
		},
		{
			name: "unquoted",
			src:  "pkgname=demo\npkgver=1.0.0\npkgrel=1\n",
		},
		{
			name: "mixed styles",
			src:  "pkgname=\"demo\"\npkgver='1.0.0'\npkgrel=1\n",
		},
		{
			name: "leading whitespace",
			src:  "  pkgname=\"demo\"\n\tpkgver=\"1.0.0\"\n pkgrel=1\n",
		},
		{
			name: "trailing comments",
			src:  "pkgname=\"demo\" # the name\npkgver=1.0.0  # upstream version\npkgrel=1\t# first release\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := mustParseText(t, tt.src)
			if info.Name != "demo" {
				t.Errorf("Name = %q, want %q", info.Name, "demo")
			}
			if info.Version != "1.0.0" {
				t.Errorf("Version = %q, want %q", info.Version, "1.0.0")
			}
			if info.Release != "1" {
				t.Errorf("Release = %q, want %q", info.Release, "1")
			}
		})
	}
}

func TestParseText_FullRecord(t *testing.T) {
	src := `pkgname="demo"
pkgver="1.0.0"
pkgrel=1
arch=('x86_64' 'aarch64')
depends=('glibc')
makedepends=('gcc' 'make')
`
	info := mustParseText(t, src)

	if info.Name != "demo" || info.Version != "1.0.0" || info.Release != "1" {
		t.Errorf("scalars = %q/%q/%q, want demo/1.0.0/1", info.Name, info.Version, info.Release)
	}
	if !slices.Equal(info.Arch, []string{"x86_64", "aarch64"}) {
		t.Errorf("Arch = %v", info.Arch)
	}
	if !slices.Equal(info.Depends, []string{"glibc"}) {
		t.Errorf("Depends = %v", info.Depends)
	}
	if !slices.Equal(info.MakeDepends, []string{"gcc", "make"}) {
		t.Errorf("MakeDepends = %v", info.MakeDepends)
	}
	if len(info.CheckDepends) != 0 {
		t.Errorf("CheckDepends = %v, want empty", info.CheckDepends)
	}
	if info.CheckDepends == nil {
		t.Error("CheckDepends is nil, want empty slice")
	}

	if got := info.FullVersion(); got != "1.0.0-1" {
		t.Errorf("FullVersion() = %q, want %q", got, "1.0.0-1")
	}
	if got := info.AllDependencies(); !slices.Equal(got, []string{"glibc", "gcc", "make"}) {
		t.Errorf("AllDependencies() = %v", got)
	}
}

func TestParseText_MultiLineArray(t *testing.T) {
	src := `pkgname=demo
pkgver=1.0.0
pkgrel=1
depends=(
    'dep1'
    'dep2>=1.0'  # comment
    'dep3'
)
`
	info := mustParseText(t, src)
	if !slices.Equal(info.Depends, []string{"dep1", "dep2>=1.0", "dep3"}) {
		t.Errorf("Depends = %v, want [dep1 dep2>=1.0 dep3]", info.Depends)
	}
}

func TestParseText_ArrayCleaning(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "mixed quoting",
			src:  "depends=(\"glibc\" 'zlib' openssl)\n",
			want: []string{"glibc", "zlib", "openssl"},
		},
		{
			name: "tabs and extra spaces",
			src:  "depends=(  glibc\t\tzlib   openssl )\n",
			want: []string{"glibc", "zlib", "openssl"},
		},
		{
			name: "comment only lines",
			src:  "depends=(\n  # block one\n  glibc\n  # block two\n  zlib\n)\n",
			want: []string{"glibc", "zlib"},
		},
		{
			name: "empty array",
			src:  "depends=()\n",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "pkgname=demo\npkgver=1\npkgrel=1\n" + tt.src
			info := mustParseText(t, src)
			if !slices.Equal(info.Depends, tt.want) {
				t.Errorf("Depends = %v, want %v", info.Depends, tt.want)
			}
		})
	}
}

func TestParseText_DuplicateScalars(t *testing.T) {
	t.Run("same style keeps first", func(t *testing.T) {
		src := "pkgname=\"first\"\npkgname=\"second\"\npkgver=1\npkgrel=1\n"
		info := mustParseText(t, src)
		if info.Name != "first" {
			t.Errorf("Name = %q, want %q", info.Name, "first")
		}
	})

	t.Run("quoted beats earlier unquoted", func(t *testing.T) {
		// The quoted passes scan before the unquoted pass, so a later
		// quoted declaration still wins over an earlier unquoted one.
		src := "pkgver=2.0.0\npkgname=demo\npkgrel=1\npkgver=\"1.0.0\"\n"
		info := mustParseText(t, src)
		if info.Version != "1.0.0" {
			t.Errorf("Version = %q, want %q", info.Version, "1.0.0")
		}
	})

	t.Run("empty first value is skipped", func(t *testing.T) {
		src := "pkgname=\"\"\npkgname=\"real\"\npkgver=1\npkgrel=1\n"
		info := mustParseText(t, src)
		if info.Name != "real" {
			t.Errorf("Name = %q, want %q", info.Name, "real")
		}
	})
}

func TestParseText_DuplicateArraysLastWins(t *testing.T) {
	src := `pkgname=demo
pkgver=1
pkgrel=1
depends=('old1' 'old2')
depends=('new1')
`
	info := mustParseText(t, src)
	if !slices.Equal(info.Depends, []string{"new1"}) {
		t.Errorf("Depends = %v, want [new1]", info.Depends)
	}
}

func TestParseText_UnrecognizedKeysIgnored(t *testing.T) {
	src := `pkgname=demo
pkgver=1.0.0
pkgrel=1
pkgdesc="A demo package"
url="https://example.com"
license=('MIT')
source=("https://example.com/demo-$pkgver.tar.gz")
sha256sums=('deadbeef')
options=(!strip)
`
	info := mustParseText(t, src)
	if info.Name != "demo" || info.Version != "1.0.0" || info.Release != "1" {
		t.Errorf("scalars = %q/%q/%q", info.Name, info.Version, info.Release)
	}
	if len(info.Depends) != 0 || len(info.Arch) != 0 {
		t.Errorf("unexpected lists: depends=%v arch=%v", info.Depends, info.Arch)
	}
}

func TestParseText_RealisticManifest(t *testing.T) {
	src := `# Maintainer: Demo Person <demo@example.com>
pkgname=tools-meta
pkgver=2.7.1
pkgrel=3
pkgdesc="Meta package for build tooling"
arch=('x86_64')
url="https://example.com/tools"
license=('GPL')
depends=('glibc' 'zlib>=1.2')
makedepends=(
    'gcc'
    'cmake'   # needs >= 3.20 at build time
)
checkdepends=('python-pytest')
source=("$pkgname-$pkgver.tar.gz")
sha256sums=('SKIP')

build() {
    cd "$srcdir/$pkgname-$pkgver"
    : "${CFLAGS:=-O2}"
    make PREFIX=/usr
}

check() {
    cd "$srcdir/$pkgname-$pkgver"
    make test
}

package() {
    cd "$srcdir/$pkgname-$pkgver"
    make DESTDIR="$pkgdir" install
}
`
	info := mustParseText(t, src)

	if info.Name != "tools-meta" {
		t.Errorf("Name = %q", info.Name)
	}
	if got := info.FullVersion(); got != "2.7.1-3" {
		t.Errorf("FullVersion() = %q", got)
	}
	if !slices.Equal(info.Arch, []string{"x86_64"}) {
		t.Errorf("Arch = %v", info.Arch)
	}
	if !slices.Equal(info.Depends, []string{"glibc", "zlib>=1.2"}) {
		t.Errorf("Depends = %v", info.Depends)
	}
	if !slices.Equal(info.MakeDepends, []string{"gcc", "cmake"}) {
		t.Errorf("MakeDepends = %v", info.MakeDepends)
	}
	if !slices.Equal(info.CheckDepends, []string{"python-pytest"}) {
		t.Errorf("CheckDepends = %v", info.CheckDepends)
	}
	want := []string{"glibc", "zlib>=1.2", "gcc", "cmake", "python-pytest"}
	if got := info.AllDependencies(); !slices.Equal(got, want) {
		t.Errorf("AllDependencies() = %v, want %v", got, want)
	}
}

func TestParseText_FallbackRecovery(t *testing.T) {
	// The unterminated quote defeats the strict rules; the loose pass
	// recovers the value and strips the stray quote.
	src := "pkgname=demo\npkgver=\"1.0.0\npkgrel=1\n"
	info := mustParseText(t, src)

	if info.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", info.Version, "1.0.0")
	}
	if got := info.FieldSource(KeyVersion); got != SourceFallback {
		t.Errorf("FieldSource(pkgver) = %v, want %v", got, SourceFallback)
	}
	if got := info.FieldSource(KeyName); got != SourceStrict {
		t.Errorf("FieldSource(pkgname) = %v, want %v", got, SourceStrict)
	}
}

func TestParseText_FallbackOnlyFillsGaps(t *testing.T) {
	// pkgrel needs the fallback pass, but pkgname and pkgver were already
	// captured strictly and must not be overridden by looser matches.
	src := "pkgname=demo\npkgver=1.0.0\npkgrel=\"7\n"
	info := mustParseText(t, src)

	if info.Name != "demo" || info.Version != "1.0.0" || info.Release != "7" {
		t.Errorf("scalars = %q/%q/%q, want demo/1.0.0/7", info.Name, info.Version, info.Release)
	}
	if got := info.FieldSource(KeyName); got != SourceStrict {
		t.Errorf("FieldSource(pkgname) = %v, want %v", got, SourceStrict)
	}
	if got := info.FieldSource(KeyRelease); got != SourceFallback {
		t.Errorf("FieldSource(pkgrel) = %v, want %v", got, SourceFallback)
	}
}

func TestParseText_MissingFields(t *testing.T) {
	t.Run("missing pkgrel", func(t *testing.T) {
		src := "pkgname=\"demo\"\npkgver=\"1.0.0\"\n"
		_, err := ParseText(src, "some/PKGBUILD")
		if err == nil {
			t.Fatal("expected error for missing pkgrel")
		}
		if !errors.Is(err, errors.ErrCodeMissingField) {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMissingField)
		}
		msg := err.Error()
		if !strings.Contains(msg, "release") {
			t.Errorf("error does not name the missing field: %v", msg)
		}
		if !strings.Contains(msg, `pkgname="demo"`) || !strings.Contains(msg, `pkgver="1.0.0"`) {
			t.Errorf("error does not echo partial values: %v", msg)
		}
		if !strings.Contains(msg, "some/PKGBUILD") {
			t.Errorf("error does not include the path: %v", msg)
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		_, err := ParseText("", "PKGBUILD")
		if err == nil {
			t.Fatal("expected error for empty manifest")
		}
		for _, field := range []string{"name", "version", "release"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error does not name %q: %v", field, err)
			}
		}
	})

	t.Run("dynamic version function", func(t *testing.T) {
		src := `pkgname=demo-git
pkgrel=1

pkgver() {
    cd "$srcdir/demo"
    git describe --long --tags
}
`
		_, err := ParseText(src, "PKGBUILD")
		if err == nil {
			t.Fatal("expected error for dynamic pkgver")
		}
		if !errors.Is(err, errors.ErrCodeMissingField) {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMissingField)
		}
		if !strings.Contains(err.Error(), "version") {
			t.Errorf("error does not name version: %v", err)
		}
	})
}

func TestParseText_Idempotent(t *testing.T) {
	src := `pkgname=demo
pkgver=1.0.0
pkgrel=1
arch=('x86_64')
depends=('glibc' 'glibc')
`
	first := mustParseText(t, src)
	second := mustParseText(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("records differ:\n%+v\n%+v", first, second)
	}

	// Duplicates inside a list are preserved, not deduplicated.
	if !slices.Equal(first.Depends, []string{"glibc", "glibc"}) {
		t.Errorf("Depends = %v, want duplicates preserved", first.Depends)
	}
}

func TestParse(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ManifestName)
		src := "pkgname=demo\npkgver=1.0.0\npkgrel=1\n"
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}

		info, err := Parse(path)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if info.Name != "demo" {
			t.Errorf("Name = %q", info.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "PKGBUILD"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
		}
	})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("pkgname=x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("alpha/PKGBUILD")
	write("beta/PKGBUILD")
	// Build residue below a package dir must not be discovered.
	write("alpha/src/vendored/PKGBUILD")
	// Hidden trees are skipped.
	write(".git/refs/PKGBUILD")
	write("notes/README.md")

	found, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "alpha", "PKGBUILD"),
		filepath.Join(dir, "beta", "PKGBUILD"),
	}
	if !slices.Equal(found, want) {
		t.Errorf("Discover = %v, want %v", found, want)
	}
}

func TestDiscover_RootIsPackageDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte("pkgname=x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if !slices.Equal(found, []string{path}) {
		t.Errorf("Discover = %v, want [%s]", found, path)
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{SourceUnset, "unset"},
		{SourceStrict, "strict"},
		{SourceFallback, "fallback"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.src, got, tt.want)
		}
	}
}
