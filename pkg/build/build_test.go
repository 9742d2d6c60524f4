package build

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/pkgsmith/pkg/config"
	"github.com/matzehuels/pkgsmith/pkg/errors"
)

func testBuilder(available ...string) *Builder {
	cfg := config.Default()
	b := NewBuilder(cfg.Pacman, cfg.Build, nil)
	b.lookPath = func(name string) bool {
		return slices.Contains(available, name)
	}
	return b
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	// The stub helper exits zero without producing anything, so stage the
	// package file it would have written.
	pkg := filepath.Join(dir, "demo-1.0-1-x86_64.pkg.tar.zst")
	if err := os.WriteFile(pkg, []byte("package"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := testBuilder("true")
	b.Pacman.Primary = "true"

	if err := b.Build(context.Background(), dir); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
}

func TestBuildNoPackagesProduced(t *testing.T) {
	b := testBuilder("true")
	b.Pacman.Primary = "true"

	err := b.Build(context.Background(), t.TempDir())
	if !errors.Is(err, errors.ErrCodeBuildFailed) {
		t.Errorf("expected BUILD_FAILED for empty output, got %v", err)
	}
}

func TestBuildSignatureOnlyIsNotAPackage(t *testing.T) {
	dir := t.TempDir()
	sig := filepath.Join(dir, "demo-1.0-1-x86_64.pkg.tar.zst.sig")
	if err := os.WriteFile(sig, []byte("sig"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := testBuilder("true")
	b.Pacman.Primary = "true"

	err := b.Build(context.Background(), dir)
	if !errors.Is(err, errors.ErrCodeBuildFailed) {
		t.Errorf("expected BUILD_FAILED when only a signature exists, got %v", err)
	}
}

func TestBuildHelperMissing(t *testing.T) {
	b := testBuilder()

	err := b.Build(context.Background(), t.TempDir())
	if !errors.Is(err, errors.ErrCodeCommandNotFound) {
		t.Errorf("expected COMMAND_NOT_FOUND, got %v", err)
	}
}

func TestBuildFailure(t *testing.T) {
	b := testBuilder("false")
	b.Pacman.Primary = "false"

	err := b.Build(context.Background(), t.TempDir())
	if !errors.Is(err, errors.ErrCodeBuildFailed) {
		t.Errorf("expected BUILD_FAILED, got %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	b := testBuilder("paru")

	want := []string{"-B", "--noconfirm"}
	if got := b.buildArgs(); !slices.Equal(got, want) {
		t.Errorf("buildArgs = %v, want %v", got, want)
	}

	b.Config.Sign = true
	want = []string{"-B", "--noconfirm", "--sign"}
	if got := b.buildArgs(); !slices.Equal(got, want) {
		t.Errorf("buildArgs with sign = %v, want %v", got, want)
	}
}

func TestClean(t *testing.T) {
	dir := t.TempDir()

	// Stale build outputs and makepkg residue.
	stale := []string{
		"demo-0.9-1-x86_64.pkg.tar.zst",
		"demo-1.0-1-x86_64.pkg.tar.xz",
	}
	for _, name := range stale {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, sub := range []string{"src", "pkg"} {
		if err := os.MkdirAll(filepath.Join(dir, sub, "nested"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// The manifest must survive cleaning.
	if err := os.WriteFile(filepath.Join(dir, "PKGBUILD"), []byte("pkgname=demo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := testBuilder("paru")
	removed, err := b.Clean(dir)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	for _, name := range stale {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", name)
		}
	}
	for _, sub := range []string{"src", "pkg"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); !os.IsNotExist(err) {
			t.Errorf("%s/ should have been removed", sub)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "PKGBUILD")); err != nil {
		t.Error("PKGBUILD must survive cleaning")
	}
}

func TestCleanEmptyDir(t *testing.T) {
	b := testBuilder("paru")

	removed, err := b.Clean(t.TempDir())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
