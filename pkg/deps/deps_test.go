package deps

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/pkgsmith/pkg/config"
	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

func manifest(t *testing.T, src string) *pkgbuild.Info {
	t.Helper()
	info, err := pkgbuild.ParseText(src, "PKGBUILD")
	if err != nil {
		t.Fatal(err)
	}
	return info
}

func TestResolveRustConflict(t *testing.T) {
	tests := []struct {
		name            string
		specs           []string
		rustupInstalled bool
		wantKept        []string
		wantDropped     []string
	}{
		{
			name:     "no toolchain packages",
			specs:    []string{"glibc", "openssl"},
			wantKept: []string{"glibc", "openssl"},
		},
		{
			name:            "rust with rustup installed",
			specs:           []string{"glibc", "rust", "cargo"},
			rustupInstalled: true,
			wantKept:        []string{"glibc"},
			wantDropped:     []string{"rust", "cargo"},
		},
		{
			name:        "rust without rustup installed",
			specs:       []string{"glibc", "rust"},
			wantKept:    []string{"glibc", "rustup"},
			wantDropped: []string{"rust"},
		},
		{
			name:            "rustup dep with rustup installed",
			specs:           []string{"rustup", "git"},
			rustupInstalled: true,
			wantKept:        []string{"git"},
			wantDropped:     []string{"rustup"},
		},
		{
			name:        "versioned rust constraint",
			specs:       []string{"rust>=1.70", "glibc"},
			wantKept:    []string{"glibc", "rustup"},
			wantDropped: []string{"rust>=1.70"},
		},
		{
			name:     "cargo alone is not a conflict",
			specs:    []string{"cargo", "glibc"},
			wantKept: []string{"cargo", "glibc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, dropped := ResolveRustConflict(tt.specs, tt.rustupInstalled)
			if !slices.Equal(kept, tt.wantKept) {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
			if !slices.Equal(dropped, tt.wantDropped) {
				t.Errorf("dropped = %v, want %v", dropped, tt.wantDropped)
			}
		})
	}
}

func TestInstallerCommand(t *testing.T) {
	cfg := config.PacmanConfig{
		Primary:     "paru",
		Fallback:    "pacman",
		InstallArgs: []string{"-S", "--noconfirm", "--needed", "--asdeps"},
	}

	t.Run("primary available", func(t *testing.T) {
		i := NewInstaller(cfg, nil, nil)
		i.lookPath = func(name string) bool { return name == "paru" }

		name, args := i.command([]string{"glibc", "gcc"})
		if name != "paru" {
			t.Errorf("command = %s, want paru", name)
		}
		want := []string{"-S", "--noconfirm", "--needed", "--asdeps", "glibc", "gcc"}
		if !slices.Equal(args, want) {
			t.Errorf("args = %v, want %v", args, want)
		}
	})

	t.Run("fallback through sudo", func(t *testing.T) {
		i := NewInstaller(cfg, nil, nil)
		i.lookPath = func(name string) bool { return name == "pacman" }

		name, args := i.command([]string{"glibc"})
		// Tests don't run as root in CI, but handle both cases.
		switch name {
		case "sudo":
			want := []string{"pacman", "-S", "--noconfirm", "--needed", "--asdeps", "glibc"}
			if !slices.Equal(args, want) {
				t.Errorf("args = %v, want %v", args, want)
			}
		case "pacman":
			want := []string{"-S", "--noconfirm", "--needed", "--asdeps", "glibc"}
			if !slices.Equal(args, want) {
				t.Errorf("args = %v, want %v", args, want)
			}
		default:
			t.Errorf("command = %s, want sudo or pacman", name)
		}
	})

	t.Run("nothing available", func(t *testing.T) {
		i := NewInstaller(cfg, nil, nil)
		i.lookPath = func(string) bool { return false }

		if name, _ := i.command([]string{"glibc"}); name != "" {
			t.Errorf("command = %s, want empty", name)
		}
	})
}

func TestInstall(t *testing.T) {
	m := manifest(t, `
pkgname="demo"
pkgver="1.0"
pkgrel="1"
depends=('glibc')
makedepends=('gcc')
`)

	// "true" swallows any arguments and exits zero, standing in for the
	// package manager.
	cfg := config.PacmanConfig{
		Primary:     "true",
		Fallback:    "true",
		InstallArgs: []string{"-S"},
	}
	i := NewInstaller(cfg, nil, nil)
	i.lookPath = func(name string) bool { return name == "true" }

	if err := i.Install(context.Background(), m); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
}

func TestInstallNoDependencies(t *testing.T) {
	m := manifest(t, `
pkgname="standalone"
pkgver="1.0"
pkgrel="1"
`)

	cfg := config.PacmanConfig{Primary: "paru", Fallback: "pacman"}
	i := NewInstaller(cfg, nil, nil)
	i.lookPath = func(string) bool { return false }

	// No dependencies means no package manager invocation, so the missing
	// managers must not matter.
	if err := i.Install(context.Background(), m); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
}

func TestInstallNoManager(t *testing.T) {
	m := manifest(t, `
pkgname="demo"
pkgver="1.0"
pkgrel="1"
depends=('glibc')
`)

	cfg := config.PacmanConfig{Primary: "paru", Fallback: "pacman"}
	i := NewInstaller(cfg, nil, nil)
	i.lookPath = func(string) bool { return false }

	err := i.Install(context.Background(), m)
	if !errors.Is(err, errors.ErrCodeCommandNotFound) {
		t.Errorf("expected COMMAND_NOT_FOUND, got %v", err)
	}
}

func TestInstallFailingManager(t *testing.T) {
	m := manifest(t, `
pkgname="demo"
pkgver="1.0"
pkgrel="1"
depends=('glibc')
`)

	cfg := config.PacmanConfig{Primary: "false", Fallback: "false"}
	i := NewInstaller(cfg, nil, nil)
	i.lookPath = func(name string) bool { return name == "false" }

	err := i.Install(context.Background(), m)
	if !errors.Is(err, errors.ErrCodeProcessFailed) {
		t.Errorf("expected PROCESS_FAILED, got %v", err)
	}
}

func TestInstallRejectsInvalidSpec(t *testing.T) {
	m := manifest(t, `
pkgname="demo"
pkgver="1.0"
pkgrel="1"
depends=('glibc' '--nope')
`)

	cfg := config.PacmanConfig{Primary: "true", Fallback: "true"}
	i := NewInstaller(cfg, nil, nil)
	i.lookPath = func(name string) bool { return name == "true" }

	// A spec that would be parsed as a flag never reaches the manager.
	err := i.Install(context.Background(), m)
	if !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("expected INVALID_PACKAGE, got %v", err)
	}
}

func TestInstallRustConflictDisabled(t *testing.T) {
	m := manifest(t, `
pkgname="rust-tool"
pkgver="1.0"
pkgrel="1"
makedepends=('rust')
`)

	cfg := config.PacmanConfig{
		Primary:            "true",
		Fallback:           "true",
		HandleRustConflict: false,
	}
	i := NewInstaller(cfg, nil, nil)
	i.lookPath = func(name string) bool { return name == "true" || name == "rustup" }

	// With conflict handling off the rust dep passes through untouched;
	// this just verifies the install still runs.
	if err := i.Install(context.Background(), m); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
}
