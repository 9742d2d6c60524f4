package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

func testManifest() *pkgbuild.Info {
	return &pkgbuild.Info{
		Name:         "demo-tool",
		Version:      "1.2.3",
		Release:      "2",
		Arch:         []string{"x86_64"},
		Depends:      []string{"glibc", "openssl"},
		MakeDepends:  []string{"gcc"},
		CheckDepends: []string{"bats"},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testManifest(), Options{})

	if !strings.Contains(dot, "digraph deps") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"demo-tool"`) {
		t.Error("ToDOT() output missing package node")
	}
	if !strings.Contains(dot, "1.2.3-2") {
		t.Error("ToDOT() package label missing full version")
	}
	if !strings.Contains(dot, `"demo-tool" -> "glibc";`) {
		t.Error("ToDOT() output missing runtime edge")
	}
	if !strings.Contains(dot, `"demo-tool" -> "gcc" [style=dashed];`) {
		t.Error("ToDOT() output missing dashed build-time edge")
	}
	if !strings.Contains(dot, `"demo-tool" -> "bats" [style=dotted];`) {
		t.Error("ToDOT() output missing dotted test-time edge")
	}
}

func TestToDOT_ClassColors(t *testing.T) {
	dot := ToDOT(testManifest(), Options{})

	for _, want := range []string{colorPackage, colorRuntime, colorMake, colorCheck} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing fill color %s", want)
		}
	}
}

func TestToDOT_Constraints(t *testing.T) {
	m := &pkgbuild.Info{
		Name:    "demo-tool",
		Version: "1.0.0",
		Release: "1",
		Depends: []string{"python>=3.11"},
	}

	plain := ToDOT(m, Options{})
	if !strings.Contains(plain, `"python" [label="python",`) {
		t.Errorf("ToDOT() should strip constraints from labels by default:\n%s", plain)
	}

	detailed := ToDOT(m, Options{Constraints: true})
	if !strings.Contains(detailed, `"python" [label="python>=3.11",`) {
		t.Errorf("ToDOT() with Constraints should keep the version constraint in labels:\n%s", detailed)
	}
	if strings.Contains(detailed, `"python>=3.11" ->`) || strings.Contains(detailed, `-> "python>=3.11"`) {
		t.Error("ToDOT() node IDs should always use the bare package name")
	}
}

func TestToDOT_DuplicateAcrossClasses(t *testing.T) {
	m := &pkgbuild.Info{
		Name:        "demo-tool",
		Version:     "1.0.0",
		Release:     "1",
		Depends:     []string{"cmake"},
		MakeDepends: []string{"cmake"},
	}

	dot := ToDOT(m, Options{})

	if got := strings.Count(dot, `"cmake" [`); got != 1 {
		t.Errorf("ToDOT() should define duplicate dependency once, got %d definitions", got)
	}
	if got := strings.Count(dot, `"demo-tool" -> "cmake"`); got != 2 {
		t.Errorf("ToDOT() should keep one edge per class, got %d edges", got)
	}
}

func TestToDOT_NoDependencies(t *testing.T) {
	m := &pkgbuild.Info{Name: "standalone", Version: "0.1.0", Release: "1"}

	dot := ToDOT(m, Options{})

	if !strings.Contains(dot, `"standalone"`) {
		t.Error("ToDOT() output missing package node")
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() output should have no edges for a manifest without dependencies")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("ToDOT() output missing closing brace")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(testManifest(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
