package cli

import (
	"os"
	"strings"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

// argOrEmpty returns the single optional positional argument.
func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// resolveManifest turns a command's path argument into a concrete PKGBUILD
// path. An empty argument means the current directory. Directories are
// searched recursively; several candidates open the interactive picker on
// a terminal and fail with the candidate list otherwise.
func (c *CLI) resolveManifest(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}

	info, err := os.Stat(arg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", arg)
	}
	if !info.IsDir() {
		return arg, nil
	}

	candidates, err := pkgbuild.Discover(arg)
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return "", errors.New(errors.ErrCodeFileNotFound, "no %s found under %s", pkgbuild.ManifestName, arg).
			WithHint("pass the path to a PKGBUILD or run inside the package directory")
	case 1:
		return candidates[0], nil
	}

	if !isTerminal(os.Stdout) {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"%d manifests found under %s, pass one explicitly:\n  %s",
			len(candidates), arg, strings.Join(candidates, "\n  "))
	}
	return pickManifest(candidates)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
