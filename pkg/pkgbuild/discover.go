package pkgbuild

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/pkgsmith/pkg/errors"
)

// ManifestName is the fixed file name of a package manifest.
const ManifestName = "PKGBUILD"

// SrcinfoName is the generated metadata file that accompanies a manifest.
const SrcinfoName = ".SRCINFO"

// Discover walks root and returns the manifests found, in lexical order.
//
// A directory containing a PKGBUILD is treated as a package directory and
// not descended further: its src/ and pkg/ subtrees are build residue that
// may contain unrelated upstream manifests. Hidden directories are skipped.
func Discover(root string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}

		manifest := filepath.Join(path, ManifestName)
		if fi, err := os.Stat(manifest); err == nil && fi.Mode().IsRegular() {
			found = append(found, manifest)
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "discovering manifests under %s", root)
	}

	return found, nil
}
