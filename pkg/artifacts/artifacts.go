// Package artifacts collects build outputs into a publish directory.
//
// After a package build the working directory holds the built packages,
// build logs, and the manifest sources. The Collector gathers everything
// matching the configured patterns into one output directory that CI jobs
// can upload as-is, and drops a collection.json receipt describing what
// was gathered.
package artifacts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

// ReceiptName is the file name of the collection receipt written to the
// output directory.
const ReceiptName = "collection.json"

// DefaultPatterns matches the build outputs worth keeping: packages,
// build logs, and the manifest sources.
var DefaultPatterns = []string{"*.pkg.tar.*", "*.log", pkgbuild.ManifestName, pkgbuild.SrcinfoName}

// packageSuffixes are the compression formats makepkg produces.
var packageSuffixes = []string{".pkg.tar.xz", ".pkg.tar.zst", ".pkg.tar.gz"}

// Kind classifies a collected file.
type Kind string

const (
	KindPackage Kind = "package"
	KindLog     Kind = "log"
	KindSource  Kind = "source"
	KindOther   Kind = "other"
)

// Collector gathers build outputs from a package directory.
type Collector struct {
	// OutputDir receives the collected files. Created if missing.
	OutputDir string
	// Patterns are the glob patterns to collect, relative to the package
	// directory.
	Patterns []string
	// PreserveSources copies manifest sources instead of moving them, so
	// the package directory stays buildable.
	PreserveSources bool
	// Logger reports per-file collection at debug level.
	Logger *log.Logger
}

// New creates a Collector with the default patterns and source
// preservation enabled.
func New(outputDir string) *Collector {
	return &Collector{
		OutputDir:       outputDir,
		Patterns:        DefaultPatterns,
		PreserveSources: true,
		Logger:          log.Default(),
	}
}

// Summary counts what a collection gathered.
type Summary struct {
	Total    int `json:"total"`
	Packages int `json:"packages"`
	Logs     int `json:"logs"`
	Sources  int `json:"sources"`
	Others   int `json:"others"`
	Copied   int `json:"copied"`
	Moved    int `json:"moved"`
}

// String formats the summary for log output.
func (s Summary) String() string {
	return fmt.Sprintf("%d artifacts (%d packages, %d logs, %d sources, %d others)",
		s.Total, s.Packages, s.Logs, s.Sources, s.Others)
}

// Receipt records a collection run. It is written as collection.json to
// the output directory so release jobs can verify what a build produced.
type Receipt struct {
	ID          string        `json:"id"`
	CollectedAt time.Time     `json:"collected_at"`
	SourceDir   string        `json:"source_dir"`
	Package     string        `json:"package,omitempty"`
	Version     string        `json:"version,omitempty"`
	Summary     Summary       `json:"summary"`
	Files       []ReceiptFile `json:"files"`
}

// ReceiptFile describes one collected file.
type ReceiptFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Kind Kind   `json:"kind"`
}

// Collect gathers artifacts from dir into the output directory and writes
// the collection receipt.
//
// A build that produced no package files fails with NO_ARTIFACTS; logs and
// sources alone mean the build did not succeed. Package and log files are
// moved, manifest sources are copied when PreserveSources is set.
func (c *Collector) Collect(dir string) (*Receipt, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "creating output directory %s", c.OutputDir)
	}

	matches, err := c.match(dir)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		ID:          uuid.NewString(),
		CollectedAt: time.Now().UTC(),
		SourceDir:   dir,
		Files:       []ReceiptFile{},
	}

	// The manifest names what was built. A directory without a parseable
	// manifest still collects, the receipt just stays anonymous.
	if info, err := pkgbuild.Parse(filepath.Join(dir, pkgbuild.ManifestName)); err == nil {
		receipt.Package = info.Name
		receipt.Version = info.FullVersion()
	}

	// Classify everything first. If the build produced no packages,
	// nothing is moved, so the package directory stays intact for
	// inspection.
	for _, src := range matches {
		name := filepath.Base(src)

		var size int64
		if info, err := os.Stat(src); err == nil {
			size = info.Size()
		}
		receipt.Files = append(receipt.Files, ReceiptFile{Name: name, Size: size, Kind: classify(name)})
	}

	receipt.Summary = summarize(receipt.Files)
	if receipt.Summary.Packages == 0 {
		logDirContents(logger, dir)
		return nil, errors.New(errors.ErrCodeNoArtifacts, "no package files found in %s; the build may have failed before packaging", dir)
	}

	for i, src := range matches {
		file := receipt.Files[i]
		dst := filepath.Join(c.OutputDir, file.Name)

		if file.Kind == KindSource && c.PreserveSources {
			if err := copyFile(src, dst); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "copying %s", file.Name)
			}
			receipt.Summary.Copied++
			logger.Debug("copied artifact", "file", file.Name, "kind", file.Kind)
		} else {
			if err := moveFile(src, dst); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "moving %s", file.Name)
			}
			receipt.Summary.Moved++
			logger.Debug("moved artifact", "file", file.Name, "kind", file.Kind)
		}
	}

	if err := c.writeReceipt(receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func summarize(files []ReceiptFile) Summary {
	s := Summary{Total: len(files)}
	for _, f := range files {
		switch f.Kind {
		case KindPackage:
			s.Packages++
		case KindLog:
			s.Logs++
		case KindSource:
			s.Sources++
		default:
			s.Others++
		}
	}
	return s
}

// match expands the collection patterns against dir, deduplicating files
// matched by more than one pattern.
func (c *Collector) match(dir string) ([]string, error) {
	patterns := c.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]struct{})
	var matches []string
	for _, pattern := range patterns {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad artifact pattern %q", pattern)
		}
		for _, m := range found {
			if _, dup := seen[m]; dup {
				continue
			}
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			seen[m] = struct{}{}
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (c *Collector) writeReceipt(receipt *Receipt) error {
	f, err := os.Create(filepath.Join(c.OutputDir, ReceiptName))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing collection receipt")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(receipt); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding collection receipt")
	}
	return nil
}

// classify determines what a build output is from its file name.
func classify(name string) Kind {
	switch {
	case IsPackage(name):
		return KindPackage
	case strings.HasSuffix(name, ".log"):
		return KindLog
	case name == pkgbuild.ManifestName || name == pkgbuild.SrcinfoName:
		return KindSource
	default:
		return KindOther
	}
}

// IsPackage reports whether name is a built package. Signature files end
// in .sig and are deliberately excluded.
func IsPackage(name string) bool {
	for _, suffix := range packageSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// moveFile renames src to dst, falling back to copy and delete when the
// output directory lives on a different filesystem.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// logDirContents lists the package directory when collection finds no
// packages, to make CI failures diagnosable from the job log.
func logDirContents(logger *log.Logger, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	logger.Debug("package directory contents", "dir", dir, "entries", names)
}
