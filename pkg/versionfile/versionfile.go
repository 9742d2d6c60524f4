// Package versionfile generates the version.env file consumed by CI
// release jobs.
//
// The file is a flat KEY=VALUE environment file. Downstream pipeline
// stages source it to tag releases and name upload targets, so the format
// stays shell-compatible: one assignment per line, values with spaces
// quoted.
package versionfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

// DefaultName is the conventional file name for the version file.
const DefaultName = "version.env"

// File holds the build identity written to version.env.
type File struct {
	Version     string    `json:"version"`      // Upstream version (pkgver)
	Release     string    `json:"release"`      // Package release (pkgrel)
	FullVersion string    `json:"full_version"` // version-release
	PackageName string    `json:"package_name"` // Package name (pkgname)
	TagVersion  string    `json:"tag_version"`  // Git tag driving the build, or the version when untagged
	BuildJobID  string    `json:"build_job_id"` // CI job ID, or "local" outside CI
	BuildDate   time.Time `json:"build_date"`   // When the file was generated (UTC)
	Arch        []string  `json:"arch"`         // Target architectures
}

// New derives a version file from a parsed manifest and the CI
// environment. Outside CI the tag falls back to the manifest version and
// the job ID to "local".
func New(m *pkgbuild.Info, env Environment, now time.Time) *File {
	tag := env.CommitTag
	if tag == "" {
		tag = m.Version
	}
	jobID := env.JobID
	if jobID == "" {
		jobID = "local"
	}
	return &File{
		Version:     m.Version,
		Release:     m.Release,
		FullVersion: m.FullVersion(),
		PackageName: m.Name,
		TagVersion:  tag,
		BuildJobID:  jobID,
		BuildDate:   now.UTC().Truncate(time.Second),
		Arch:        m.Arch,
	}
}

// Render formats the file contents.
func (f *File) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "VERSION=%s\n", f.Version)
	fmt.Fprintf(&b, "PKG_RELEASE=%s\n", f.Release)
	fmt.Fprintf(&b, "FULL_VERSION=%s\n", f.FullVersion)
	fmt.Fprintf(&b, "PACKAGE_NAME=%s\n", f.PackageName)
	fmt.Fprintf(&b, "TAG_VERSION=%s\n", f.TagVersion)
	fmt.Fprintf(&b, "BUILD_JOB_ID=%s\n", f.BuildJobID)
	fmt.Fprintf(&b, "BUILD_DATE=%s\n", f.BuildDate.Format(time.RFC3339))
	fmt.Fprintf(&b, "ARCH=%q\n", strings.Join(f.Arch, " "))
	return b.String()
}

// WriteFile writes the rendered file to path.
func (f *File) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(f.Render()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing %s", path)
	}
	return nil
}

// Load reads and parses a version file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	return Parse(data)
}

// Parse reads KEY=VALUE lines into a File. Blank lines, comments, and
// unknown keys are ignored so the parser tolerates files extended by other
// pipeline stages.
func Parse(data []byte) (*File, error) {
	f := &File{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.TrimSpace(key) {
		case "VERSION":
			f.Version = value
		case "PKG_RELEASE":
			f.Release = value
		case "FULL_VERSION":
			f.FullVersion = value
		case "PACKAGE_NAME":
			f.PackageName = value
		case "TAG_VERSION":
			f.TagVersion = value
		case "BUILD_JOB_ID":
			f.BuildJobID = value
		case "BUILD_DATE":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				f.BuildDate = t
			}
		case "ARCH":
			f.Arch = strings.Fields(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing version file")
	}
	return f, nil
}
