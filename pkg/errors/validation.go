package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// pacmanNameRegex matches valid pacman package names. Names are lowercase
// alphanumerics plus @ . _ + -, and must not start with a hyphen or a dot.
var pacmanNameRegex = regexp.MustCompile(`^[a-z0-9@_+][a-z0-9@._+-]*$`)

// ValidatePackageName validates a pacman package name for safety and
// correctness. It rejects names that could be used for path traversal or
// argument injection when handed to a package manager.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No leading hyphen (would be parsed as a flag)
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	// Check for path and injection patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		" ",    // Word splitting
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidPackage, "package name cannot start with a hyphen: %q", name)
	}

	if !pacmanNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// depSpecRegex splits a dependency specifier into name and optional
// version constraint, e.g. "dep2>=1.0" or "glibc".
var depSpecRegex = regexp.MustCompile(`^([^<>=]+)(?:(>=|<=|>|<|=)(.+))?$`)

// ValidateDependencySpec validates a dependency specifier as extracted from
// a manifest: a package name optionally followed by a version constraint
// (>=, <=, =, >, <). Specifiers come from attacker-influenceable input and
// are later placed on a package-manager command line, so names are held to
// the same rules as ValidatePackageName.
func ValidateDependencySpec(spec string) error {
	if spec == "" {
		return New(ErrCodeInvalidPackage, "dependency specifier cannot be empty")
	}

	m := depSpecRegex.FindStringSubmatch(spec)
	if m == nil {
		return New(ErrCodeInvalidPackage, "invalid dependency specifier: %q", spec)
	}

	if err := ValidatePackageName(m[1]); err != nil {
		return err
	}

	if m[2] != "" && strings.TrimSpace(m[3]) == "" {
		return New(ErrCodeInvalidPackage, "dependency specifier has empty version constraint: %q", spec)
	}

	return nil
}

// SpecName returns the package name portion of a dependency specifier,
// with any version constraint removed. "dep2>=1.0" yields "dep2".
func SpecName(spec string) string {
	if i := strings.IndexAny(spec, "<>="); i >= 0 {
		return spec[:i]
	}
	return spec
}

// ValidatePath validates a file path argument for safety.
// It prevents null-byte injection and enforces a reasonable length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
