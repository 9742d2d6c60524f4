package pkgbuild

import (
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/pkgsmith/pkg/errors"
)

// The extraction rules. All patterns are fixed constants compiled at package
// initialization; a compilation failure is a programming defect and panics
// before any parse can run.
var (
	// key = "value"   (value excludes quote, newline, and comment start)
	doubleQuotedPattern = regexp.MustCompile(`(?m)^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*"([^"\n#]*?)"\s*(?:#.*)?$`)

	// key = 'value'
	singleQuotedPattern = regexp.MustCompile(`(?m)^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*'([^'\n#]*?)'\s*(?:#.*)?$`)

	// key = value     (no quotes; stops before a trailing comment)
	unquotedPattern = regexp.MustCompile(`(?m)^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*([^'"\n#]+?)\s*(?:#.*)?$`)

	// key = ( ...possibly spanning multiple lines... )
	arrayPattern = regexp.MustCompile(`(?ms)^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*\(\s*(.*?)\s*\)`)

	// key = rest-of-line, with no quote awareness. Only consulted while a
	// mandatory scalar is still unset after the stricter passes.
	loosePattern = regexp.MustCompile(`(?m)^([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*(.*)$`)

	// Comment suffixes inside array bodies, stripped per physical line.
	commentPattern = regexp.MustCompile(`(?m)#.*$`)

	// Trailing comment on a loose-captured value.
	trailingCommentPattern = regexp.MustCompile(`\s*#.*$`)
)

// arrayBodyCleaner removes quoting and flattens array bodies to one line.
var arrayBodyCleaner = strings.NewReplacer("\n", " ", "\t", " ", "'", "", `"`, "")

// Parse reads the manifest at path and extracts its metadata.
//
// I/O failures are reported as FILE_NOT_FOUND with the path attached;
// validation failures as MISSING_FIELD naming the fields that could not be
// determined and echoing whatever partial values were found.
func Parse(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read manifest %s", path)
	}
	return ParseText(string(data), path)
}

// ParseText extracts metadata from manifest source text. The path is used
// only for error context and may be empty.
func ParseText(src, path string) (*Info, error) {
	b := newBuilder(path)
	b.scalarPass(src)
	b.arrayPass(src)
	if !b.complete() {
		b.fallbackPass(src)
	}
	return b.resolve()
}

// field accumulates one scalar value together with the pass that set it.
type field struct {
	value  string
	source Source
}

// builder collects extraction results across passes and resolves them into
// the final record at the end, so the precedence between passes stays in one
// place instead of being spread over shared mutable state.
type builder struct {
	path    string
	scalars map[string]*field
	arrays  map[string][]string
}

func newBuilder(path string) *builder {
	return &builder{
		path: path,
		scalars: map[string]*field{
			KeyName:    {},
			KeyVersion: {},
			KeyRelease: {},
		},
		arrays: make(map[string][]string),
	}
}

// setScalar records a value for a recognized scalar key. The first non-empty
// value captured for a key wins; later matches never override it.
func (b *builder) setScalar(key, value string, src Source) {
	f, ok := b.scalars[key]
	if !ok || f.value != "" || value == "" {
		return
	}
	f.value = value
	f.source = src
}

// complete reports whether all mandatory scalars have been captured.
func (b *builder) complete() bool {
	for _, f := range b.scalars {
		if f.value == "" {
			return false
		}
	}
	return true
}

// scalarPass applies the double-quoted, single-quoted, and unquoted rules in
// that fixed order, collecting every match of each rule. Scanning quoted
// forms first means a quoted declaration beats an unquoted one for the same
// key regardless of line order.
func (b *builder) scalarPass(src string) {
	for _, p := range []*regexp.Regexp{doubleQuotedPattern, singleQuotedPattern, unquotedPattern} {
		for _, m := range p.FindAllStringSubmatch(src, -1) {
			b.setScalar(m[1], strings.TrimSpace(m[2]), SourceStrict)
		}
	}
}

// arrayPass applies the array rule, cleaning each captured body into tokens.
// Unlike scalars, a recognized array key is overwritten wholesale by every
// match, so the last declaration wins.
func (b *builder) arrayPass(src string) {
	for _, m := range arrayPattern.FindAllStringSubmatch(src, -1) {
		switch key := m[1]; key {
		case KeyArch, KeyDepends, KeyMakeDepends, KeyCheckDepends:
			b.arrays[key] = cleanArrayBody(m[2])
		}
	}
}

// fallbackPass applies the loose key=value rule to recover mandatory scalars
// the stricter rules missed. It trades precision for recall, so it runs only
// when needed and can only fill fields that are still unset.
func (b *builder) fallbackPass(src string) {
	for _, m := range loosePattern.FindAllStringSubmatch(src, -1) {
		value := strings.TrimSpace(m[2])
		value = trailingCommentPattern.ReplaceAllString(value, "")
		value = strings.Trim(value, `"'`)
		b.setScalar(m[1], strings.TrimSpace(value), SourceFallback)
	}
}

// cleanArrayBody turns a raw array body into its tokens: comment suffixes are
// stripped per physical line, quoting is removed, and the remainder is split
// on whitespace. Token order follows the manifest; empty tokens are dropped.
func cleanArrayBody(body string) []string {
	s := commentPattern.ReplaceAllString(body, "")
	s = arrayBodyCleaner.Replace(s)
	return strings.Fields(s)
}

// resolve validates the mandatory scalars and produces the final record.
func (b *builder) resolve() (*Info, error) {
	name := b.scalars[KeyName]
	version := b.scalars[KeyVersion]
	release := b.scalars[KeyRelease]

	var missing []string
	if name.value == "" {
		missing = append(missing, "name")
	}
	if version.value == "" {
		missing = append(missing, "version")
	}
	if release.value == "" {
		missing = append(missing, "release")
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeMissingField,
			"invalid manifest %s: missing %s (found pkgname=%q, pkgver=%q, pkgrel=%q); "+
				"the manifest may use an unusual or dynamic assignment style, which is not evaluated",
			b.path, strings.Join(missing, ", "), name.value, version.value, release.value)
	}

	return &Info{
		Name:         name.value,
		Version:      version.value,
		Release:      release.value,
		Arch:         b.array(KeyArch),
		Depends:      b.array(KeyDepends),
		MakeDepends:  b.array(KeyMakeDepends),
		CheckDepends: b.array(KeyCheckDepends),
		sources: map[string]Source{
			KeyName:    name.source,
			KeyVersion: version.source,
			KeyRelease: release.source,
		},
	}, nil
}

// array returns the tokens captured for key, or an empty slice so the record
// serializes list fields as [] rather than null.
func (b *builder) array(key string) []string {
	if tokens, ok := b.arrays[key]; ok && tokens != nil {
		return tokens
	}
	return []string{}
}
