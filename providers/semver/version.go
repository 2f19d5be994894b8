/*
Package semver provides semantic version and range requirement parsing
for plugin compatibility checks.

A Version is parsed once from its string form and is immutable afterwards.
A RangeRequirement compiles a human-written constraint expression (e.g.
'>=1.0.0 || 2.1.x') into a predicate over versions.
*/
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidVersion is returned when a version string does not match the accepted grammar.
	ErrInvalidVersion = errors.New("invalid version format")
)

// semverConfig is used to store version parser configuration.
type semverConfig struct {
	segmentRgx         string         // Single numeric segment, no leading zeros (e.g. '0', '17')
	mainRgx            string         // Main version run, at least major.minor (e.g. '1.2.3')
	identifierRgx      string         // Pre-release identifier (e.g. 'beta.2')
	metadataRgx        string         // Build metadata (e.g. 'build-117')
	versionRgx         string         // Full version expression without capture groups, for embedding
	versionRgxCompiled *regexp.Regexp // Compiled full version regexp with main/identifier/metadata groups
}

// semverCfg is a global version parser configuration.
// A var initializer (not init) keeps it ahead of the requirement parser
// configuration, which embeds these expressions.
var semverCfg = newSemverConfig()

// newSemverConfig builds the version grammar and compiles its expressions.
func newSemverConfig() semverConfig {
	var cfg semverConfig
	cfg.segmentRgx = `(?:0|[1-9][0-9]*)`
	cfg.mainRgx = fmt.Sprintf(`%[1]s(?:\.%[1]s)+`, cfg.segmentRgx)
	identTokenRgx := fmt.Sprintf(`(?:%s|[0-9]*[A-Za-z-][0-9A-Za-z-]*)`, cfg.segmentRgx)
	cfg.identifierRgx = fmt.Sprintf(`%[1]s(?:\.%[1]s)*`, identTokenRgx)
	cfg.metadataRgx = `[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*`

	cfg.versionRgx = fmt.Sprintf(`%s(?:-%s)?(?:\+%s)?`, cfg.mainRgx, cfg.identifierRgx, cfg.metadataRgx)
	cfg.versionRgxCompiled = regexp.MustCompile(fmt.Sprintf(
		`^(%s)(?:-(%s))?(?:\+(%s))?$`, cfg.mainRgx, cfg.identifierRgx, cfg.metadataRgx,
	))
	return cfg
}

// Version represents a parsed semantic version.
// The zero value is not a valid version, use NewVersion.
type Version struct {
	main       []int
	identifier string
	metadata   string
	value      string
}

// NewVersion constructs a ready-to-use Version instance.
//
// The accepted shape is 'MAJOR.MINOR[.PATCH...][-IDENTIFIER][+METADATA]':
// at least two numeric segments without leading zeros, an optional
// dot-separated pre-release identifier and optional build metadata.
func NewVersion(value string) (Version, error) {
	matches := semverCfg.versionRgxCompiled.FindStringSubmatch(value)
	if matches == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, value)
	}

	segments := strings.Split(matches[1], ".")
	main := make([]int, len(segments))
	for i, segment := range segments {
		n, err := strconv.Atoi(segment)
		if err != nil {
			// The grammar only admits plain decimal runs, so this is a bug, not bad input.
			return Version{}, fmt.Errorf("internal segment parse error on %q: %v", value, err)
		}
		main[i] = n
	}

	return Version{main: main, identifier: matches[2], metadata: matches[3], value: value}, nil
}

// Main method returns the numeric main version segments (major, minor, ...).
func (v Version) Main() []int {
	main := make([]int, len(v.main))
	copy(main, v.main)
	return main
}

// Identifier method returns the pre-release identifier, empty if absent.
func (v Version) Identifier() string {
	return v.identifier
}

// Metadata method returns the build metadata, empty if absent.
// Metadata never participates in comparison.
func (v Version) Metadata() string {
	return v.metadata
}

// Value method returns original unmodified raw value of the version.
func (v Version) Value() string {
	return v.value
}

func (v Version) String() string {
	return v.value
}

// Match method validates that the version is in the requirement range.
func (v Version) Match(rr *RangeRequirement) bool {
	return rr.Match(v)
}

// Compare returns -1, 0 or 1 when a sorts before, equal to or after b.
//
// The order is total: main segments are compared numerically with the
// shorter run zero-padded, a release outranks any pre-release of the same
// main version and pre-release identifiers are compared per segment.
// Build metadata is always ignored.
func Compare(a, b Version) int {
	if c := compareMain(a.main, b.main); c != 0 {
		return c
	}
	if a.identifier == b.identifier {
		return 0
	}

	switch {
	case a.identifier == "":
		return 1 // release outranks pre-release
	case b.identifier == "":
		return -1
	}

	return compareIdentifiers(a.identifier, b.identifier)
}

// compareMain compares main version runs, treating missing segments as zero.
func compareMain(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var as, bs int
		if i < len(a) {
			as = a[i]
		}
		if i < len(b) {
			bs = b[i]
		}
		if as != bs {
			if as < bs {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compareIdentifiers compares two non-empty pre-release identifiers.
//
// The shared literal prefix is trimmed first, but only up to the last
// non-digit character so that a shared numeric run stays intact for the
// numeric chunk comparison ('RC19' vs 'RC107' trims 'RC', not 'RC1').
func compareIdentifiers(a, b string) int {
	n := sharedPrefixLen(a, b)
	ac := splitChunks(a[n:])
	bc := splitChunks(b[n:])

	for i := 0; i < len(ac) || i < len(bc); i++ {
		switch {
		case i >= len(ac):
			return -1 // 'dev' < 'dev-1'
		case i >= len(bc):
			return 1
		}
		if c := compareChunk(ac[i], bc[i]); c != 0 {
			return c
		}
	}
	return 0
}

// sharedPrefixLen returns the length of the common prefix of a and b,
// counted only through the most recent non-digit character.
func sharedPrefixLen(a, b string) int {
	n := 0
	for i := 0; i < len(a) && i < len(b) && a[i] == b[i]; i++ {
		if a[i] < '0' || a[i] > '9' {
			n = i + 1
		}
	}
	return n
}

// splitChunks splits an identifier remainder on '.' and '-' separators.
func splitChunks(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '-' })
}

// compareChunk compares two identifier chunks, numerically when both are
// non-negative integers and bytewise otherwise.
func compareChunk(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
