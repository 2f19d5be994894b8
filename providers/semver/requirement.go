package semver

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrEmptyRequirement is returned when a requirement string is blank.
	ErrEmptyRequirement = errors.New("empty range requirement")
	// ErrUnsupportedRule is returned when a sub-rule matches none of the recognized shapes.
	ErrUnsupportedRule = errors.New("unsupported rule syntax")
)

// ruleOprFunc maps a Compare result onto a comparison rule verdict.
type ruleOprFunc func(cmp int) bool

// rangeConfig is used to store requirement parser configuration.
type rangeConfig struct {
	operators             map[string]ruleOprFunc // Supported comparison operators mapped to check functions (e.g. '>=')
	wildcardRgxCompiled   *regexp.Regexp         // Wildcard rule (e.g. '1.2.x')
	hyphenRgxCompiled     *regexp.Regexp         // Hyphen range rule (e.g. '1.0.0 - 2.0.0')
	bracketRgxCompiled    *regexp.Regexp         // Bracket range rule (e.g. '[1.0.0, 2.0.0]')
	comparisonRgxCompiled *regexp.Regexp         // Comparison rule (e.g. '>=1.0.0')
}

// rangeCfg is a global requirement parser configuration.
// Initialized after semverCfg, whose expressions it embeds.
var rangeCfg = newRangeConfig()

// newRangeConfig builds the rule grammar and compiles its expressions.
func newRangeConfig() rangeConfig {
	var cfg rangeConfig
	cfg.operators = map[string]ruleOprFunc{
		">=": func(cmp int) bool { return cmp >= 0 },
		">":  func(cmp int) bool { return cmp > 0 },
		"<=": func(cmp int) bool { return cmp <= 0 },
		"<":  func(cmp int) bool { return cmp < 0 },
		"=":  func(cmp int) bool { return cmp == 0 },
	}

	// Convert operators into escaped regex words, longest first so '>' does not shadow '>='.
	ops := make([]string, 0, len(cfg.operators))
	for k := range cfg.operators {
		ops = append(ops, regexp.QuoteMeta(k))
	}
	sort.Slice(ops, func(i, j int) bool { return len(ops[i]) > len(ops[j]) })

	ver := semverCfg.versionRgx
	cfg.wildcardRgxCompiled = regexp.MustCompile(fmt.Sprintf(`^(%[1]s(?:\.%[1]s)*)\.x$`, semverCfg.segmentRgx))
	cfg.hyphenRgxCompiled = regexp.MustCompile(fmt.Sprintf(`^(%[1]s)\s*-\s*(%[1]s)$`, ver))
	cfg.bracketRgxCompiled = regexp.MustCompile(fmt.Sprintf(`^\[\s*(%[1]s)\s*,\s*(%[1]s)\s*\]$`, ver))
	cfg.comparisonRgxCompiled = regexp.MustCompile(fmt.Sprintf(`^(%s)\s*(%s)$`, strings.Join(ops, "|"), ver))
	return cfg
}

// rangeRule pairs one compiled sub-rule predicate with its source text.
type rangeRule struct {
	raw   string
	match func(v Version) bool
}

// compileRule recognizes one trimmed sub-rule and compiles it into a rangeRule.
//
// The shapes are tried in a fixed order: exact version, wildcard, hyphen
// range, bracket range, comparison. A rule like '1.0.0-2.0.0' is therefore
// an exact version with the pre-release identifier '2.0.0', not a range;
// ranges need whitespace or brackets.
func compileRule(rule string) (rangeRule, error) {
	if semverCfg.versionRgxCompiled.MatchString(rule) {
		bound, err := NewVersion(rule)
		if err != nil {
			return rangeRule{}, err
		}
		return rangeRule{raw: rule, match: func(v Version) bool {
			return Compare(v, bound) == 0
		}}, nil
	}

	if matches := rangeCfg.wildcardRgxCompiled.FindStringSubmatch(rule); matches != nil {
		prefix := regexp.MustCompile(`^` + regexp.QuoteMeta(matches[1]+"."))
		return rangeRule{raw: rule, match: func(v Version) bool {
			return prefix.MatchString(v.Value())
		}}, nil
	}

	if matches := rangeCfg.hyphenRgxCompiled.FindStringSubmatch(rule); matches != nil {
		return compileBetween(rule, matches[1], matches[2])
	}

	if matches := rangeCfg.bracketRgxCompiled.FindStringSubmatch(rule); matches != nil {
		return compileBetween(rule, matches[1], matches[2])
	}

	if matches := rangeCfg.comparisonRgxCompiled.FindStringSubmatch(rule); matches != nil {
		opr := rangeCfg.operators[matches[1]]
		bound, err := NewVersion(matches[2])
		if err != nil {
			return rangeRule{}, err
		}
		return rangeRule{raw: rule, match: func(v Version) bool {
			return opr(Compare(v, bound))
		}}, nil
	}

	return rangeRule{}, fmt.Errorf("%w: %q", ErrUnsupportedRule, rule)
}

// compileBetween compiles an inclusive range rule from two bound strings.
// Bounds written in reverse order are swapped so the rule is order-independent.
func compileBetween(raw, lo, hi string) (rangeRule, error) {
	low, err := NewVersion(lo)
	if err != nil {
		return rangeRule{}, err
	}
	high, err := NewVersion(hi)
	if err != nil {
		return rangeRule{}, err
	}
	if Compare(low, high) > 0 {
		low, high = high, low
	}
	return rangeRule{raw: raw, match: func(v Version) bool {
		return Compare(v, low) >= 0 && Compare(v, high) <= 0
	}}, nil
}

// RangeRequirement represents a compiled version constraint expression.
type RangeRequirement struct {
	value string
	rules []rangeRule
}

// NewRangeRequirement constructs a ready-to-use RangeRequirement instance.
//
// The requirement is split on the literal '||' separator and each trimmed
// piece is compiled on its own; a version satisfies the requirement when any
// piece matches. One unsupported piece fails the whole parse.
func NewRangeRequirement(value string) (*RangeRequirement, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyRequirement, value)
	}

	pieces := strings.Split(value, "||")
	rules := make([]rangeRule, len(pieces))
	for i, piece := range pieces {
		rule, err := compileRule(strings.TrimSpace(piece))
		if err != nil {
			return nil, err
		}
		rules[i] = rule
	}

	return &RangeRequirement{value: value, rules: rules}, nil
}

// Match method validates that the version satisfies at least one sub-rule.
func (rr *RangeRequirement) Match(v Version) bool {
	for _, rule := range rr.rules {
		if rule.match(v) {
			return true
		}
	}
	return false
}

// Value method returns original unmodified raw value of the requirement,
// even when only a single sub-rule was present.
func (rr *RangeRequirement) Value() string {
	return rr.value
}

func (rr *RangeRequirement) String() string {
	return rr.value
}
