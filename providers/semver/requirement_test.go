package semver

import (
	"errors"
	"fmt"
	"testing"
)

func TestRangeRequirement_Value(t *testing.T) {
	raws := []string{
		">=1.0.0 || <0.5.0",
		"  1.2.3  ",
		"[1.0.0, 2.0.0]",
	}
	for _, raw := range raws {
		rr, err := NewRangeRequirement(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rr.Value() != raw {
			t.Errorf("expected requirement value %q, got %q", raw, rr.Value())
		}
		if rr.String() != raw {
			t.Errorf("expected requirement string %q, got %q", raw, rr.String())
		}
	}
}

func TestRangeRequirement_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		rr, err := NewRangeRequirement(raw)
		if err == nil {
			t.Fatalf("expected error on blank requirement %q, got none", raw)
		}
		if !errors.Is(err, ErrEmptyRequirement) {
			t.Errorf("expected ErrEmptyRequirement, got %v", err)
		}
		if rr != nil {
			t.Errorf("expected nil requirement on error, got '%+v'", rr)
		}
	}
}

func TestRangeRequirement_Unsupported(t *testing.T) {
	cases := []string{
		"banana",
		"~1.2.3",
		"^1.2.3",
		">=1.0.0 || banana", // one bad sub-rule fails the whole parse
		"1.0.0 -",
		"[1.0.0, 2.0.0",
		"x.2.3",
	}
	for _, raw := range cases {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			rr, err := NewRangeRequirement(raw)
			if err == nil {
				t.Fatalf("expected error on unsupported requirement %q, got none", raw)
			}
			if !errors.Is(err, ErrUnsupportedRule) {
				t.Errorf("expected ErrUnsupportedRule, got %v", err)
			}
			if rr != nil {
				t.Errorf("expected nil requirement on error, got '%+v'", rr)
			}
		})
	}
}

func TestRangeRequirementAndVersion_MatchMethod(t *testing.T) {
	// Table test
	cases := []struct {
		Requirement string
		Version     string
		Result      bool
	}{
		// Exact
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.4", false},
		{"1.2.3", "1.2.3+build", true},
		{"1.0.0-alpha", "1.0.0-alpha", true},
		{"1.0.0-alpha", "1.0.0", false},
		// A hyphen with no surrounding whitespace is a pre-release, not a range
		{"1.0.0-2.0.0", "1.0.0-2.0.0", true},
		{"1.0.0-2.0.0", "1.5.0", false},
		// Wildcard select
		{"1.2.x", "1.2.0", true},
		{"1.2.x", "1.2.5-beta", true},
		{"1.2.x", "1.3.0", false},
		{"1.2.x", "1.22.0", false},
		{"1.x", "1.7.0", true},
		{"1.x", "2.0.0", false},
		// Hyphen range, inclusive and order-independent
		{"1.0.0 - 2.0.0", "1.5.0", true},
		{"1.0.0 - 2.0.0", "1.0.0", true},
		{"1.0.0 - 2.0.0", "2.0.0", true},
		{"1.0.0 - 2.0.0", "2.0.1", false},
		{"1.0.0 - 2.0.0", "0.9.9", false},
		{"2.0.0 - 1.0.0", "1.5.0", true},
		{"2.0.0 - 1.0.0", "2.0.1", false},
		// Bracket range, same semantics
		{"[1.0.0,2.0.0]", "1.5.0", true},
		{"[1.0.0, 2.0.0]", "2.0.0", true},
		{"[1.0.0, 2.0.0]", "2.0.1", false},
		// Comparison operators
		{">=1.0.0", "1.0.0", true},
		{">=1.0.0", "2.0.0", true},
		{">=1.0.0", "0.9.9", false},
		{">1.0.0", "1.0.0", false},
		{">1.0.0", "1.0.1", true},
		{"<=1.0.0", "1.0.0", true},
		{"<=1.0.0", "1.0.1", false},
		{"<1.0.0", "1.0.0-rc.1", true},
		{"<1.0.0", "1.0.0", false},
		{"=1.2.3", "1.2.3", true},
		{"=1.2.3", "1.2.4", false},
		{">= 1.0.0", "1.0.0", true},
		// OR combination, short-circuiting on first match
		{">=1.0.0 || <0.5.0", "0.1.0", true},
		{">=1.0.0 || <0.5.0", "2.0.0", true},
		{">=1.0.0 || <0.5.0", "0.7.0", false},
		{"1.2.x || 2.0.0 - 3.0.0", "2.5.0", true},
		{"1.2.x || 2.0.0 - 3.0.0", "1.2.9", true},
		{"1.2.x || 2.0.0 - 3.0.0", "1.3.0", false},
	}

	for _, tcase := range cases {
		caseName := fmt.Sprintf("%q->%q", tcase.Version, tcase.Requirement)
		t.Run(caseName, func(t *testing.T) {
			raw := tcase.Requirement
			rr, err := NewRangeRequirement(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rr.Value() != raw {
				t.Fatalf("unexpected requirement value, expected %q, got %q", raw, rr.Value())
			}

			ver, err := NewVersion(tcase.Version)
			if err != nil {
				t.Fatalf("unexpected error on version creation: %v", err)
			}
			if rr.Match(ver) != tcase.Result {
				t.Errorf("incorrect requirement(%q)->version(%q) match result, expected '%t', got '%t'", tcase.Requirement, tcase.Version, tcase.Result, !tcase.Result)
			}
			if ver.Match(rr) != tcase.Result {
				t.Errorf("incorrect version(%q)->requirement(%q) match result, expected '%t', got '%t'", tcase.Version, tcase.Requirement, tcase.Result, !tcase.Result)
			}
		})
	}
}
