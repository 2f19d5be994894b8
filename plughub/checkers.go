package plughub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plughub/plughub-core/providers/api/registry"
	"github.com/plughub/plughub-core/providers/parsers"
	"github.com/plughub/plughub-core/providers/semver"
)

// CompatChecker represents checkers interface.
type CompatChecker interface {
	// HostCompatible reports whether the given host application version satisfies
	// the manifest's host requirement.
	HostCompatible(hostVersion string, manifest *parsers.Manifest) (bool, error)
	// CompatibleReleases returns registry releases of the named plugin that satisfy the requirement.
	CompatibleReleases(ctx context.Context, name, requirement string) ([]ReleaseInfo, error)
}

// ReleaseInfo represents one acceptable plugin release.
type ReleaseInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// NewRegistryCompatChecker constructs new RegistryCompatChecker.
func NewRegistryCompatChecker(httpClient *http.Client) CompatChecker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	api := registry.NewRegistryClient(httpClient, nil)

	return &RegistryCompatChecker{api: api}
}

// RegistryCompatChecker represents registry-backed plugin compatibility checker.
type RegistryCompatChecker struct {
	api registry.Client
}

// HostCompatible reports whether the given host application version satisfies
// the manifest's host requirement.
//
// A manifest without a host requirement accepts any host version.
func (cc RegistryCompatChecker) HostCompatible(hostVersion string, manifest *parsers.Manifest) (bool, error) {
	if manifest.Host == "" {
		return true, nil
	}

	ver, err := semver.NewVersion(hostVersion)
	if err != nil {
		return false, fmt.Errorf("unable to parse host version: %w", err)
	}
	rr, err := semver.NewRangeRequirement(manifest.Host)
	if err != nil {
		return false, fmt.Errorf("unable to parse host requirement of plugin %q: %w", manifest.Name, err)
	}

	return rr.Match(ver), nil
}

// CompatibleReleases returns registry releases of the named plugin that satisfy the requirement.
//
// Yanked releases and releases with versions this package can't parse are skipped.
func (cc RegistryCompatChecker) CompatibleReleases(ctx context.Context, name, requirement string) ([]ReleaseInfo, error) {
	rr, err := semver.NewRangeRequirement(requirement)
	if err != nil {
		return nil, fmt.Errorf("unable to parse requirement: %w", err)
	}

	info, _, err := cc.api.Plugin(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch plugin %q from the registry: %w", name, err)
	}

	result := []ReleaseInfo{}
	for _, release := range info.Releases {
		if release.Yanked {
			continue
		}
		ver, err := semver.NewVersion(release.Version)
		if err != nil {
			continue
		}
		if rr.Match(ver) {
			result = append(result, ReleaseInfo{Name: info.Name, Version: release.Version, URL: release.URL})
		}
	}

	return result, nil
}

// UnsatisfiedDependencies checks manifest dependency requirements against
// installed plugin versions ('plugin name' to 'version string' map) and
// returns the dependencies that are missing or out of range.
func UnsatisfiedDependencies(installed map[string]string, manifest *parsers.Manifest) ([]parsers.Dependency, error) {
	unsatisfied := []parsers.Dependency{}
	for _, dep := range manifest.Dependencies {
		raw, ok := installed[dep.Name]
		if !ok {
			unsatisfied = append(unsatisfied, dep)
			continue
		}

		ver, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("unable to parse installed version of %q: %w", dep.Name, err)
		}
		rr, err := semver.NewRangeRequirement(dep.Requirement)
		if err != nil {
			return nil, fmt.Errorf("unable to parse dependency requirement of %q: %w", dep.Name, err)
		}

		if !rr.Match(ver) {
			unsatisfied = append(unsatisfied, dep)
		}
	}
	return unsatisfied, nil
}
