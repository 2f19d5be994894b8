package parsers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/plughub/plughub-core/providers/fetchers"
)

// NewPluginParser constructs plugin manifest parser.
// If 'filename' parameter is an empty string - 'plugin.json' will be used instead.
func NewPluginParser(fetcher fetchers.FileFetcher, filename string) ManifestParser {
	if filename == "" {
		return &PluginParser{fetcher: fetcher, SourceName: "plugin.json"}
	}
	return &PluginParser{fetcher: fetcher, SourceName: filename}
}

// PluginParser represents concrete plugin manifest parser implementation.
type PluginParser struct {
	fetcher fetchers.FileFetcher
	// SourceName is the source filename (e.g. 'plugin.json')
	SourceName string
}

// pluginJson represents the plugin manifest file (plugin.json).
type pluginJson struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Host         string            `json:"host"`
	Dependencies map[string]string `json:"dependencies"`
}

// Manifest method returns the plugin manifest declared in the source file.
func (p PluginParser) Manifest(ctx context.Context) (*Manifest, error) {
	b, err := p.fetcher.FileContent(ctx, p.SourceName)
	if err != nil {
		if errors.Is(err, fetchers.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("unable to fetch plugin manifest from the source: %w", err)
	}

	var plugin pluginJson
	if err = json.Unmarshal(b, &plugin); err != nil {
		return nil, fmt.Errorf("unable to parse plugin manifest content: %w", err)
	}

	if plugin.Name == "" {
		return nil, fmt.Errorf("plugin manifest has no name")
	}
	if plugin.Version == "" {
		return nil, fmt.Errorf("plugin manifest %q has no version", plugin.Name)
	}

	deps := make([]Dependency, 0, len(plugin.Dependencies))
	for name, requirement := range plugin.Dependencies {
		deps = append(deps, Dependency{Name: name, Requirement: requirement})
	}
	// Map iteration order is random, keep the manifest deterministic.
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	return &Manifest{
		Name:         plugin.Name,
		Version:      plugin.Version,
		Host:         plugin.Host,
		Dependencies: deps,
	}, nil
}
