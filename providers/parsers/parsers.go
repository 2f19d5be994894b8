/*
Package parsers provides parsers for plugin manifest files.

Goals:
 - Parsing a plugin manifest into a readable struct
*/
package parsers

import (
	"context"
	"errors"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// ManifestParser represents basic interface for parsers in this package.
type ManifestParser interface {
	// Manifest has to return the declared plugin manifest.
	Manifest(context.Context) (*Manifest, error)
}

// Manifest represents one plugin manifest.
type Manifest struct {
	// Name is the plugin name as declared by its author.
	Name string
	// Version is the plugin's own declared version string.
	Version string
	// Host is the range requirement the host application version has to satisfy.
	Host string
	// Dependencies are requirements on other installed plugins.
	Dependencies []Dependency
}

// Dependency represents one plugin dependency requirement.
type Dependency struct {
	Name        string
	Requirement string
}
