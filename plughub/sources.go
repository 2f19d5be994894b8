/*
Package plughub provides convinient api for host-side plugin compatibility instrumentation:
loading plugin manifests from different sources and checking their version requirements.
*/
package plughub

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/plughub/plughub-core/providers/fetchers"
	"github.com/plughub/plughub-core/providers/parsers"
)

// gitRepoRgx is used to parse repository info from GIT-compatible address string.
//
// Examples matching the regexp:
//     'git@myhostname:vendor/reponame.git'
//     'https://myhostname/vendor/reponame.git' and so on...
// Groups:
//     1: protocol (e.g. 'https://' or 'git@')
//     6: hostname (e.g. 'github.com')
//     8: full repo name (e.g. 'vendor/reponame')
var gitRepoRgx string = `^(((git@)|(git:|ssh:|(http[s]?:\/\/))))([\w\.@\\-~]+)(:|\/)([\w\.@\:\/\-~]+)(\.git)(\/-)?`

// gitRepoRgxCompiled is compiled from gitRepoRgx.
var gitRepoRgxCompiled = regexp.MustCompile(gitRepoRgx)

// PluginSource represents abstraction over plugin distribution sources and
// provides convinient interface to fetch plugin manifests from them.
type PluginSource interface {
	// Manifest returns the plugin manifest declared by the source.
	Manifest(ctx context.Context) (*parsers.Manifest, error)
}

// NewMemorySource constructs an in-memory PluginSource over a filename to content map.
func NewMemorySource(files map[string][]byte) PluginSource {
	return &MemoryPluginSource{
		fetchers.ByteMapFetcher{Files: files},
	}
}

// MemoryPluginSource represents in-memory PluginSource implementation.
type MemoryPluginSource struct {
	fetcher fetchers.ByteMapFetcher
}

// Manifest returns the plugin manifest declared by the source.
func (mps MemoryPluginSource) Manifest(ctx context.Context) (*parsers.Manifest, error) {
	return parsers.NewPluginParser(mps.fetcher, "").Manifest(ctx)
}

// gitRepo represents basic repository information.
type gitRepo struct {
	host, vendor, repo string
}

// supGitSrcs - supported git sources.
var supGitSrcs = []string{"github.com"}

// NewGitSource constructs new Git PluginSource implementation.
//
// SHA can both refer to commit hash/branch/tag.
//
// You can pass specific signed httpClient with any information you want the requests go with
// for example you would like to pass OAuth2/BasicAuth information to github API for increased
// rate limits and so on.
//
// repoAddr is the plugin repository address (e.g. 'git@myhostname:vendor/reponame.git')
func NewGitSource(httpClient *http.Client, repoAddr, sha string) (PluginSource, error) {
	repoData, err := parseGitAddr(repoAddr)
	if err != nil {
		return nil, err
	}
	fetcher := fetchers.NewGitHubFetcher(httpClient, repoData.vendor, repoData.repo, sha)
	return &GitPluginSource{fetcher: fetcher}, nil
}

// GitPluginSource represents Git PluginSource implementation,
// capable of fetching plugin manifests from Git repositories.
type GitPluginSource struct {
	fetcher fetchers.FileFetcher
}

// Manifest returns the plugin manifest declared in the repository.
func (gps GitPluginSource) Manifest(ctx context.Context) (*parsers.Manifest, error) {
	return parsers.NewPluginParser(gps.fetcher, "").Manifest(ctx)
}

// parseGitAddr - helper to parse information from git repository address string
func parseGitAddr(addr string) (*gitRepo, error) {
	matches := gitRepoRgxCompiled.FindStringSubmatch(addr)
	if matches == nil || matches[6] == "" || matches[8] == "" {
		return nil, fmt.Errorf("unsupported git repository format %q", addr)
	}
	hostName, repoName := matches[6], matches[8]

	if !gitHostSupported(hostName) {
		return nil, fmt.Errorf("git source %q is not supported", hostName)
	}

	if !strings.Contains(repoName, "/") {
		return nil, fmt.Errorf("unable to parse vendor from name %q", repoName)
	}
	repoNameParts := strings.Split(repoName, "/")

	return &gitRepo{host: hostName, vendor: repoNameParts[0], repo: repoNameParts[1]}, nil
}

// gitHostSupported - helper to check git source support status
func gitHostSupported(host string) bool {
	for _, v := range supGitSrcs {
		if v == host {
			return true
		}
	}
	return false
}
