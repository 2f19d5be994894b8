/*
Package fetchers provides manifest file fetching for local and remote plugin repositories.

A FileFetcher hides where the plugin lives, parsers only ever see file contents.
*/

package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v33/github"
)

var (
	// ErrFileNotFound is returned when the requested file does not exist in the source.
	ErrFileNotFound = errors.New("manifest file not found")
)

// FileFetcher interface defines fetchers methods.
type FileFetcher interface {
	FileContent(ctx context.Context, path string) ([]byte, error)
}

// ByteMapFetcher serves file contents from memory, useful for tests and for
// hosts that bundle plugin manifests with their own distribution.
type ByteMapFetcher struct {
	Files map[string][]byte
}

// FileContent retrieves file contents from the map using path as the key.
func (bf ByteMapFetcher) FileContent(_ context.Context, path string) ([]byte, error) {
	v, ok := bf.Files[path]
	if !ok {
		return nil, ErrFileNotFound
	}
	return v, nil
}

// GitHubFetcher fetches plugin manifest files from a '{owner}/{repo}' repository,
// optionally pinned to a ref (commit SHA, branch or release tag).
type GitHubFetcher struct {
	Owner        string
	Repo         string
	Ref          string
	githubClient *github.Client
}

// NewGitHubFetcher constructs a GitHubFetcher over the given repository.
// httpClient can carry OAuth2 or BasicAuth transport for private plugin
// repositories and higher rate limits, nil falls back to the default client.
func NewGitHubFetcher(httpClient *http.Client, owner, repo, ref string) FileFetcher {
	return &GitHubFetcher{
		Owner:        owner,
		Repo:         repo,
		Ref:          ref,
		githubClient: github.NewClient(httpClient),
	}
}

// FileContent fetches one repository file, path is relative to the repository
// root (e.g. 'plugin.json').
//
// A missing file and a directory at the path both report ErrFileNotFound: from
// the manifest lookup standpoint the repository ships no such file either way.
func (gf GitHubFetcher) FileContent(ctx context.Context, path string) ([]byte, error) {
	opts := github.RepositoryContentGetOptions{Ref: gf.Ref}

	fc, dc, resp, err := gf.githubClient.Repositories.GetContents(ctx, gf.Owner, gf.Repo, path, &opts)
	if err != nil {
		// resp is nil when the request never got a response (DNS failure,
		// refused connection, TLS error), only the error itself is usable then.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %q in %s/%s", ErrFileNotFound, path, gf.Owner, gf.Repo)
		}
		return nil, fmt.Errorf("unable to load %q from github %s/%s: %w", path, gf.Owner, gf.Repo, err)
	}

	if len(dc) != 0 || fc == nil {
		return nil, fmt.Errorf("%w: %q is a directory", ErrFileNotFound, path)
	}

	content, err := fc.GetContent()
	if err != nil {
		return nil, fmt.Errorf("unable to decode %q content: %w", path, err)
	}
	return []byte(content), nil
}
