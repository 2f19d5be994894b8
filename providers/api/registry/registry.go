/*
Package registry provides a client for using a plughub plugin registry public API.
*/
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
)

// registryBaseURL - plugin registry base API url (used as default client baseURL)
var registryBaseURL *url.URL

// registryHostname - plugin registry API hostname (used as default API).
var registryHostname string = "https://registry.plughub.io"

func init() {
	registryBaseURL, _ = url.Parse(registryHostname)
}

// Client is used to communicate with a plugin registry compatible API service.
type Client interface {
	// Plugin returns plugin metadata with its ordered release history.
	Plugin(ctx context.Context, name string) (*PluginInfo, *http.Response, error)
	// Search looks plugins up by a free-form query.
	Search(ctx context.Context, q string, opts *SearchOptions) (*SearchResult, *http.Response, error)
}

// NewRegistryClient constructs a new RegistryClient.
//
// If httpClient or URL is nil - default values will be used.
// Pass URL only if you are sure that the address is compatible with the registry public API.
func NewRegistryClient(httpClient *http.Client, URL *url.URL) *RegistryClient {
	if URL == nil {
		URL = registryBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RegistryClient{httpClient: httpClient, baseURL: *URL}
}

// RegistryClient is the default Client implementation.
type RegistryClient struct {
	httpClient *http.Client
	baseURL    url.URL
}

// Plugin method is used to get information about a plugin, its versions and metadata.
func (rc RegistryClient) Plugin(ctx context.Context, name string) (*PluginInfo, *http.Response, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("plugin name is required and can't be empty")
	}

	path := fmt.Sprintf("%s/plugins/%s.json", &rc.baseURL, name)

	var info PluginInfo
	resp, err := rc.get(ctx, path, &info)
	if err != nil {
		return nil, resp, err
	}

	return &info, resp, nil
}

// SearchOptions specifies the parameters to Search() method.
type SearchOptions struct {
	// PerPage is used to define the pagination step.
	PerPage int `url:"per_page,omitempty"`
	// Page is used to define page.
	Page int `url:"page,omitempty"`
	// For filtering plugins by tags.
	Tags []string `url:"tags,brackets,omitempty"`
}

// Search method is used to search for specific plugins.
func (rc RegistryClient) Search(ctx context.Context, q string, opts *SearchOptions) (*SearchResult, *http.Response, error) {
	if q == "" {
		return nil, nil, fmt.Errorf("'q' option is required for search request")
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing the options: %w", err)
	}
	v.Add("q", q)

	path := fmt.Sprintf("%s/search.json?%s", &rc.baseURL, v.Encode())

	var result SearchResult
	resp, err := rc.get(ctx, path, &result)
	if err != nil {
		return nil, resp, err
	}

	return &result, resp, nil
}

// get performs one GET request and decodes the JSON body into out.
func (rc RegistryClient) get(ctx context.Context, path string, out interface{}) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", path, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create a request: %w", err)
	}
	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to send the request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return resp, fmt.Errorf("registry returned with !=200 status code")
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("unable to read the response body: %w", err)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return resp, fmt.Errorf("unable to parse the response body: %w", err)
	}

	return resp, nil
}

// PluginInfo represents full plugin metadata from the registry.
type PluginInfo struct {
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Homepage    string    `json:"homepage"`
	Latest      string    `json:"latest"`
	Releases    []Release `json:"releases"` // ordered oldest to newest
}

// Release represents one concrete plugin release information block.
type Release struct {
	Version      string    `json:"version"`
	URL          string    `json:"url"`
	PublishedAt  time.Time `json:"published_at"`
	Yanked       bool      `json:"yanked"`
	YankedReason string    `json:"yanked_reason"`
}

// SearchResult represents search plugins result.
type SearchResult struct {
	Results []FoundPlugin `json:"results"`
	Total   int           `json:"total"`
	NextURL string        `json:"next"`
}

// FoundPlugin is a representation of one plugin from search result slice.
type FoundPlugin struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Downloads   int    `json:"downloads"`
}
