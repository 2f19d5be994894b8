package fetchers

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// configureClient configures client that intercepts ALL requests and forwards them into the specified handler.
func configureClient(t *testing.T, handleFunc http.Handler) *http.Client {
	t.Helper()
	srv := httptest.NewTLSServer(handleFunc)

	// Configuring so that all the request go into our handler.
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, network, _ string) (net.Conn, error) {
				return net.Dial(network, srv.Listener.Addr().String())
			},
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// failingTransport fails every request before it leaves the client,
// simulating DNS failures and refused connections.
type failingTransport struct {
	err error
}

func (ft failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, ft.err
}

func TestByteMapFetcher(t *testing.T) {
	fetcher := ByteMapFetcher{Files: map[string][]byte{
		"plugin.json": []byte(`{"name":"soundboard"}`),
	}}

	content, err := fetcher.FileContent(context.Background(), "plugin.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != `{"name":"soundboard"}` {
		t.Errorf("unexpected content: %s", content)
	}

	if _, err := fetcher.FileContent(context.Background(), "missing.json"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound on missing file, got %v", err)
	}
}

func TestGitHubFetcher_FileContent(t *testing.T) {
	var requested string
	var ref string
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		ref = r.URL.Query().Get("ref")
		_, _ = rw.Write([]byte(`{
			"name": "plugin.json",
			"encoding": "base64",
			"content": "eyJuYW1lIjoic291bmRib2FyZCIsInZlcnNpb24iOiIxLjQuMCJ9"
		}`))
	}))

	fetcher := NewGitHubFetcher(cl, "plughub", "soundboard", "v1.4.0")
	content, err := fetcher.FileContent(context.Background(), "plugin.json")
	if err != nil {
		t.Fatal(err)
	}

	if string(content) != `{"name":"soundboard","version":"1.4.0"}` {
		t.Errorf("unexpected content: %s", content)
	}
	if requested != "/repos/plughub/soundboard/contents/plugin.json" {
		t.Errorf("unexpected request path: %s", requested)
	}
	if ref != "v1.4.0" {
		t.Errorf("unexpected ref: %s", ref)
	}
}

func TestGitHubFetcher_FileContent_NotFound(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
		_, _ = rw.Write([]byte(`{
			"message": "Not Found",
			"documentation_url": "https://docs.github.com/rest/reference/repos#get-repository-content"
		  }`))
	}))

	fetcher := NewGitHubFetcher(cl, "plughub", "soundboard", "")
	_, err := fetcher.FileContent(context.Background(), "plugin.json")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound on missing manifest, got %v", err)
	}
}

func TestGitHubFetcher_FileContent_DirectoryPath(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`[
			{
			  "name": "plugin.json",
			  "path": "config/plugin.json",
			  "sha": "2b4a5fccdaf12f98cf8e255affa28cfd7e6a784d"
			},
			{
			  "name": "settings.json",
			  "path": "config/settings.json",
			  "sha": "5cbfc09fe76804461d5bf2221d8a6e5ceff5c385"
			}
		  ]`))
	}))

	fetcher := NewGitHubFetcher(cl, "plughub", "soundboard", "")
	_, err := fetcher.FileContent(context.Background(), "config")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound on a directory path, got %v", err)
	}
}

func TestGitHubFetcher_FileContent_TransportError(t *testing.T) {
	cl := &http.Client{Transport: failingTransport{err: errors.New("connection refused")}}

	fetcher := NewGitHubFetcher(cl, "plughub", "soundboard", "")
	_, err := fetcher.FileContent(context.Background(), "plugin.json")
	if err == nil {
		t.Fatal("expected error on transport failure, got none")
	}
	if errors.Is(err, ErrFileNotFound) {
		t.Errorf("transport failure reported as missing file: %v", err)
	}
}
