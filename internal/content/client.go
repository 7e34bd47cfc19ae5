// Package content lists albums and tracks from a remote content host.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/llehouerou/tapedeck/internal/media"
)

const userAgent = "tapedeck/0.1 (https://github.com/llehouerou/tapedeck)"

// Entry types reported by the listing endpoint.
const (
	TypeFile      = "file"
	TypeDir       = "dir"
	TypeDirectory = "directory"
)

// Entry is one item of a listing response.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == TypeDir || e.Type == TypeDirectory
}

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool {
	return e.Type == TypeFile
}

// Lister returns the raw entries of the host root (album == "") or of one album.
type Lister interface {
	List(ctx context.Context, album string) ([]Entry, error)
}

// Client is the HTTP Lister for a content host.
type Client struct {
	host       string
	httpClient *http.Client
}

// NewClient creates a client for host. A nil httpClient uses a default client;
// request deadlines come from the caller's context.
func NewClient(host string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		host:       strings.TrimSuffix(host, "/"),
		httpClient: httpClient,
	}
}

// Host returns the normalized host URL.
func (c *Client) Host() string { return c.host }

// URL returns the listing URL for album, or the root listing when album is empty.
func (c *Client) URL(album string) string {
	if album == "" {
		return c.host + "/"
	}
	return c.host + "/" + media.EscapeSegment(album)
}

// List fetches and decodes one listing.
func (c *Client) List(ctx context.Context, album string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(album), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return entries, nil
}
