// Package lookup is the HTTP client for the service that resolves internal
// link ids to titles and keyword ids to keyword labels.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joestump/linkeditor/internal/config"
)

// IDPlaceholder is replaced by the requested id in the configured paths.
const IDPlaceholder = "{id}"

// ShortDescription is one entry of the title endpoint's response.
type ShortDescription struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"shortDescription"`
	Titles           []Title `json:"titles,omitempty"`
}

// Label is the text an editor shows for the entry: the short description,
// else all titles joined by TitlesString, else the plain title.
func (d ShortDescription) Label() string {
	switch {
	case d.ShortDescription != "":
		return d.ShortDescription
	case len(d.Titles) > 0:
		return TitlesString(d.Titles)
	default:
		return d.Title
	}
}

// KeywordLabel is the keyword endpoint's response.
type KeywordLabel struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}

// Client talks to the lookup service over HTTP.
type Client struct {
	baseURL     string
	token       string
	titlePath   string
	keywordPath string
	client      *http.Client
}

// New creates a Client from the lookup section of cfg.
func New(cfg config.LookupConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		titlePath:   cfg.TitlePath,
		keywordPath: cfg.KeywordPath,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// ExpandURL replaces placeholder in template with the path-escaped value.
func ExpandURL(template, placeholder, value string) string {
	return strings.Replace(template, placeholder, url.PathEscape(value), 1)
}

// ShortDescription returns the display label of the link with the given id,
// see ShortDescription.Label.
func (c *Client) ShortDescription(ctx context.Context, linkID string) (string, error) {
	var entries []ShortDescription
	if err := c.get(ctx, ExpandURL(c.titlePath, IDPlaceholder, linkID), &entries); err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("empty short description response for link %q", linkID)
	}
	return entries[0].Label(), nil
}

// Keyword returns the label of the keyword with the given id.
func (c *Client) Keyword(ctx context.Context, keywordID string) (string, error) {
	var kw KeywordLabel
	if err := c.get(ctx, ExpandURL(c.keywordPath, IDPlaceholder, keywordID), &kw); err != nil {
		return "", err
	}
	return kw.Keyword, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
