// Package metadata fetches the off-chain agent profile documents that
// the registry's metadataURI fields point at.
package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// DefaultIPFSGateway serves ipfs:// URIs over HTTPS.
const DefaultIPFSGateway = "https://ipfs.io/ipfs/"

// AgentProfile is the JSON document behind an agent's metadataURI.
// Unknown fields are ignored; every field is optional.
type AgentProfile struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Avatar       string   `json:"avatar"`
	Model        string   `json:"model"`
	Capabilities []string `json:"capabilities"`
	Website      string   `json:"website"`
}

// Client fetches profile documents. Zero value is not usable; use New.
type Client struct {
	http        *resty.Client
	ipfsGateway string
}

// Option customizes a Client.
type Option func(*Client)

// WithIPFSGateway overrides the gateway used for ipfs:// URIs.
func WithIPFSGateway(gateway string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(gateway, "/") {
			gateway += "/"
		}
		c.ipfsGateway = gateway
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New builds a metadata client. Proxy configuration is picked up from
// the usual environment variables.
func New(opts ...Option) *Client {
	http := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	c := &Client{http: http, ipfsGateway: DefaultIPFSGateway}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveURI rewrites ipfs:// URIs to the configured gateway and passes
// http(s) URIs through. Anything else is rejected.
func (c *Client) ResolveURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return "", errors.New("empty metadata uri")
	case strings.HasPrefix(uri, "ipfs://"):
		return c.ipfsGateway + strings.TrimPrefix(uri, "ipfs://"), nil
	case strings.HasPrefix(uri, "https://"), strings.HasPrefix(uri, "http://"):
		return uri, nil
	default:
		return "", errors.Errorf("unsupported metadata uri scheme: %s", uri)
	}
}

// Fetch retrieves and decodes the profile document behind uri.
func (c *Client) Fetch(ctx context.Context, uri string) (*AgentProfile, error) {
	url, err := c.ResolveURI(uri)
	if err != nil {
		return nil, err
	}

	var profile AgentProfile
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&profile).
		Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "fetch agent metadata")
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch agent metadata: %s returned %s",
			url, resp.Status())
	}
	if resp.Header().Get("Content-Type") != "" &&
		!strings.Contains(resp.Header().Get("Content-Type"), "json") {
		return nil, fmt.Errorf("fetch agent metadata: unexpected content type %q",
			resp.Header().Get("Content-Type"))
	}
	return &profile, nil
}
