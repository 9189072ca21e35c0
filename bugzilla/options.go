package bugzilla

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithAuth sets the authentication mode used for every request.
func WithAuth(auth Auth) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithAPIKey is shorthand for WithAuth(APIKey(key)).
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.auth = APIKey(key)
	}
}

// WithPagination sets the pagination mode appended to every query.
func WithPagination(p Pagination) Option {
	return func(c *Client) {
		c.pagination = p
	}
}

// WithFields replaces the set of bug fields requested from the server. The
// default is ["_default"]; this option overwrites it entirely, so callers
// wanting the default fields plus extras must list "_default" explicitly.
// An empty list omits the include_fields parameter and lets the server pick.
func WithFields(fields []string) Option {
	return func(c *Client) {
		c.fields = fields
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request debugging. The default
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
