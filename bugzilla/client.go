package bugzilla

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Auth selects the authentication mode used when contacting Bugzilla.
// The zero value is anonymous access.
type Auth struct {
	apiKey string
}

// Anonymous returns the anonymous authentication mode, which leaves
// requests unmodified.
func Anonymous() Auth {
	return Auth{}
}

// APIKey returns an authentication mode that sends the given API key as an
// "Authorization: Bearer" header on every request.
func APIKey(key string) Auth {
	return Auth{apiKey: key}
}

// apply attaches the authentication header, if any, to a request.
func (a Auth) apply(req *http.Request) {
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
}

// Pagination controls the upper limit on how many bugs a response may
// contain. The zero value keeps the server's default cap.
type Pagination struct {
	kind  paginationKind
	limit int
}

type paginationKind int

const (
	paginationDefault paginationKind = iota
	paginationLimit
	paginationUnlimited
)

// DefaultPagination keeps the instance's default cap on returned bugs.
func DefaultPagination() Pagination {
	return Pagination{}
}

// Limit caps the number of returned bugs at n. The value is passed to the
// server as-is; the server decides what is acceptable.
func Limit(n int) Pagination {
	return Pagination{kind: paginationLimit, limit: n}
}

// Unlimited disables the server's default cap by requesting limit=0.
func Unlimited() Pagination {
	return Pagination{kind: paginationUnlimited}
}

// query formats the pagination mode as a URL query fragment, such as
// "&limit=20".
func (p Pagination) query() string {
	switch p.kind {
	case paginationLimit:
		return fmt.Sprintf("&limit=%d", p.limit)
	case paginationUnlimited:
		return "&limit=0"
	default:
		return ""
	}
}

// Client is a read-only Bugzilla REST API client bound to one instance.
// It is immutable after New returns and safe for concurrent use.
type Client struct {
	baseURL    string
	auth       Auth
	pagination Pagination
	fields     []string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a client for the Bugzilla instance at host. Defaults:
// anonymous access, server-default pagination, requested fields
// ["_default"], 30 second timeout.
func New(host string, opts ...Option) (*Client, error) {
	host = strings.TrimRight(host, "/")
	if host == "" {
		return nil, fmt.Errorf("bugzilla host URL is required")
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid bugzilla host %q: %w", host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid bugzilla host %q: expected an http(s) URL", host)
	}

	client := &Client{
		baseURL:    host,
		fields:     []string{"_default"},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// bugPath builds the query path for a set of bug IDs. Fragment order is
// fixed: ids, then include_fields (only when the field list is non-empty),
// then the pagination limit (only when not the server default). The
// fragments are joined literally so the IDs and field names stay
// comma-separated on the wire.
func (c *Client) bugPath(ids []string) string {
	path := "rest/bug?id=" + strings.Join(ids, ",")
	if len(c.fields) > 0 {
		path += "&include_fields=" + strings.Join(c.fields, ",")
	}
	return path + c.pagination.query()
}

// doRequest performs an authenticated GET against an endpoint path and
// returns the response body. Bugzilla error envelopes and non-2xx statuses
// are mapped to *APIError.
func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.auth.apply(req)

	c.logger.Debug().Str("url", requestURL).Msg("Making Bugzilla API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	// Some Bugzilla deployments report API failures with a 200 status and
	// the error envelope in the body.
	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// Search fetches the bugs with the given IDs and returns the full response
// envelope, including the offset, limit, and total match count.
func (c *Client) Search(ctx context.Context, ids []string) (*ListResponse, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	body, err := c.doRequest(ctx, c.bugPath(ids))
	if err != nil {
		return nil, err
	}

	var response ListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse bug response: %w", err)
	}

	c.logger.Debug().
		Int("requested", len(ids)).
		Int("returned", len(response.Bugs)).
		Int("total_matches", response.TotalMatches).
		Msg("Retrieved bugs from Bugzilla")

	return &response, nil
}

// GetBugs fetches the bugs with the given IDs. A partial or empty result is
// a valid success; callers that need an exact match must check the returned
// list themselves.
func (c *Client) GetBugs(ctx context.Context, ids []string) ([]Bug, error) {
	response, err := c.Search(ctx, ids)
	if err != nil {
		return nil, err
	}
	return response.Bugs, nil
}

// GetBug fetches a single bug by ID. It returns an error wrapping
// ErrNotFound when the server knows no bug with that ID.
func (c *Client) GetBug(ctx context.Context, id string) (*Bug, error) {
	bugs, err := c.GetBugs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(bugs) == 0 {
		return nil, fmt.Errorf("bug %s: %w", id, ErrNotFound)
	}
	return &bugs[0], nil
}
