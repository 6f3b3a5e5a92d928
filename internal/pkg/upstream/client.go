package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const maxErrorBody = 64 << 10

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ServiceToken string
	Location     *time.Location
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the attendance system of record over REST.
// Calls are not retried; failures come back as *apperror.TransportError.
type Client struct {
	baseURL      *url.URL
	transport    http.RoundTripper
	timeout      time.Duration
	serviceToken string
	loc          *time.Location
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("upstream base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Client{
		baseURL:      base,
		transport:    transport,
		timeout:      cfg.Timeout,
		serviceToken: cfg.ServiceToken,
		loc:          loc,
	}, nil
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token to ctx. Calls made with ctx
// authenticate as that caller instead of the service account.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func (c *Client) httpClient(ctx context.Context) *http.Client {
	token := tokenFromContext(ctx)
	if token == "" {
		token = c.serviceToken
	}
	if token == "" {
		return &http.Client{Timeout: c.timeout, Transport: c.transport}
	}
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Base:   c.transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		},
	}
}

// do sends one request. in is encoded as JSON when non-nil; a 2xx body is
// decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	ref := &url.URL{Path: strings.TrimLeft(path, "/")}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	endpoint := c.baseURL.ResolveReference(ref)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(ctx).Do(req)
	if err != nil {
		return &apperror.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperror.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(resp.StatusCode, raw),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperror.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return nil
}

// errorDetail extracts the human-readable message from an error body:
// "detail", "error" or "message", else field errors joined, else the status.
func errorDetail(status int, body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if v, ok := payload[key].(string); ok && v != "" {
				return v
			}
		}

		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var parts []string
		for _, k := range keys {
			switch v := payload[k].(type) {
			case string:
				parts = append(parts, k+": "+v)
			case []any:
				var msgs []string
				for _, m := range v {
					if s, ok := m.(string); ok {
						msgs = append(msgs, s)
					}
				}
				if len(msgs) > 0 {
					parts = append(parts, k+": "+strings.Join(msgs, " "))
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// statusCode returns the upstream HTTP status carried by err, or 0.
func statusCode(err error) int {
	var te *apperror.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// flexID accepts both numeric and string identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*f = flexID(n.String())
	return nil
}

// decodeList accepts a bare JSON array or a paginated {"results": [...]} object.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// parseTime reads an upstream timestamp; zoneless values are in the client location.
func (c *Client) parseTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, _ := attendance.ParseTimestamp(*s, c.loc)
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
