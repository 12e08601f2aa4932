package rickmorty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// CharacterFetcher defines the read-only surface of the API.
// This interface is implemented by *Client and can be used for testing.
type CharacterFetcher interface {
	FetchCharacters(ctx context.Context, params url.Values) (Page, error)
	FetchCharacter(ctx context.Context, id int) (Character, error)
}

// Ensure Client implements CharacterFetcher at compile time.
var _ CharacterFetcher = (*Client)(nil)

// ErrAPI matches every non-success response from the API.
var ErrAPI = errors.New("rick and morty api error")

var errTransport = errors.New("execute request")

// APIError reports a non-success HTTP status.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Is lets errors.Is(err, ErrAPI) match any APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the Rick and Morty HTTP API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RateLimit  float64 // requests per second; zero disables limiting
	HTTPClient *http.Client
}

const (
	DefaultBaseURL    = "https://rickandmortyapi.com/api"
	defaultUserAgent  = "citadel/0.1"
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = time.Second
	maxErrorBody      = 4 << 10
)

// NewClient builds a Client for the API rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		baseURL:    base,
		http:       httpClient,
		userAgent:  defaultUserAgent,
		limiter:    limiter,
		retries:    retries,
		retryDelay: defaultRetryDelay,
	}, nil
}

// BaseURL returns the API root the client resolves requests against.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// FetchCharacters lists characters matching params. A 404 means the API found
// no matches, so it yields an empty page instead of an error.
func (c *Client) FetchCharacters(ctx context.Context, params url.Values) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "character", RawQuery: params.Encode()}
	var payload Page
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		if IsNotFound(err) {
			return EmptyPage(), nil
		}
		return Page{}, err
	}
	if payload.Results == nil {
		payload.Results = []Character{}
	}
	return payload, nil
}

// FetchCharacter retrieves a single character by id.
func (c *Client) FetchCharacter(ctx context.Context, id int) (Character, error) {
	if c == nil {
		return Character{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Character{}, fmt.Errorf("character id required")
	}
	rel := &url.URL{Path: "character/" + strconv.Itoa(id)}
	var payload Character
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return Character{}, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		err = c.once(ctx, method, rel, dest)
		if err == nil || !retryable(ctx, err) {
			return err
		}
	}
	return err
}

func (c *Client) once(ctx context.Context, method string, rel *url.URL, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Path:    "/" + rel.Path,
			Message: readErrorMessage(resp.Body),
		}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// retryable allows one more attempt for transport failures and 5xx responses.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return errors.Is(err, errTransport)
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		return strings.TrimSpace(payload.Error)
	}
	return ""
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
