package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trello-mcp-server/internal/domain"
)

const defaultRequestTimeout = 30 * time.Second

// RequestObserver receives telemetry for every Trello API call the client
// makes. The zero implementation discards everything; main wires an
// OpenTelemetry-backed observer.
type RequestObserver interface {
	ObserveRequest(ctx context.Context, method, path, outcome string, elapsed time.Duration)
	ObserveRetry(ctx context.Context, method, path, reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(context.Context, string, string, string, time.Duration) {}
func (nopObserver) ObserveRetry(context.Context, string, string, string)                  {}

// transportError marks failures that happened before a usable HTTP response
// arrived (connection refused, timeout, truncated body). The retry layer
// treats these as retryable; everything else surfaces immediately.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// TrelloClient talks to the Trello REST API. Every response is classified
// into the domain error taxonomy before it reaches a caller, and rate limit
// and transport failures are retried with exponential backoff.
type TrelloClient struct {
	baseURL     string
	credentials *domain.Credentials
	maxRetries  int
	httpClient  *http.Client
	observer    RequestObserver

	// Injected for tests so retry timing is observable and instant.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewTrelloClient creates a client for the given API root. Credentials may be
// nil; requests then go out unauthenticated, which Trello rejects with 401.
func NewTrelloClient(baseURL string, credentials *domain.Credentials, maxRetries int) *TrelloClient {
	if maxRetries < 1 {
		maxRetries = domain.DefaultMaxRetries
	}
	return &TrelloClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
		maxRetries:  maxRetries,
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
		observer:    nopObserver{},
		sleep:       sleepContext,
		now:         time.Now,
	}
}

// SetObserver replaces the telemetry sink. Call before serving requests.
func (c *TrelloClient) SetObserver(observer RequestObserver) {
	if observer != nil {
		c.observer = observer
	}
}

// HasCredentials reports whether the client carries an API key and token.
func (c *TrelloClient) HasCredentials() bool {
	return c.credentials != nil
}

// WithCredentials returns a copy of the client that authenticates with the
// given pair. The copy shares the underlying HTTP client and observer, so it
// is cheap to create per request.
func (c *TrelloClient) WithCredentials(credentials *domain.Credentials) *TrelloClient {
	clone := *c
	clone.credentials = credentials
	return &clone
}

// Get performs a GET request against the Trello API.
func (c *TrelloClient) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with an optional JSON body.
func (c *TrelloClient) Post(ctx context.Context, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, path, query, body)
}

// Put performs a PUT request with an optional JSON body.
func (c *TrelloClient) Put(ctx context.Context, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPut, path, query, body)
}

// Delete performs a DELETE request against the Trello API.
func (c *TrelloClient) Delete(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.request(ctx, http.MethodDelete, path, query, nil)
}

// request runs the retry loop around do. Only rate limits and transport
// failures are retried; classified 4xx/5xx errors surface on the first
// attempt. The final rate limit error is returned unchanged so callers still
// see the Retry-After hint.
func (c *TrelloClient) request(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		result, err := c.do(ctx, method, path, query, body)
		if err == nil {
			return result, nil
		}

		var rateLimitErr *domain.RateLimitError
		if errors.As(err, &rateLimitErr) {
			if attempt == c.maxRetries-1 {
				log.Printf("Max retries exceeded for %s %s", method, path)
				return nil, err
			}
			delay := backoffDelay(attempt)
			if rateLimitErr.RetryAfter > 0 {
				delay = time.Duration(rateLimitErr.RetryAfter) * time.Second
			}
			log.Printf("Rate limit hit on attempt %d/%d. Retrying in %s...", attempt+1, c.maxRetries, delay)
			c.observer.ObserveRetry(ctx, method, path, "rate_limit")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		var tErr *transportError
		if errors.As(err, &tErr) {
			if attempt == c.maxRetries-1 {
				log.Printf("Max retries exceeded for %s %s", method, path)
				return nil, &domain.APIError{Message: fmt.Sprintf("Network error after %d attempts: %v", c.maxRetries, err)}
			}
			delay := backoffDelay(attempt)
			log.Printf("Network error on attempt %d/%d. Retrying in %s... Error: %v", attempt+1, c.maxRetries, delay, err)
			c.observer.ObserveRetry(ctx, method, path, "network")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		return nil, err
	}
	return nil, &domain.APIError{Message: fmt.Sprintf("Max retries exceeded for %s %s", method, path)}
}

// do executes a single HTTP attempt and classifies the outcome.
func (c *TrelloClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	// Merge caller parameters first, credentials last. A caller-supplied key
	// or token can never override the configured pair.
	params := url.Values{}
	for name, values := range query {
		for _, value := range values {
			params.Add(name, value)
		}
	}
	if c.credentials != nil {
		params.Set("key", c.credentials.APIKey)
		params.Set("token", c.credentials.Token)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &domain.APIError{Message: fmt.Sprintf("Failed to encode request body for %s %s: %v", method, path, err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &domain.APIError{Message: fmt.Sprintf("Failed to create request for %s %s: %v", method, path, err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observer.ObserveRequest(ctx, method, path, "transport_error", time.Since(start))
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observer.ObserveRequest(ctx, method, path, "transport_error", time.Since(start))
		return nil, &transportError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.observer.ObserveRequest(ctx, method, path, statusOutcome(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(respBody))
		log.Printf("HTTP %d error for %s %s: %s", resp.StatusCode, method, path, text)
		return nil, c.classifyStatus(resp, method, path, text)
	}

	// Trello returns an empty body for some successful DELETEs.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(respBody) {
		return nil, &domain.APIError{
			Message:    fmt.Sprintf("Invalid JSON response for %s %s", method, path),
			StatusCode: resp.StatusCode,
		}
	}
	return json.RawMessage(respBody), nil
}

// classifyStatus maps a non-2xx response onto the domain error taxonomy.
func (c *TrelloClient) classifyStatus(resp *http.Response, method, path, text string) error {
	switch resp.StatusCode {
	case http.StatusBadRequest:
		detail := text
		if detail == "" {
			detail = "Please check your parameters."
		}
		return &domain.BadRequestError{Message: fmt.Sprintf("Invalid request to %s. %s", path, detail)}
	case http.StatusUnauthorized:
		return &domain.UnauthorizedError{}
	case http.StatusForbidden:
		return &domain.ForbiddenError{ResourceType: "Resource", ResourceID: path, Action: "access"}
	case http.StatusNotFound:
		resourceType, resourceID := resourceFromPath(path)
		return &domain.NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
	case http.StatusConflict:
		detail := text
		if detail == "" {
			detail = "The resource is in a conflicting state."
		}
		return &domain.ConflictError{Message: fmt.Sprintf("Conflict on %s %s: %s", method, path, detail)}
	case http.StatusTooManyRequests:
		return &domain.RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now())}
	default:
		return &domain.APIError{
			Message:    fmt.Sprintf("HTTP %d error for %s %s: %s", resp.StatusCode, method, path, text),
			StatusCode: resp.StatusCode,
		}
	}
}

// resourceFromPath derives a human readable resource type and ID from a
// request path such as "/boards/abc123/lists".
func resourceFromPath(path string) (string, string) {
	segments := strings.Split(path, "/")
	resourceType := "Resource"
	resourceID := "unknown"
	if len(segments) > 1 && segments[1] != "" {
		name := strings.TrimSuffix(segments[1], "s")
		resourceType = strings.ToUpper(name[:1]) + name[1:]
	}
	if len(segments) > 2 && segments[2] != "" {
		resourceID = segments[2]
	}
	return resourceType, resourceID
}

// parseRetryAfter interprets a Retry-After header as either delay seconds or
// an HTTP date. Returns 0 when the header is absent or unparseable.
func parseRetryAfter(value string, now time.Time) int {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return seconds
	}
	if at, err := http.ParseTime(value); err == nil {
		seconds := int(at.Sub(now).Round(time.Second) / time.Second)
		if seconds < 0 {
			return 0
		}
		return seconds
	}
	return 0
}

// backoffDelay returns the exponential delay for the given attempt: 1s, 2s,
// 4s and so on.
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// sleepContext waits for the delay or for the context to be canceled,
// whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// statusOutcome buckets a status code for the request counter.
func statusOutcome(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "success"
	case code == http.StatusTooManyRequests:
		return "rate_limited"
	case code >= 400 && code < 500:
		return "client_error"
	default:
		return "server_error"
	}
}

// decodeJSON unmarshals a raw Trello response into a typed record, wrapping
// decode failures so callers only ever see taxonomy errors.
func decodeJSON(data json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.APIError{Message: fmt.Sprintf("Invalid JSON in Trello response: %v", err)}
	}
	return nil
}
