package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// HTTPStatusError is returned when a request completes with a non-2xx status
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return "got " + http.StatusText(e.StatusCode) + " from " + e.URL
}

// HttpClient is a thin JSON-oriented wrapper around http.Client
type HttpClient struct {
	Client *http.Client
}

// NewHttp creates an HttpClient with the given request timeout
func NewHttp(timeout time.Duration) *HttpClient {
	return &HttpClient{
		Client: &http.Client{Timeout: timeout},
	}
}

// Get issues a GET request for rawURL with the given query parameters and
// returns the response body. Non-2xx responses are reported as *HTTPStatusError.
func (c *HttpClient) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse request url")
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize request")
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to make request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: u.Redacted()}
	}

	return body, nil
}

// ParseResp decodes a JSON response body into target
func ParseResp[T any](body []byte, target *T) error {
	if err := json.Unmarshal(body, target); err != nil {
		return errors.Wrap(err, "error unmarshaling response body")
	}
	return nil
}
