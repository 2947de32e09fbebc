// Package practicum talks to the Practicum homework-status endpoint and
// turns its responses, well-formed or not, into typed results.
package practicum

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"hwbot/pkg/logx"
)

// maxBodyBytes caps how much of a response body we read. The real payload
// is a few hundred bytes; anything near the cap is already broken.
const maxBodyBytes = 1 << 20

type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      logx.Logger
}

func NewClient(endpoint, token string, timeout time.Duration, log logx.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Fetch polls the endpoint for status changes since fromDate (unix seconds).
func (c *Client) Fetch(ctx context.Context, fromDate int64) (*StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, transportErr("building request", err)
	}
	q := req.URL.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)

	c.log.Debug("polling endpoint", logx.Int64("from_date", fromDate))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportErr("endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, serverStatusErr(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportErr("reading response body", err)
	}
	return DecodeResponse(body)
}
