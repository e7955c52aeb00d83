package workout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// AddressSource yields the host:port of the workout service.
type AddressSource interface {
	Get() (string, bool)
}

// Client issues create, list, get and delete calls against the workout
// service. The address is read from the source before every call.
type Client struct {
	source AddressSource
	http   *http.Client
}

// NewClient wires a client reading its address from source. A nil httpClient
// falls back to a client without a timeout.
func NewClient(source AddressSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{source: source, http: httpClient}
}

// envelope is the service's response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// Create sends record to the collection endpoint. The response body is
// parsed and discarded.
func (c *Client) Create(ctx context.Context, record Record) error {
	endpoint, err := c.endpoint("/workout", nil)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, endpoint, record, nil)
}

// List fetches every record the service returns.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	endpoint, err := c.endpoint("/workouts", nil)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches the record keyed by date.
func (c *Client) Get(ctx context.Context, date string) (Record, error) {
	endpoint, err := c.endpoint("/workout", url.Values{"date": {date}})
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Delete removes the record keyed by the literal date string. No body is sent.
func (c *Client) Delete(ctx context.Context, date string) error {
	endpoint, err := c.endpoint("/workout", url.Values{"date": {date}})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	if c == nil || c.source == nil {
		return "", fmt.Errorf("client not initialized with address source")
	}
	address, ok := c.source.Get()
	address = strings.TrimSpace(address)
	if !ok || address == "" {
		return "", ErrNoServerAddress
	}

	endpoint := "http://" + address + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w: %s", method, endpoint, ErrUnexpectedStatus, resp.Status)
	}

	// Callers that discard the response only need it to be JSON of any shape.
	if out == nil {
		if !json.Valid(data) {
			return fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: decode result: %v", ErrMalformedResponse, err)
	}
	return nil
}
