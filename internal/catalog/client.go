package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// envelope is the upstream response wrapper: { "data": T }.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// FetchJSON issues a GET against a fully formed URL and decodes the "data"
// member of the response envelope into T. HTTP status codes are not
// inspected; the presence of "data" is the success signal. Failures are
// logged and returned, never panicked.
func FetchJSON[T any](ctx context.Context, client *http.Client, url string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("API Error: %v", err)
		return zero, &TransportError{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("API Error: %v", err)
		return zero, &TransportError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Printf("API Error: decoding %s: %v", url, err)
		return zero, &TransportError{URL: url, Cause: err}
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		log.Printf("API Error: %s: %v", url, ErrEmptyEnvelope)
		return zero, ErrEmptyEnvelope
	}

	var data T
	if err := json.Unmarshal(env.Data, &data); err != nil {
		log.Printf("API Error: decoding data from %s: %v", url, err)
		return zero, &TransportError{URL: url, Cause: err}
	}
	return data, nil
}

// postJSON sends body as JSON and discards the response.
func postJSON(ctx context.Context, client *http.Client, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{URL: url, Cause: err}
	}
	resp.Body.Close()
	return nil
}
