package spapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type errorEnvelope struct {
	Errors []APIErrorDetail `json:"errors"`
}

// DecodeJSON reads and closes resp.Body. A 2xx body is decoded into dst
// (dst may be nil to discard it); any other status becomes an *APIError.
func DecodeJSON(resp *http.Response, dst any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get("x-amzn-RequestId"),
			Body:       string(body),
		}
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil {
			apiErr.Errors = env.Errors
		}
		return apiErr
	}

	if dst == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrMalformedResponse, err)
	}

	return nil
}
