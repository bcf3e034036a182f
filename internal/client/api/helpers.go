package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// postJSON posts payload as JSON to uri and decodes a 2xx answer into T.
// An empty 2xx body yields the zero value of T.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func postJSON[T any](c *ClientImpl, ctx context.Context, uri string, payload any) (*T, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", uri, err)
	}

	route := c.baseURL.JoinPath(uri)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route.String(), bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", uri, err)
	}

	if !isSuccess(response.StatusCode) {
		return nil, newAuthError(uri, response.StatusCode, body)
	}

	var result T
	if len(bytes.TrimSpace(body)) == 0 {
		return &result, nil
	}

	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", uri, err)
	}

	return &result, nil
}

func isSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}
