package geolocation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

const defaultHTTPTimeout = 8 * time.Second

// getJSON issues a GET to baseURL with params and decodes a 2xx JSON body into out.
// Transport failures are UNAVAILABLE, 401/403 are UNAUTHORIZED and other statuses are EXTERNAL.
func getJSON(ctx context.Context, client *http.Client, service, baseURL string, params url.Values, out interface{}) error {
	reqURL := baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to build %s request", service), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTransportError(err) {
			return apperrors.NewUnavailableError(fmt.Sprintf("%s unavailable", service), err)
		}
		return apperrors.NewExternalError(fmt.Sprintf("%s request failed", service), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewUnauthorizedError(fmt.Sprintf("%s rejected the api key", service), cause)
		case http.StatusTooManyRequests:
			return apperrors.NewExternalError(fmt.Sprintf("%s rate limit exceeded", service), cause)
		default:
			return apperrors.NewExternalError(fmt.Sprintf("%s returned status %d", service, resp.StatusCode), cause)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("failed to decode %s response", service), err)
	}
	return nil
}

func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host")
}

// flexString decodes a JSON string or number into its text form
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(data)
	return nil
}
