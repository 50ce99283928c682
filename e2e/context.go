// Package e2e drives a running storefront over HTTP with godog scenarios.
// Point E2E_BASE_URL at the server; E2E_ADMIN_TOKEN must match its ADMIN_TOKEN.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP client and last response. The
// cookie jar keeps the cart scope cookie between steps.
type TestContext struct {
	BaseURL    string
	AdminToken string

	client     *http.Client
	headers    map[string]string
	lastStatus int
	lastBody   []byte
}

func NewTestContext() *TestContext {
	tc := &TestContext{
		BaseURL:    strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/"),
		AdminToken: os.Getenv("E2E_ADMIN_TOKEN"),
	}
	tc.Reset()
	return tc
}

// Reset drops cookies, headers and the last response.
func (tc *TestContext) Reset() {
	jar, _ := cookiejar.New(nil)
	tc.client = &http.Client{Jar: jar, Timeout: 10 * time.Second}
	tc.headers = map[string]string{}
	tc.lastStatus = 0
	tc.lastBody = nil
}

func (tc *TestContext) SetHeader(key, value string) {
	tc.headers[key] = value
}

func (tc *TestContext) GetAdminToken() string {
	return tc.AdminToken
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField reads a dotted path ("cart.total_quantity") from the last
// JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var current any
	if err := json.Unmarshal(tc.lastBody, &current); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found in response: %s", field, tc.lastBody)
		}
	}
	return current, nil
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
