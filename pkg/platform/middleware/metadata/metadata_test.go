package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"minimarket/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:53211"
	assert.Equal(t, "10.0.0.7", ClientIPFromRequest(r))

	r.Header.Set("X-Real-IP", "192.0.2.10")
	assert.Equal(t, "192.0.2.10", ClientIPFromRequest(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", ClientIPFromRequest(r))
}

func TestDeviceLabel(t *testing.T) {
	assert.Equal(t, "unknown", DeviceLabel(""))

	desktop := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	label := DeviceLabel(desktop)
	assert.Contains(t, label, "Chrome")
	assert.Contains(t, label, "Windows")
	assert.NotContains(t, label, "mobile")
}

func TestClientMetadata(t *testing.T) {
	var ip, device string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		device = requestcontext.DeviceLabel(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:53211"
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "10.0.0.7", ip)
	assert.Equal(t, "unknown", device)
}
