package httpserver

import (
	"net/http"
	"time"
)

// New builds the storefront server. Writes get more room than reads because
// dashboard and checkout handlers wait on the backend.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
