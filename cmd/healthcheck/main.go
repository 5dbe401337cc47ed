// Command healthcheck probes the local server's health endpoint and exits
// non-zero when it is not serving. It is meant for container HEALTHCHECK.
package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr  = "127.0.0.1:8501"
	probeTimeout = 2 * time.Second
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if !healthy(ctx, http.DefaultClient, "http://"+probeAddr(os.Getenv("STUDYASSISTANT_LISTEN_ADDR"))) {
		os.Exit(1)
	}
}

// healthy reports whether baseURL answers /api/v1/health with 200 and
// status "ok". A missing API key does not make the process unhealthy.
func healthy(ctx context.Context, client *http.Client, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/health", nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Status == "ok"
}

// probeAddr maps the server's listen address to one the probe can dial from
// inside the same container.
func probeAddr(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if listen == "" || err != nil {
		return defaultAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
