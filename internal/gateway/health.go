package gateway

import (
	"fmt"
	"net/http"
	"time"
)

// HTTPHealth probes the service's health endpoint on localhost. The service
// answers 200 when fully up and 503 while it is still wiring itself together;
// a refused connection while the process is known alive means the listener is
// not up yet and is likewise treated as initializing.
type HTTPHealth struct {
	Port    int
	Timeout time.Duration
}

func (h HTTPHealth) Check() HealthState {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", h.Port))
	if err != nil {
		return Initializing
	}
	defer func() { _ = resp.Body.Close() }()
	switch {
	case resp.StatusCode == http.StatusOK:
		return Healthy
	case resp.StatusCode == http.StatusServiceUnavailable:
		return Initializing
	default:
		return Unhealthy
	}
}
