package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/domainhealth/internal/domain"
)

type HTTPChecker struct {
	Client    *http.Client
	Threshold time.Duration
}

// NewHTTPChecker builds a checker whose client gives up after timeout.
// A zero threshold means DefaultLatencyThreshold.
func NewHTTPChecker(timeout, threshold time.Duration) *HTTPChecker {
	if threshold <= 0 {
		threshold = DefaultLatencyThreshold
	}
	return &HTTPChecker{
		Client:    &http.Client{Timeout: timeout},
		Threshold: threshold,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, spec domain.EndpointSpec) CheckResult {
	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if spec.Body != "" {
		body = strings.NewReader(spec.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, spec.URL, body)
	if err != nil {
		return CheckResult{Status: domain.StatusDown, Message: err.Error()}
	}
	for k, v := range spec.Headers {
		// net/http ignores a Host entry in Header
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := h.Client.Do(req)
	if err != nil {
		return CheckResult{Status: domain.StatusDown, Message: err.Error(), Latency: time.Since(start)}
	}
	defer resp.Body.Close()

	// the exchange is only complete once the body is in
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return CheckResult{
			Status:     domain.StatusDown,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("read body: %v", err),
			Latency:    time.Since(start),
		}
	}
	latency := time.Since(start)

	status := Classify(resp.StatusCode, latency, h.Threshold)
	msg := resp.Status
	if status == domain.StatusDown && resp.StatusCode/100 == 2 {
		msg = fmt.Sprintf("%s (slow: %s >= %s)", resp.Status, latency.Round(time.Millisecond), h.Threshold)
	}
	return CheckResult{
		Status:     status,
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Message:    msg,
	}
}
