package probe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/domainhealth/internal/domain"
)

func spec(url string) domain.EndpointSpec {
	return domain.EndpointSpec{URL: url}.WithDefaults()
}

func TestHTTPChecker_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	chk := NewHTTPChecker(2*time.Second, 0)
	out := chk.Check(context.Background(), spec(s.URL))
	if out.Status != domain.StatusUp {
		t.Fatalf("want UP, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want status 200, got %d", out.StatusCode)
	}
	if !strings.HasPrefix(out.Message, "200") {
		t.Fatalf("want message to start with 200, got %q", out.Message)
	}
	if out.Latency <= 0 {
		t.Fatalf("latency should be > 0, got %s", out.Latency)
	}
}

func TestHTTPChecker_Status500(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2*time.Second, 0)
	out := chk.Check(context.Background(), spec(s.URL))
	if out.Status != domain.StatusDown {
		t.Fatalf("want DOWN, got %+v", out)
	}
	if out.StatusCode != 500 {
		t.Fatalf("want status 500, got %d", out.StatusCode)
	}
}

func TestHTTPChecker_RedirectStatusIsDown(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer s.Close()

	out := NewHTTPChecker(2*time.Second, 0).Check(context.Background(), spec(s.URL))
	if out.Status != domain.StatusDown || out.StatusCode != 304 {
		t.Fatalf("want DOWN/304, got %+v", out)
	}
}

func TestHTTPChecker_SlowSuccessIsDown(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(80 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2*time.Second, 20*time.Millisecond)
	out := chk.Check(context.Background(), spec(s.URL))
	if out.Status != domain.StatusDown {
		t.Fatalf("want DOWN for slow response, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want status 200 recorded, got %d", out.StatusCode)
	}
	if !strings.Contains(out.Message, "slow") {
		t.Fatalf("want slow annotation, got %q", out.Message)
	}
}

func TestHTTPChecker_SlowBodyCountsTowardsLatency(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.(http.Flusher).Flush()
		time.Sleep(80 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer s.Close()

	out := NewHTTPChecker(2*time.Second, 40*time.Millisecond).Check(context.Background(), spec(s.URL))
	if out.Status != domain.StatusDown {
		t.Fatalf("want DOWN when the body arrives late, got %+v", out)
	}
}

func TestHTTPChecker_TimeoutSetsStatusZero(t *testing.T) {
	// Server sleeps longer than client timeout
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := NewHTTPChecker(50*time.Millisecond, 0)
	out := chk.Check(context.Background(), spec(s.URL))
	if out.Status != domain.StatusDown {
		t.Fatalf("want DOWN due to timeout, got %+v", out)
	}
	if out.StatusCode != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.StatusCode)
	}
	if out.Message == "" {
		t.Fatalf("want non-empty error message")
	}
}

func TestHTTPChecker_ConnectionRefused(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close()

	out := NewHTTPChecker(time.Second, 0).Check(context.Background(), spec(url))
	if out.Status != domain.StatusDown || out.StatusCode != 0 {
		t.Fatalf("want DOWN/0 on refused connection, got %+v", out)
	}
}

func TestHTTPChecker_CancelledContext(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	out := NewHTTPChecker(0, 0).Check(ctx, spec(s.URL))
	if out.Status != domain.StatusDown {
		t.Fatalf("want DOWN when cancelled, got %+v", out)
	}
}

func TestHTTPChecker_BadMethodIsDown(t *testing.T) {
	sp := spec("http://example.invalid")
	sp.Method = "BAD METHOD"
	out := NewHTTPChecker(time.Second, 0).Check(context.Background(), sp)
	if out.Status != domain.StatusDown || out.Message == "" {
		t.Fatalf("want DOWN with reason, got %+v", out)
	}
}

func TestHTTPChecker_PassesMethodHeadersBody(t *testing.T) {
	var gotMethod, gotHeader, gotBody string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("User-Agent")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(201)
	}))
	defer s.Close()

	sp := domain.EndpointSpec{
		URL:     s.URL + "/body",
		Method:  http.MethodPost,
		Headers: map[string]string{"User-Agent": "fetch-synthetic-monitor"},
		Body:    `{"foo":"bar"}`,
	}
	out := NewHTTPChecker(2*time.Second, 0).Check(context.Background(), sp)
	if out.Status != domain.StatusUp {
		t.Fatalf("want UP, got %+v", out)
	}
	if gotMethod != http.MethodPost || gotHeader != "fetch-synthetic-monitor" || gotBody != `{"foo":"bar"}` {
		t.Fatalf("request not passed through: method=%q ua=%q body=%q", gotMethod, gotHeader, gotBody)
	}
}

func TestHTTPChecker_LowercaseMethodAndHostHeader(t *testing.T) {
	var gotMethod, gotHost string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHost = r.Host
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(200)
	}))
	defer s.Close()

	sp := domain.EndpointSpec{
		URL:     s.URL + "/vhost",
		Method:  "get",
		Headers: map[string]string{"host": "vhost.example.com"},
	}
	out := NewHTTPChecker(2*time.Second, 0).Check(context.Background(), sp)
	if out.Status != domain.StatusUp {
		t.Fatalf("want UP, got %+v (server saw method=%q)", out, gotMethod)
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("want method GET on the wire, got %q", gotMethod)
	}
	if gotHost != "vhost.example.com" {
		t.Fatalf("want Host vhost.example.com, got %q", gotHost)
	}
}

func TestClassify(t *testing.T) {
	th := 500 * time.Millisecond
	cases := []struct {
		code    int
		latency time.Duration
		want    domain.Status
	}{
		{200, 100 * time.Millisecond, domain.StatusUp},
		{204, 499 * time.Millisecond, domain.StatusUp},
		{299, 0, domain.StatusUp},
		{200, 500 * time.Millisecond, domain.StatusDown},
		{200, 2 * time.Second, domain.StatusDown},
		{199, 10 * time.Millisecond, domain.StatusDown},
		{300, 10 * time.Millisecond, domain.StatusDown},
		{404, 10 * time.Millisecond, domain.StatusDown},
		{500, 10 * time.Millisecond, domain.StatusDown},
		{0, 10 * time.Millisecond, domain.StatusDown},
	}
	for _, c := range cases {
		if got := Classify(c.code, c.latency, th); got != c.want {
			t.Fatalf("Classify(%d, %s)=%s want %s", c.code, c.latency, got, c.want)
		}
	}
}
