package domain

import (
	"net/http"
	"strings"
)

// Domain is the aggregation key for availability: the authority of an
// endpoint URL (host, plus port when one is given).
type Domain string

func (d Domain) String() string { return string(d) }

// Status is the classified outcome of a single probe.
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

func (s Status) String() string { return string(s) }

// Up reports whether s counts towards availability.
func (s Status) Up() bool { return s == StatusUp }

// EndpointSpec is one configured probe target. Specs are loaded once and
// never modified afterwards.
type EndpointSpec struct {
	Name    string            `yaml:"name" json:"name,omitempty"`
	URL     string            `yaml:"url" json:"url"`
	Method  string            `yaml:"method" json:"method"`
	Headers map[string]string `yaml:"headers" json:"headers,omitempty"`
	Body    string            `yaml:"body" json:"body,omitempty"`
}

// WithDefaults returns a copy of e with the optional fields filled in.
func (e EndpointSpec) WithDefaults() EndpointSpec {
	e.URL = strings.TrimSpace(e.URL)
	e.Method = strings.ToUpper(e.Method)
	if e.Method == "" {
		e.Method = http.MethodGet
	}
	headers := make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		headers[k] = v
	}
	e.Headers = headers
	return e
}

// Label is what logs use to identify the endpoint.
func (e EndpointSpec) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.URL
}
