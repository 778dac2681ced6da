package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrMalformedURL = errors.New("malformed url")

// MalformedURLError is returned by DomainOf when no authority can be
// extracted from a URL.
type MalformedURLError struct {
	URL    string
	Reason string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed url %q: %s", e.URL, e.Reason)
}

func (e *MalformedURLError) Unwrap() error { return ErrMalformedURL }

// DomainOf returns the authority of rawURL (host with optional port) with
// scheme, userinfo, path, query and fragment removed. Host names are
// lowercased so that case variants pool into one domain.
func DomainOf(rawURL string) (Domain, error) {
	raw := strings.TrimSpace(rawURL)
	if !strings.Contains(raw, "://") {
		return "", &MalformedURLError{URL: rawURL, Reason: "missing scheme separator"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &MalformedURLError{URL: rawURL, Reason: err.Error()}
	}
	if u.Scheme == "" {
		return "", &MalformedURLError{URL: rawURL, Reason: "missing scheme"}
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", &MalformedURLError{URL: rawURL, Reason: "missing host"}
	}
	return Domain(strings.ToLower(u.Host)), nil
}
