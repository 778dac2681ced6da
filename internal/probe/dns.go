package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/hamed0406/domainhealth/internal/domain"
)

type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNoAddress   DNSClass = "NO_A_RECORD"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSFailure     DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

type DNSStatus struct {
	Host          string
	IPs           []net.IP
	Class         DNSClass
	ResolverError string
}

// DefaultDNSTimeout bounds a single CheckDNS call.
const DefaultDNSTimeout = 3 * time.Second

// CheckDNS resolves the host part of d with the OS resolver and classifies
// the answer. It is a diagnostic; probes never call it.
func CheckDNS(ctx context.Context, d domain.Domain) DNSStatus {
	host := d.String()
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	s := DNSStatus{Host: host}
	if host == "" || strings.Contains(host, "/") {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(host); ip != nil {
		s.IPs = []net.IP{ip}
		s.Class = DNSResolves
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultDNSTimeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = DNSResolves
	case err == nil:
		s.Class = DNSNoAddress
	default:
		s.ResolverError = err.Error()
		s.Class = DNSFailure
		var de *net.DNSError
		if errors.As(err, &de) && de.IsNotFound {
			s.Class = DNSNXDomain
		}
	}
	return s
}
