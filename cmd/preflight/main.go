// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hamed0406/domainhealth/internal/config"
	"github.com/hamed0406/domainhealth/internal/domain"
	"github.com/hamed0406/domainhealth/internal/probe"
)

// preflight checks the same flags, environment and endpoints file as the
// healthcheck command without probing anything.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fail := func(msg string) int {
		fmt.Fprintln(stderr, "✖", msg)
		return 1
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	fs := config.NewFlagSet("preflight")
	fs.SetOutput(stderr)
	skipDNS := fs.Bool("skip-dns", false, "do not resolve endpoint hosts")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fail("settings: " + err.Error())
	}
	ok(fmt.Sprintf("interval=%s latency-threshold=%s probe-timeout=%s", cfg.Interval, cfg.LatencyThreshold, cfg.ProbeTimeout))

	if cfg.ProbeTimeout == 0 {
		warn("probe-timeout is 0; an endpoint that never answers blocks its round forever.")
	} else if cfg.ProbeTimeout < cfg.LatencyThreshold {
		warn("probe-timeout is below latency-threshold; slow endpoints show up as timeouts.")
	}
	if cfg.Concurrent {
		ok("mode=concurrent")
	} else {
		ok("mode=sequential")
	}
	if cfg.StatusAddr == "" {
		warn("status-addr empty; the status API is disabled.")
	} else {
		ok("status-addr=" + cfg.StatusAddr)
	}

	specs, err := config.LoadEndpoints(cfg.EndpointsPath)
	if err != nil {
		return fail(err.Error())
	}

	perDomain := map[domain.Domain]int{}
	for _, sp := range specs {
		d, err := domain.DomainOf(sp.URL)
		if err != nil {
			return fail(err.Error())
		}
		perDomain[d]++
	}
	names := make([]string, 0, len(perDomain))
	for d := range perDomain {
		names = append(names, d.String())
	}
	sort.Strings(names)
	ok(fmt.Sprintf("%d endpoints across %d domains", len(specs), len(perDomain)))
	for _, n := range names {
		ok(fmt.Sprintf("  %s (%d endpoints)", n, perDomain[domain.Domain(n)]))
		if *skipDNS {
			continue
		}
		// unresolvable hosts are legal; they just report 0%
		if dns := probe.CheckDNS(context.Background(), domain.Domain(n)); dns.Class != probe.DNSResolves {
			warn(fmt.Sprintf("%s: dns=%s %s", n, dns.Class, dns.ResolverError))
		}
	}

	ok("preflight passed")
	return 0
}
