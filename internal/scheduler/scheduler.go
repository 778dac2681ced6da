package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/domainhealth/internal/domain"
	"github.com/hamed0406/domainhealth/internal/probe"
	"github.com/hamed0406/domainhealth/internal/repo"
)

// DefaultInterval is the pause between the end of one round and the start
// of the next.
const DefaultInterval = 15 * time.Second

// Target is an endpoint with its domain already resolved.
type Target struct {
	Spec   domain.EndpointSpec
	Domain domain.Domain
}

type Scheduler struct {
	Logger   *zap.Logger
	Targets  []Target
	Ledger   repo.Ledger
	Checker  probe.Checker
	Reporter Reporter
	Mode     Mode
	Interval time.Duration
	// Concurrency caps in-flight probes in ModeConcurrent; 0 means no cap.
	Concurrency int

	now     func() time.Time
	round   int
	started time.Time
}

// NewScheduler resolves the domain of every spec up front. A spec whose URL
// has no usable authority is a configuration error.
func NewScheduler(
	logger *zap.Logger,
	specs []domain.EndpointSpec,
	ledger repo.Ledger,
	checker probe.Checker,
	reporter Reporter,
	mode Mode,
	interval time.Duration,
	concurrency int,
) (*Scheduler, error) {
	targets := make([]Target, 0, len(specs))
	for i, sp := range specs {
		d, err := domain.DomainOf(sp.URL)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", i, err)
		}
		targets = append(targets, Target{Spec: sp.WithDefaults(), Domain: d})
	}
	if interval < 0 {
		interval = 0
	}
	if concurrency < 0 {
		concurrency = 0
	}
	if reporter == nil {
		reporter = MultiReporter{}
	}
	return &Scheduler{
		Logger:      logger,
		Targets:     targets,
		Ledger:      ledger,
		Checker:     checker,
		Reporter:    reporter,
		Mode:        mode,
		Interval:    interval,
		Concurrency: concurrency,
		now:         time.Now,
	}, nil
}

// Run executes rounds until ctx is cancelled, sleeping Interval after each
// report. It only returns with ctx's error.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Logger.Info("scheduler_started",
		zap.Int("targets", len(s.Targets)),
		zap.Stringer("mode", s.Mode),
		zap.Duration("interval", s.Interval),
	)
	t := time.NewTimer(0)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped", zap.Int("rounds", s.round))
			return ctx.Err()
		case <-t.C:
		}

		if _, err := s.RunRound(ctx); err != nil {
			s.Logger.Info("scheduler_stopped", zap.Int("rounds", s.round), zap.Error(err))
			return err
		}
		t.Reset(s.Interval)
	}
}

// RunRound probes every target once, records the samples and emits the
// report. If ctx ends while probes are in flight their samples are dropped,
// no report is emitted and ctx's error is returned.
func (s *Scheduler) RunRound(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	now := s.now()
	if s.round == 0 {
		s.started = now
	}
	s.round++
	round := s.round
	s.Reporter.RoundStarted(round, now.Sub(s.started))

	var err error
	if s.Mode == ModeConcurrent {
		err = s.probeConcurrent(ctx)
	} else {
		err = s.probeSequential(ctx)
	}
	if err != nil {
		return Report{}, err
	}

	rep := s.report(round, now.Sub(s.started))
	s.Reporter.RoundFinished(rep)
	s.Logger.Debug("scheduler_round_done",
		zap.Int("round", round),
		zap.Duration("took", s.now().Sub(now)),
	)
	return rep, nil
}

func (s *Scheduler) probeSequential(ctx context.Context) error {
	for _, t := range s.Targets {
		out := s.Checker.Check(ctx, t.Spec)
		if err := ctx.Err(); err != nil {
			return err
		}
		s.record(t, out)
	}
	return nil
}

func (s *Scheduler) probeConcurrent(ctx context.Context) error {
	results := make([]probe.CheckResult, len(s.Targets))

	var sem chan struct{}
	if s.Concurrency > 0 {
		sem = make(chan struct{}, s.Concurrency)
	}
	var wg sync.WaitGroup

	for i, tgt := range s.Targets {
		if sem != nil {
			sem <- struct{}{}
		}
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			results[i] = s.Checker.Check(ctx, t.Spec)
		}(i, tgt)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	// single writer: the whole round is recorded after the join
	for i, t := range s.Targets {
		s.record(t, results[i])
	}
	return nil
}

func (s *Scheduler) record(t Target, out probe.CheckResult) {
	s.Ledger.Record(t.Domain, out.Status)
	s.Logger.Debug("scheduler_checked",
		zap.String("endpoint", t.Spec.Label()),
		zap.String("url", t.Spec.URL),
		zap.String("domain", t.Domain.String()),
		zap.Int("status", out.StatusCode),
		zap.Stringer("result", out.Status),
		zap.Duration("latency", out.Latency),
		zap.String("reason", out.Message),
	)
}

func (s *Scheduler) report(round int, elapsed time.Duration) Report {
	domains := s.Ledger.Domains()
	rep := Report{Round: round, Elapsed: elapsed, Lines: make([]ReportLine, 0, len(domains))}
	for _, d := range domains {
		ratio, ok := s.Ledger.Availability(d)
		if !ok {
			continue
		}
		rep.Lines = append(rep.Lines, ReportLine{
			Domain:       d,
			Availability: ratio,
			Percent:      repo.Percent(ratio),
		})
	}
	return rep
}
