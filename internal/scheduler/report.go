package scheduler

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/domainhealth/internal/domain"
)

// ReportLine is the lifetime availability of one domain.
type ReportLine struct {
	Domain       domain.Domain `json:"domain"`
	Availability float64       `json:"availability"`
	Percent      int           `json:"percent"`
}

// Report is emitted once per round after all of its samples are recorded.
// It only lists domains that have at least one sample.
type Report struct {
	Round   int           `json:"round"`
	Elapsed time.Duration `json:"elapsed"`
	Lines   []ReportLine  `json:"lines"`
}

// Reporter receives the round boundary and the per-domain report.
type Reporter interface {
	RoundStarted(round int, elapsed time.Duration)
	RoundFinished(r Report)
}

// TextReporter writes the human-readable report to W.
type TextReporter struct {
	mu sync.Mutex
	W  io.Writer
}

func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{W: w}
}

func (t *TextReporter) RoundStarted(round int, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bar := strings.Repeat("*", 10)
	fmt.Fprintf(t.W, "%s Starting health checks at %d seconds (round %d) %s\n",
		bar, int64(elapsed.Round(time.Second)/time.Second), round, bar)
}

func (t *TextReporter) RoundFinished(r Report) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, l := range r.Lines {
		fmt.Fprintf(t.W, "%s is %d%% available\n", l.Domain, l.Percent)
	}
}

// LogReporter mirrors the report into the structured log.
type LogReporter struct {
	Logger *zap.Logger
}

func (l LogReporter) RoundStarted(round int, elapsed time.Duration) {
	l.Logger.Info("round_started", zap.Int("round", round), zap.Duration("elapsed", elapsed))
}

func (l LogReporter) RoundFinished(r Report) {
	for _, line := range r.Lines {
		l.Logger.Info("domain_availability",
			zap.Int("round", r.Round),
			zap.String("domain", line.Domain.String()),
			zap.Int("percent", line.Percent),
			zap.Float64("availability", line.Availability),
		)
	}
}

type MultiReporter []Reporter

func (m MultiReporter) RoundStarted(round int, elapsed time.Duration) {
	for _, r := range m {
		if r != nil {
			r.RoundStarted(round, elapsed)
		}
	}
}

func (m MultiReporter) RoundFinished(rep Report) {
	for _, r := range m {
		if r != nil {
			r.RoundFinished(rep)
		}
	}
}
