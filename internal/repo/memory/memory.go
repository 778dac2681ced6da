package memory

import (
	"sort"
	"sync"

	"github.com/hamed0406/domainhealth/internal/domain"
	"github.com/hamed0406/domainhealth/internal/repo"
)

// Ledger is an in-memory, process-lifetime repo.Ledger. Histories grow
// without bound.
type Ledger struct {
	mu      sync.RWMutex
	history map[domain.Domain][]domain.Status
	up      map[domain.Domain]int
}

func New() *Ledger {
	return &Ledger{
		history: make(map[domain.Domain][]domain.Status),
		up:      make(map[domain.Domain]int),
	}
}

func (l *Ledger) Record(d domain.Domain, s domain.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history[d] = append(l.history[d], s)
	if s.Up() {
		l.up[d]++
	}
}

func (l *Ledger) Availability(d domain.Domain) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.history[d])
	if n == 0 {
		return 0, false
	}
	return float64(l.up[d]) / float64(n), true
}

func (l *Ledger) Domains() []domain.Domain {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Domain, 0, len(l.history))
	for d, h := range l.history {
		if len(h) > 0 {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// History returns a copy of the samples recorded for d, oldest first.
func (l *Ledger) History(d domain.Domain) []domain.Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h := l.history[d]
	out := make([]domain.Status, len(h))
	copy(out, h)
	return out
}

func (l *Ledger) Snapshot() []repo.DomainAvailability {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]repo.DomainAvailability, 0, len(l.history))
	for d, h := range l.history {
		if len(h) == 0 {
			continue
		}
		ratio := float64(l.up[d]) / float64(len(h))
		out = append(out, repo.DomainAvailability{
			Domain:       d,
			Availability: ratio,
			Percent:      repo.Percent(ratio),
			Up:           l.up[d],
			Samples:      len(h),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}
