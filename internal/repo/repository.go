package repo

import "github.com/hamed0406/domainhealth/internal/domain"

// DomainAvailability is a point-in-time view of one domain's history.
type DomainAvailability struct {
	Domain       domain.Domain `json:"domain"`
	Availability float64       `json:"availability"`
	Percent      int           `json:"percent"`
	Up           int           `json:"up"`
	Samples      int           `json:"samples"`
}

// Ledger holds the per-domain UP/DOWN history for the life of the process.
// Record appends; nothing is ever removed.
type Ledger interface {
	Record(d domain.Domain, s domain.Status)
	// Availability returns the UP ratio of d. ok is false when d has no
	// samples, in which case the ratio is meaningless.
	Availability(d domain.Domain) (ratio float64, ok bool)
	// Domains lists every domain with at least one sample, sorted.
	Domains() []domain.Domain
}

// Snapshotter is implemented by ledgers that can be read as a whole, e.g.
// for the status API.
type Snapshotter interface {
	Snapshot() []DomainAvailability
}
