package document

import "time"

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"

	// Derived statuses. Never stored; computed from expiryDate on read.
	StatusExpired  Status = "expired"
	StatusExpiring Status = "expiring"
)

var StoredStatusValues = []string{
	string(StatusSubmitted),
	string(StatusApproved),
	string(StatusRejected),
}

type Document struct {
	ID         string
	UserID     string
	Name       string
	Category   string
	FilePath   string
	Status     Status
	ExpiryDate *time.Time
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	UserName *string
}

// EffectiveStatus derives the expiry-relative status at read time. Pure: the
// stored status is never written back, so concurrent status updates cannot
// race against the derivation.
func (d *Document) EffectiveStatus(now time.Time, warningWindow time.Duration) Status {
	if d.ExpiryDate == nil {
		return d.Status
	}
	if d.ExpiryDate.Before(now) {
		return StatusExpired
	}
	if d.ExpiryDate.Sub(now) <= warningWindow {
		return StatusExpiring
	}
	return d.Status
}
