package entities

import "time"

// CreatorLedger is the single per-creator row of running credited totals.
// Only the reconciliation engine mutates it, always in the same transaction
// as the clip write that produced the delta.
type CreatorLedger struct {
	CreatorID            string
	CreditedViewsTotal   int64
	CreditedRevenueTotal float64
	UpdatedAt            time.Time
}

// ClipAudit records one engine operation against a clip, including the exact
// ledger deltas applied and the rate used at the time.
type ClipAudit struct {
	AuditID      string
	ClipID       string
	Action       string
	OldStatus    ClipStatus
	NewStatus    ClipStatus
	ActorID      string
	ViewsBefore  int64
	ViewsAfter   int64
	ViewsDelta   int64
	RevenueDelta float64
	RateUsed     float64
	CreatedAt    time.Time
}
