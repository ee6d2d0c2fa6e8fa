package entities

import (
	"strings"
	"time"
)

type ClipStatus string

const (
	ClipStatusPending  ClipStatus = "pending"
	ClipStatusApproved ClipStatus = "approved"
	ClipStatusRejected ClipStatus = "rejected"
)

// Clip is a submitted social-media clip with its self-reported view count and
// the credit currently reflected in the owner's ledger. CreditedViews is nil
// until the clip has been credited at least once.
type Clip struct {
	ClipID         string
	OwnerAccountID string
	CreatorID      string
	ProgramID      string
	Link           string
	Platform       string
	CanonicalID    string
	ReportedViews  int64
	CreditedViews  *int64
	Status         ClipStatus
	PostedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Clip) ValidateSubmit() bool {
	return strings.TrimSpace(c.OwnerAccountID) != "" &&
		strings.TrimSpace(c.CreatorID) != "" &&
		strings.TrimSpace(c.ProgramID) != "" &&
		strings.TrimSpace(c.Link) != "" &&
		c.ReportedViews >= 0
}

// CreditSnapshot is the view count last credited to the ledger for this clip,
// or zero if the clip has never been credited.
func (c Clip) CreditSnapshot() int64 {
	if c.CreditedViews == nil {
		return 0
	}
	return *c.CreditedViews
}

// OutstandingCredit reports whether ledger credit is currently held against
// this clip. A credited clip keeps its debt through an un-approving view edit;
// only a clawback rejection settles it while preserving the snapshot.
func (c Clip) OutstandingCredit() bool {
	return c.CreditedViews != nil && c.Status != ClipStatusRejected
}

// allowedTransitions is the complete review state machine. Transitions are
// driven only by the review operations; approved->pending happens exclusively
// through a view edit, never by a direct status change.
var allowedTransitions = map[ClipStatus]map[ClipStatus]bool{
	ClipStatusPending: {
		ClipStatusApproved: true,
		ClipStatusRejected: true,
	},
	ClipStatusApproved: {
		ClipStatusApproved: true, // idempotent re-approve
		ClipStatusRejected: true, // clawback
		ClipStatusPending:  true, // un-approval via view edit
	},
	ClipStatusRejected: {
		ClipStatusApproved: true, // re-approve after rejection
		ClipStatusRejected: true,
	},
}

func CanTransition(from ClipStatus, to ClipStatus) bool {
	return allowedTransitions[from][to]
}
