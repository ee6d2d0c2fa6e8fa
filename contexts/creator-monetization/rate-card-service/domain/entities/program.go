package entities

import (
	"strings"
	"time"
)

type ProgramStatus string

const (
	ProgramActive   ProgramStatus = "active"
	ProgramArchived ProgramStatus = "archived"
)

// Program is a revenue program: the rate card entry that converts credited
// views into money for clips submitted under it.
type Program struct {
	ProgramID        string
	Name             string
	Description      string
	RatePer100KViews float64
	Status           ProgramStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p Program) ValidateCreate() bool {
	if strings.TrimSpace(p.Name) == "" {
		return false
	}
	return p.RatePer100KViews > 0
}

func (p Program) IsActive() bool {
	return p.Status == ProgramActive
}
