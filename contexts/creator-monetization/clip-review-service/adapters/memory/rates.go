package memory

import (
	"context"
	"strings"
	"sync"

	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

// RateTable is an in-memory RateResolver for tests and local wiring.
type RateTable struct {
	mu    sync.RWMutex
	rates map[string]ports.ProgramRate
}

func NewRateTable(seed []ports.ProgramRate) *RateTable {
	rates := make(map[string]ports.ProgramRate, len(seed))
	for _, item := range seed {
		rates[item.ProgramID] = item
	}
	return &RateTable{rates: rates}
}

func (t *RateTable) Rate(_ context.Context, programID string) (ports.ProgramRate, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rate, exists := t.rates[strings.TrimSpace(programID)]
	if !exists {
		return ports.ProgramRate{}, domainerrors.ErrProgramNotFound
	}
	return rate, nil
}

func (t *RateTable) SetRate(rate ports.ProgramRate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[rate.ProgramID] = rate
}
