package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/rate-card-service/domain/errors"
	"clipledger/contexts/creator-monetization/rate-card-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	programs map[string]entities.Program
}

func NewStore(seed []entities.Program) *Store {
	programs := make(map[string]entities.Program, len(seed))
	for _, item := range seed {
		programs[item.ProgramID] = item
	}
	return &Store{programs: programs}
}

func (s *Store) CreateProgram(_ context.Context, program entities.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[program.ProgramID] = program
	return nil
}

func (s *Store) GetProgram(_ context.Context, programID string) (entities.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	program, exists := s.programs[strings.TrimSpace(programID)]
	if !exists {
		return entities.Program{}, domainerrors.ErrProgramNotFound
	}
	return program, nil
}

func (s *Store) UpdateProgram(_ context.Context, program entities.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.programs[program.ProgramID]; !exists {
		return domainerrors.ErrProgramNotFound
	}
	s.programs[program.ProgramID] = program
	return nil
}

func (s *Store) ListPrograms(_ context.Context, filter ports.ProgramFilter) ([]entities.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Program, 0, len(s.programs))
	for _, item := range s.programs {
		if filter.Status != "" && string(item.Status) != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
