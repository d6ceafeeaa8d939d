// Package memory is an in-process store.Store for tests. It keeps the same
// window and ordering rules as the PostgreSQL implementation.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	houses map[string][]*domain.EnergyRecord

	// InsertCalls counts InsertEnergyRows invocations.
	InsertCalls int
	// PingErr is returned by Ping when set.
	PingErr error
}

func New() *Store {
	return &Store{houses: make(map[string][]*domain.EnergyRecord)}
}

func (s *Store) FetchEnergyRange(ctx context.Context, houseID string, sts, ets int64) ([]*domain.EnergyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	selected := make([]*domain.EnergyRecord, 0)
	for _, r := range s.houses[houseID] {
		if r.Timestamp >= sts && r.Timestamp < ets {
			selected = append(selected, copyRecord(r))
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Timestamp < selected[j].Timestamp
	})

	return selected, nil
}

func (s *Store) CountEnergyRows(ctx context.Context, houseID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.houses[houseID])), nil
}

func (s *Store) DeleteEnergyRows(ctx context.Context, houseID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.houses[houseID]))
	delete(s.houses, houseID)
	return n, nil
}

func (s *Store) InsertEnergyRows(ctx context.Context, houseID string, records []*domain.EnergyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.InsertCalls++
	for _, r := range records {
		s.houses[houseID] = append(s.houses[houseID], copyRecord(r))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.PingErr
}

// Rows returns a copy of everything stored for houseID in insertion order.
func (s *Store) Rows(houseID string) []*domain.EnergyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.EnergyRecord, 0, len(s.houses[houseID]))
	for _, r := range s.houses[houseID] {
		out = append(out, copyRecord(r))
	}
	return out
}

// copyRecord detaches stored rows from callers, the way a database round trip would.
func copyRecord(r *domain.EnergyRecord) *domain.EnergyRecord {
	c := domain.NewEnergyRecord(r.Timestamp)
	for _, at := range domain.ApplianceTypes {
		if v := r.Readings[at.Name]; v != nil {
			val := *v
			c.Readings[at.Name] = &val
		} else {
			c.Readings[at.Name] = nil
		}
	}
	return c
}
