// Package storesource serves energy records from the relational store.
package storesource

import (
	"context"
	"fmt"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/store"
)

type Source struct {
	store store.Store
}

func NewSource(store store.Store) *Source {
	return &Source{store: store}
}

func (s *Source) Mode() domain.Mode {
	return domain.ModeDatabase
}

func (s *Source) FetchRange(ctx context.Context, key domain.HouseKey, sts, ets int64) ([]*domain.EnergyRecord, error) {
	records, err := s.store.FetchEnergyRange(ctx, key.ID, sts, ets)
	if err != nil {
		return nil, fmt.Errorf("store.FetchEnergyRange: %w", err)
	}

	return records, nil
}

func (s *Source) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
