package store

import (
	"context"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	// FetchEnergyRange returns the house's records with sts <= timestamp < ets,
	// ascending by timestamp.
	FetchEnergyRange(ctx context.Context, houseID string, sts, ets int64) ([]*domain.EnergyRecord, error)
	CountEnergyRows(ctx context.Context, houseID string) (int64, error)
	DeleteEnergyRows(ctx context.Context, houseID string) (int64, error)
	// InsertEnergyRows writes all records in a single statement.
	InsertEnergyRows(ctx context.Context, houseID string, records []*domain.EnergyRecord) error
	Ping(ctx context.Context) error
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

func (s *store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
