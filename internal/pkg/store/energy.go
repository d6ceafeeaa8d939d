package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
)

func fetchEnergyRangeQuery(houseID string, sts, ets int64) sq.SelectBuilder {
	return builder().Select(append([]string{"timestamp"}, applianceColumns()...)...).
		From(tableEnergyData).
		Where(sq.And{
			sq.Eq{"house_id": houseID},
			sq.GtOrEq{"timestamp": sts},
			sq.Lt{"timestamp": ets},
		}).
		OrderBy("timestamp ASC")
}

func (s *store) FetchEnergyRange(ctx context.Context, houseID string, sts, ets int64) ([]*domain.EnergyRecord, error) {
	rows, err := s.pool.Queryx(ctx, fetchEnergyRangeQuery(houseID, sts, ets))
	if err != nil {
		logger.Errorf(ctx, "FetchEnergyRange, house-%s: %s", houseID, err.Error())
		return nil, wrapErr(err)
	}
	defer rows.Close()

	selected := make([]*domain.EnergyRecord, 0, 128)
	for rows.Next() {
		var ts int64
		powers := make([]*float64, len(domain.ApplianceTypes))

		dst := make([]interface{}, 0, len(powers)+1)
		dst = append(dst, &ts)
		for i := range powers {
			dst = append(dst, &powers[i])
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		record := domain.NewEnergyRecord(ts)
		for i, at := range domain.ApplianceTypes {
			record.Readings[at.Name] = powers[i]
		}
		selected = append(selected, record)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CountEnergyRows(ctx context.Context, houseID string) (int64, error) {
	query := builder().Select("count(*)").
		From(tableEnergyData).
		Where(sq.Eq{"house_id": houseID})

	var count int64
	if err := s.pool.Getx(ctx, &count, query); err != nil {
		return 0, wrapErr(err)
	}

	return count, nil
}

func (s *store) DeleteEnergyRows(ctx context.Context, houseID string) (int64, error) {
	query := builder().Delete(tableEnergyData).
		Where(sq.Eq{"house_id": houseID})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		logger.Errorf(ctx, "DeleteEnergyRows, house-%s: %s", houseID, err.Error())
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func insertEnergyRowsQuery(houseID string, records []*domain.EnergyRecord) sq.InsertBuilder {
	query := builder().Insert(tableEnergyData).
		Columns(append([]string{"house_id", "timestamp"}, applianceColumns()...)...)

	for _, r := range records {
		values := make([]interface{}, 0, len(domain.ApplianceTypes)+2)
		values = append(values, houseID, r.Timestamp)
		for _, at := range domain.ApplianceTypes {
			values = append(values, r.Readings[at.Name])
		}
		query = query.Values(values...)
	}

	return query
}

func (s *store) InsertEnergyRows(ctx context.Context, houseID string, records []*domain.EnergyRecord) error {
	if len(records) == 0 {
		return nil
	}

	if _, err := s.pool.Execx(ctx, insertEnergyRowsQuery(houseID, records)); err != nil {
		logger.Error(ctx, err.Error())
		return fmt.Errorf("insert %d rows, house-%s: %w", len(records), houseID, err)
	}

	return nil
}
