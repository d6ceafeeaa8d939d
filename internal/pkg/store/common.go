package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
)

const (
	tableEnergyData = "estimated_energy_data"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// applianceColumns lists the store columns in catalog order.
func applianceColumns() []string {
	cols := make([]string, 0, len(domain.ApplianceTypes))
	for _, at := range domain.ApplianceTypes {
		cols = append(cols, at.Column)
	}
	return cols
}
