package energy

import "github.com/ougirez/energy-mock/internal/domain"

// Build transposes records into one timestamps column and one powers column
// per catalog entry, in catalog order. No records gives the empty shape.
func Build(records []*domain.EnergyRecord) *domain.EstimatedData {
	if len(records) == 0 {
		return &domain.EstimatedData{
			Timestamps:      []int64{},
			ApplianceSeries: []domain.ApplianceSeries{},
		}
	}

	timestamps := make([]int64, len(records))
	for i, r := range records {
		timestamps[i] = r.Timestamp
	}

	series := make([]domain.ApplianceSeries, 0, len(domain.ApplianceTypes))
	for _, at := range domain.ApplianceTypes {
		powers := make([]*float64, len(records))
		for i, r := range records {
			powers[i] = r.Readings[at.Name]
		}
		series = append(series, domain.ApplianceSeries{
			ApplianceTypeID: at.ID,
			Powers:          powers,
		})
	}

	return &domain.EstimatedData{
		Timestamps:      timestamps,
		ApplianceSeries: series,
	}
}
