package dto

import "github.com/ougirez/energy-mock/internal/domain"

type Appliance struct {
	Powers []*float64 `json:"powers"`
}

type ApplianceTypeData struct {
	ApplianceTypeID int         `json:"appliance_type_id"`
	Appliances      []Appliance `json:"appliances"`
}

type EstimatedDataItem struct {
	Timestamps     []int64             `json:"timestamps"`
	ApplianceTypes []ApplianceTypeData `json:"appliance_types"`
}

// EstimatedDataResponse always carries exactly one item.
type EstimatedDataResponse struct {
	Data []EstimatedDataItem `json:"data"`
}

func NewEstimatedDataResponse(data *domain.EstimatedData) *EstimatedDataResponse {
	item := EstimatedDataItem{
		Timestamps:     data.Timestamps,
		ApplianceTypes: make([]ApplianceTypeData, 0, len(data.ApplianceSeries)),
	}
	if item.Timestamps == nil {
		item.Timestamps = []int64{}
	}

	for _, series := range data.ApplianceSeries {
		item.ApplianceTypes = append(item.ApplianceTypes, ApplianceTypeData{
			ApplianceTypeID: series.ApplianceTypeID,
			Appliances:      []Appliance{{Powers: series.Powers}},
		})
	}

	return &EstimatedDataResponse{Data: []EstimatedDataItem{item}}
}

func (r *EstimatedDataResponse) Len() int {
	if len(r.Data) == 0 {
		return 0
	}
	return len(r.Data[0].Timestamps)
}
