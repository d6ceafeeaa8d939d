package domain

// ApplianceType is one entry of the fixed appliance catalog. Name is the CSV
// header, Column is the store column and ID is the wire identifier.
type ApplianceType struct {
	Name   string
	Column string
	ID     int
}

// ApplianceTypes is the catalog in response order.
var ApplianceTypes = []ApplianceType{
	{Name: "air_conditioner", Column: "air_conditioner", ID: 2},
	{Name: "clothes_washer", Column: "clothes_washer", ID: 5},
	{Name: "microwave", Column: "microwave", ID: 20},
	{Name: "refrigerator", Column: "refrigerator", ID: 24},
	{Name: "rice_cooker", Column: "rice_cooker", ID: 25},
	{Name: "TV", Column: "tv", ID: 30},
	{Name: "cleaner", Column: "cleaner", ID: 31},
	{Name: "IH", Column: "ih", ID: 37},
	{Name: "Heater", Column: "heater", ID: 301},
}

// DateTimeColumn is the CSV header holding the local sample time.
const DateTimeColumn = "date_time_jst"

// EnergyRecord is one sample of a house. Readings holds every catalog name,
// a nil value is an explicit null.
type EnergyRecord struct {
	Timestamp int64
	Readings  map[string]*float64
}

func NewEnergyRecord(ts int64) *EnergyRecord {
	return &EnergyRecord{
		Timestamp: ts,
		Readings:  make(map[string]*float64, len(ApplianceTypes)),
	}
}

// HouseKey is a resolved house identifier.
type HouseKey struct {
	// ID is the store partition key.
	ID string
	// FileSuffix is the zero padded token used in CSV file names.
	FileSuffix string
}

type ApplianceSeries struct {
	ApplianceTypeID int
	Powers          []*float64
}

// EstimatedData is the columnar projection of an ordered record sequence.
// Every series has exactly len(Timestamps) powers.
type EstimatedData struct {
	Timestamps      []int64
	ApplianceSeries []ApplianceSeries
}

type EstimatedDataRequest struct {
	ServiceProvider string `query:"service_provider" validate:"required"`
	House           string `query:"house" validate:"required"`
	Sts             string `query:"sts" validate:"required"`
	Ets             string `query:"ets" validate:"required"`
	TimeUnits       string `query:"time_units"`
}

type Mode string

const (
	ModeDatabase Mode = "database"
	ModeCSV      Mode = "csv"
)

type HealthStatus struct {
	Status   string `json:"status"`
	Mode     Mode   `json:"mode"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}
