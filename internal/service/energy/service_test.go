package energy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/pkg/jst"
	"github.com/ougirez/energy-mock/internal/pkg/store/memory"
	"github.com/ougirez/energy-mock/internal/service/energy/csvsource"
	"github.com/ougirez/energy-mock/internal/service/energy/storesource"
	"github.com/ougirez/energy-mock/internal/service/house"
	"github.com/ougirez/energy-mock/internal/service/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	provider = "9991"
	header   = "date_time_jst,air_conditioner,clothes_washer,microwave,refrigerator,rice_cooker,TV,cleaner,IH,Heater\n"
	content  = header +
		"2024/06/14 00:00,1.5,,,,,,,,\n" +
		"2024/06/14 00:20,,0.5,,12,,x,,,\n" +
		"2024/06/14 00:40,2,,,,,,,,7\n"
)

type spySource struct {
	mode    domain.Mode
	calls   int
	records []*domain.EnergyRecord
	err     error
}

func (s *spySource) FetchRange(ctx context.Context, key domain.HouseKey, sts, ets int64) ([]*domain.EnergyRecord, error) {
	s.calls++
	return s.records, s.err
}

func (s *spySource) Mode() domain.Mode {
	return s.mode
}

func window(t *testing.T, from, to string, extra int64) (string, string) {
	t.Helper()
	sts, ok := jst.ParseDateTime(from)
	require.True(t, ok)
	ets, ok := jst.ParseDateTime(to)
	require.True(t, ok)
	return strconv.FormatInt(sts, 10), strconv.FormatInt(ets+extra, 10)
}

func csvService(t *testing.T, opts Options) *Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "202508_001.csv"), []byte(content), 0o644))
	return NewService(house.NewNumericLocator(house.DefaultPrefix), csvsource.NewSource(dir), opts)
}

func TestGetEstimatedData_CSVScenario(t *testing.T) {
	svc := csvService(t, Options{ServiceProvider: provider})
	sts, ets := window(t, "2024/06/14 00:00", "2024/06/14 00:20", 1)

	resp, err := svc.GetEstimatedData(context.Background(), domain.EstimatedDataRequest{
		ServiceProvider: provider, House: "2025080001", Sts: sts, Ets: ets, TimeUnits: "20",
	})
	require.NoError(t, err)

	require.Len(t, resp.Data, 1)
	item := resp.Data[0]
	assert.Len(t, item.Timestamps, 2)

	require.Len(t, item.ApplianceTypes, len(domain.ApplianceTypes))
	ac := item.ApplianceTypes[0]
	assert.Equal(t, 2, ac.ApplianceTypeID)
	require.Len(t, ac.Appliances, 1)
	require.Len(t, ac.Appliances[0].Powers, 2)
	assert.Equal(t, 1.5, *ac.Appliances[0].Powers[0])
	assert.Nil(t, ac.Appliances[0].Powers[1])

	for _, at := range item.ApplianceTypes {
		assert.Len(t, at.Appliances[0].Powers, len(item.Timestamps))
	}
}

func TestGetEstimatedData_WindowBounds(t *testing.T) {
	svc := csvService(t, Options{ServiceProvider: provider})
	sts, ets := window(t, "2024/06/14 00:20", "2024/06/14 00:40", 0)
	stsN, _ := strconv.ParseInt(sts, 10, 64)
	etsN, _ := strconv.ParseInt(ets, 10, 64)

	resp, err := svc.GetEstimatedData(context.Background(), domain.EstimatedDataRequest{
		ServiceProvider: provider, House: "2025080001", Sts: sts, Ets: ets,
	})
	require.NoError(t, err)

	ts := resp.Data[0].Timestamps
	require.Len(t, ts, 1)
	for _, v := range ts {
		assert.GreaterOrEqual(t, v, stsN)
		assert.Less(t, v, etsN)
	}
}

func TestGetEstimatedData_EmptyWindow(t *testing.T) {
	req := domain.EstimatedDataRequest{ServiceProvider: provider, House: "2025080001", Sts: "0", Ets: "10"}

	t.Run("csv mode answers the empty shape", func(t *testing.T) {
		svc := csvService(t, Options{ServiceProvider: provider})

		resp, err := svc.GetEstimatedData(context.Background(), req)
		require.NoError(t, err)

		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[{"timestamps":[],"appliance_types":[]}]}`, string(body))
	})

	t.Run("store mode with empty as not found", func(t *testing.T) {
		svc := NewService(house.NewNumericLocator(house.DefaultPrefix), storesource.NewSource(memory.New()),
			Options{ServiceProvider: provider, EmptyAsNotFound: true})

		_, err := svc.GetEstimatedData(context.Background(), req)
		assert.ErrorIs(t, err, constants.ErrNoData)
		assert.Equal(t, http.StatusNotFound, constants.CodeOf(err))
	})
}

func TestGetEstimatedData_UnknownProviderTouchesNoBackend(t *testing.T) {
	src := &spySource{mode: domain.ModeDatabase}
	svc := NewService(house.NewNumericLocator(house.DefaultPrefix), src, Options{ServiceProvider: provider})

	_, err := svc.GetEstimatedData(context.Background(), domain.EstimatedDataRequest{
		ServiceProvider: "1234", House: "2025080001", Sts: "0", Ets: "10",
	})

	assert.ErrorIs(t, err, constants.ErrProviderNotFound)
	assert.Equal(t, http.StatusNotFound, constants.CodeOf(err))
	assert.Zero(t, src.calls)
}

func TestGetEstimatedData_Errors(t *testing.T) {
	backendErr := errors.New("connection refused")

	tests := []struct {
		name     string
		req      domain.EstimatedDataRequest
		srcErr   error
		wantCode int
		wantIs   error
		calls    int
	}{
		{
			name:     "undecodable house",
			req:      domain.EstimatedDataRequest{ServiceProvider: provider, House: "abc", Sts: "0", Ets: "10"},
			wantCode: http.StatusNotFound,
			wantIs:   constants.ErrHouseNotFound,
		},
		{
			name:     "non numeric window",
			req:      domain.EstimatedDataRequest{ServiceProvider: provider, House: "2025080001", Sts: "x", Ets: "10"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing csv file",
			req:      domain.EstimatedDataRequest{ServiceProvider: provider, House: "2025080001", Sts: "0", Ets: "10"},
			srcErr:   constants.ErrCSVNotFound,
			wantCode: http.StatusNotFound,
			wantIs:   constants.ErrCSVNotFound,
			calls:    1,
		},
		{
			name:     "backend failure",
			req:      domain.EstimatedDataRequest{ServiceProvider: provider, House: "2025080001", Sts: "0", Ets: "10"},
			srcErr:   backendErr,
			wantCode: http.StatusInternalServerError,
			wantIs:   backendErr,
			calls:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &spySource{mode: domain.ModeCSV, err: tt.srcErr}
			svc := NewService(house.NewNumericLocator(house.DefaultPrefix), src, Options{ServiceProvider: provider})

			_, err := svc.GetEstimatedData(context.Background(), tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, constants.CodeOf(err))
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Equal(t, tt.calls, src.calls)
		})
	}
}

func TestGetEstimatedData_BackendsAreInterchangeable(t *testing.T) {
	// GIVEN: the same file served directly and imported into a store
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "202508_001.csv"), []byte(content), 0o644))

	locator := house.NewNumericLocator(house.DefaultPrefix)
	st := memory.New()
	imp := importer.NewImporter(dir, locator, st, nil)
	_, err := imp.Run(context.Background(), importer.Options{})
	require.NoError(t, err)

	csvSvc := NewService(locator, csvsource.NewSource(dir), Options{ServiceProvider: provider})
	dbSvc := NewService(locator, storesource.NewSource(st), Options{ServiceProvider: provider})

	windows := [][2]string{
		{"2024/06/14 00:00", "2024/06/14 01:00"},
		{"2024/06/14 00:20", "2024/06/14 00:40"},
		{"2024/06/14 00:00", "2024/06/14 00:00"},
	}

	for _, w := range windows {
		sts, ets := window(t, w[0], w[1], 0)
		req := domain.EstimatedDataRequest{ServiceProvider: provider, House: "2025080001", Sts: sts, Ets: ets}

		// WHEN
		fromCSV, err := csvSvc.GetEstimatedData(context.Background(), req)
		require.NoError(t, err)
		fromDB, err := dbSvc.GetEstimatedData(context.Background(), req)
		require.NoError(t, err)

		// THEN
		a, err := json.Marshal(fromCSV)
		require.NoError(t, err)
		b, err := json.Marshal(fromDB)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "window %v", w)
	}
}

func TestGetEstimatedData_UnsortedFileMatchesStore(t *testing.T) {
	// GIVEN: a file whose rows are not in time order, served directly and imported
	dir := t.TempDir()
	unsorted := header +
		"2024/06/14 00:40,3,,,,,,,,\n" +
		"2024/06/14 00:00,1,,,,,,,,\n" +
		"2024/06/14 00:20,2,,,,,,,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "202508_001.csv"), []byte(unsorted), 0o644))

	locator := house.NewNumericLocator(house.DefaultPrefix)
	st := memory.New()
	_, err := importer.NewImporter(dir, locator, st, nil).Run(context.Background(), importer.Options{})
	require.NoError(t, err)

	csvSvc := NewService(locator, csvsource.NewSource(dir), Options{ServiceProvider: provider})
	dbSvc := NewService(locator, storesource.NewSource(st), Options{ServiceProvider: provider})

	sts, ets := window(t, "2024/06/14 00:00", "2024/06/14 01:00", 0)
	req := domain.EstimatedDataRequest{ServiceProvider: provider, House: "2025080001", Sts: sts, Ets: ets}

	// WHEN
	fromCSV, err := csvSvc.GetEstimatedData(context.Background(), req)
	require.NoError(t, err)
	fromDB, err := dbSvc.GetEstimatedData(context.Background(), req)
	require.NoError(t, err)

	// THEN
	ts := fromCSV.Data[0].Timestamps
	require.Len(t, ts, 3)
	assert.IsNonDecreasing(t, ts)
	assert.Equal(t, fromDB, fromCSV)
}

func TestHealth(t *testing.T) {
	csvSvc := csvService(t, Options{ServiceProvider: provider})
	status := csvSvc.Health(context.Background())
	assert.Equal(t, &domain.HealthStatus{Status: "ok", Mode: domain.ModeCSV}, status)

	st := memory.New()
	dbSvc := NewService(house.NewNumericLocator(house.DefaultPrefix), storesource.NewSource(st), Options{ServiceProvider: provider})
	status = dbSvc.Health(context.Background())
	assert.Equal(t, "connected", status.Database)
	assert.Equal(t, domain.ModeDatabase, status.Mode)

	st.PingErr = errors.New("dial tcp: refused")
	status = dbSvc.Health(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "disconnected", status.Database)
	assert.Equal(t, "dial tcp: refused", status.Error)
}
