package energy

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/domain/dto"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
	"github.com/ougirez/energy-mock/internal/pkg/metrics"
	"github.com/ougirez/energy-mock/internal/service/house"
)

// Source is a backend that can answer a half-open window [sts, ets) for a
// house, ascending by timestamp.
type Source interface {
	FetchRange(ctx context.Context, key domain.HouseKey, sts, ets int64) ([]*domain.EnergyRecord, error)
	Mode() domain.Mode
}

// Pinger is implemented by sources backed by a remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	// ServiceProvider is the only accepted service_provider value.
	ServiceProvider string
	// EmptyAsNotFound answers an empty window with ErrNoData instead of the
	// empty response shape.
	EmptyAsNotFound bool
}

type Service struct {
	locator house.Locator
	source  Source
	opts    Options
}

func NewService(locator house.Locator, source Source, opts Options) *Service {
	return &Service{locator: locator, source: source, opts: opts}
}

func (s *Service) Mode() domain.Mode {
	return s.source.Mode()
}

func (s *Service) GetEstimatedData(ctx context.Context, req domain.EstimatedDataRequest) (resp *dto.EstimatedDataResponse, err error) {
	start := time.Now()
	mode := string(s.source.Mode())
	defer func() {
		code := http.StatusOK
		if err != nil {
			code = constants.CodeOf(err)
		}
		metrics.Requests.WithLabelValues(mode, strconv.Itoa(code)).Inc()
		metrics.RequestDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	if req.ServiceProvider != s.opts.ServiceProvider {
		return nil, constants.ErrProviderNotFound
	}

	sts, ets, err := parseWindow(req.Sts, req.Ets)
	if err != nil {
		return nil, err
	}

	key, ok := s.locator.Resolve(req.House)
	if !ok {
		return nil, fmt.Errorf("house %s: %w", req.House, constants.ErrHouseNotFound)
	}

	records, err := s.source.FetchRange(ctx, key, sts, ets)
	if err != nil {
		return nil, fmt.Errorf("%s source, house %s: %w", mode, req.House, err)
	}

	if len(records) == 0 && s.opts.EmptyAsNotFound {
		return nil, fmt.Errorf("house %s: %w", req.House, constants.ErrNoData)
	}

	resp = dto.NewEstimatedDataResponse(Build(records))

	metrics.DataPoints.Observe(float64(resp.Len()))
	logger.Infof(ctx, "returning %d data points for house %s in %s", resp.Len(), req.House, time.Since(start))

	return resp, nil
}

func parseWindow(stsStr, etsStr string) (int64, int64, error) {
	sts, err := strconv.ParseInt(stsStr, 10, 64)
	if err != nil {
		return 0, 0, constants.NewCodedError(fmt.Sprintf("invalid sts %q", stsStr), http.StatusBadRequest)
	}

	ets, err := strconv.ParseInt(etsStr, 10, 64)
	if err != nil {
		return 0, 0, constants.NewCodedError(fmt.Sprintf("invalid ets %q", etsStr), http.StatusBadRequest)
	}

	return sts, ets, nil
}

func (s *Service) Health(ctx context.Context) *domain.HealthStatus {
	status := &domain.HealthStatus{Status: "ok", Mode: s.source.Mode()}

	pinger, ok := s.source.(Pinger)
	if !ok {
		return status
	}

	if err := pinger.Ping(ctx); err != nil {
		logger.Warnf(ctx, "health: database ping failed: %s", err.Error())
		status.Database = "disconnected"
		status.Error = err.Error()
		return status
	}

	status.Database = "connected"
	return status
}
