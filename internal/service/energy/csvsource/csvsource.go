// Package csvsource serves energy records from per-house CSV files.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/pkg/csvcache"
	"github.com/ougirez/energy-mock/internal/pkg/jst"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
)

// Row is one CSV line keyed by header.
type Row map[string]string

type Source struct {
	dataDir string
	cache   *csvcache.Cache[[]Row]
}

func NewSource(dataDir string) *Source {
	return &Source{
		dataDir: dataDir,
		cache:   csvcache.New[[]Row](),
	}
}

func (s *Source) Mode() domain.Mode {
	return domain.ModeCSV
}

func (s *Source) FetchRange(ctx context.Context, key domain.HouseKey, sts, ets int64) ([]*domain.EnergyRecord, error) {
	path, err := s.Locate(ctx, key.FileSuffix)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "found CSV file: %s", path)

	rows, err := s.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	return FilterWindow(rows, sts, ets), nil
}

// Locate finds the file in the data directory whose name ends with
// "_<suffix>.csv". With several candidates the first in lexical order wins.
func (s *Source) Locate(ctx context.Context, suffix string) (string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", constants.ErrCSVNotFound
		}
		return "", fmt.Errorf("os.ReadDir: %w", err)
	}

	want := "_" + suffix + ".csv"
	matches := make([]string, 0, 1)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), want) {
			matches = append(matches, e.Name())
		}
	}

	if len(matches) == 0 {
		return "", constants.ErrCSVNotFound
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		logger.Warnf(ctx, "%d CSV files match %s, using %s", len(matches), want, matches[0])
	}

	return filepath.Abs(filepath.Join(s.dataDir, matches[0]))
}

// Load returns the parsed rows of path. Each path is read from disk at most
// once per process.
func (s *Source) Load(ctx context.Context, path string) ([]Row, error) {
	return s.cache.Get(ctx, path, func(ctx context.Context, path string) ([]Row, error) {
		logger.Infof(ctx, "loading CSV file into cache: %s", path)
		return ReadFile(path)
	})
}

// CachedFiles reports how many files are held in memory.
func (s *Source) CachedFiles() int {
	return s.cache.Len()
}

// ReadFile parses the whole file into header keyed rows, in file order.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV content whose first line is the header.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	// a stray quote must only spoil its own field
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, 1024)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", len(rows)+2, err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// FilterWindow keeps rows with sts <= t < ets, where t is the normalized
// date_time_jst, ordered by t. Rows with equal t keep their file order.
// Rows without a usable date are dropped.
func FilterWindow(rows []Row, sts, ets int64) []*domain.EnergyRecord {
	selected := make([]*domain.EnergyRecord, 0)
	for _, row := range rows {
		ts, ok := jst.ParseDateTime(row[domain.DateTimeColumn])
		if !ok {
			continue
		}
		if ts < sts || ts >= ets {
			continue
		}
		selected = append(selected, ToRecord(row, ts))
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Timestamp < selected[j].Timestamp
	})
	return selected
}

// ToRecord converts the catalog columns of row. A blank or malformed value
// becomes nil.
func ToRecord(row Row, ts int64) *domain.EnergyRecord {
	record := domain.NewEnergyRecord(ts)
	for _, at := range domain.ApplianceTypes {
		record.Readings[at.Name] = ParsePower(row[at.Name])
	}
	return record
}

func ParsePower(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}
