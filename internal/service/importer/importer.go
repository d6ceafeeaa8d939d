// Package importer loads per-house CSV files into the relational store.
//
// Houses are imported one at a time and the chunks of a house are written in
// order, so progress is monotonic and the store never sees more than one
// outstanding write from the importer.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/jst"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
	"github.com/ougirez/energy-mock/internal/pkg/metrics"
	"github.com/ougirez/energy-mock/internal/pkg/store"
	"github.com/ougirez/energy-mock/internal/service/energy/csvsource"
	"github.com/ougirez/energy-mock/internal/service/house"
)

// BatchSize is the number of rows written by one insert statement.
const BatchSize = 5000

const (
	ReasonAlreadyImported = "already imported"
	ReasonBadFileName     = "unrecognized file name"
)

var ErrNoFilesForHouse = errors.New("no CSV file found for house")

type Options struct {
	// House restricts the run to one house identifier when set.
	House string
	// Force deletes existing rows of a house before importing it again.
	Force bool
}

// Progress is emitted after every committed chunk.
type Progress struct {
	HouseID  string
	File     string
	Inserted int
	Total    int
}

type ProgressFunc func(Progress)

type HouseResult struct {
	HouseID string
	File    string
	// Rows is the number of rows written.
	Rows int
	// Deleted is the number of rows removed by a forced re-import.
	Deleted int64
	// Existing is the row count found before the import started.
	Existing int64
	// DroppedRows counts lines without a usable date_time_jst.
	DroppedRows int
	Reason      string
}

type Summary struct {
	Files    int
	Imported []HouseResult
	Skipped  []HouseResult
}

type Importer struct {
	dataDir  string
	locator  house.Locator
	store    store.Store
	progress ProgressFunc
}

func NewImporter(dataDir string, locator house.Locator, store store.Store, progress ProgressFunc) *Importer {
	if progress == nil {
		progress = func(Progress) {}
	}
	return &Importer{
		dataDir:  dataDir,
		locator:  locator,
		store:    store,
		progress: progress,
	}
}

// Run imports every house file of the data directory. Any store or file
// error aborts the run. Houses that are already present without Force are
// reported in Summary.Skipped.
func (im *Importer) Run(ctx context.Context, opts Options) (*Summary, error) {
	files, err := im.listFiles()
	if err != nil {
		return nil, err
	}

	if opts.House != "" {
		filtered := make([]string, 0, 1)
		for _, f := range files {
			if id, ok := im.locator.HouseIDFromFile(f); ok && id == opts.House {
				filtered = append(filtered, f)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoFilesForHouse, opts.House)
		}
		files = filtered
	}

	logger.Infof(ctx, "found %d CSV files to import", len(files))
	if opts.Force {
		logger.Infof(ctx, "force mode: existing data will be overwritten")
	}

	summary := &Summary{Files: len(files)}
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		houseID, ok := im.locator.HouseIDFromFile(file)
		if !ok {
			logger.Warnf(ctx, "skipping %s: cannot extract house ID", file)
			summary.Skipped = append(summary.Skipped, HouseResult{File: file, Reason: ReasonBadFileName})
			continue
		}

		logger.Infof(ctx, "[%d/%d] importing %s (house_id: %s)", i+1, len(files), file, houseID)

		res, err := im.importHouse(ctx, houseID, file, opts.Force)
		if err != nil {
			return summary, fmt.Errorf("import %s: %w", file, err)
		}

		if res.Reason != "" {
			summary.Skipped = append(summary.Skipped, *res)
			continue
		}
		summary.Imported = append(summary.Imported, *res)
	}

	return summary, nil
}

func (im *Importer) importHouse(ctx context.Context, houseID, file string, force bool) (*HouseResult, error) {
	res := &HouseResult{HouseID: houseID, File: file}

	existing, err := im.store.CountEnergyRows(ctx, houseID)
	if err != nil {
		return nil, fmt.Errorf("store.CountEnergyRows: %w", err)
	}
	res.Existing = existing

	if existing > 0 {
		if !force {
			logger.Infof(ctx, "skipping %s: %d rows already exist (use --force to overwrite)", houseID, existing)
			res.Reason = ReasonAlreadyImported
			return res, nil
		}

		logger.Infof(ctx, "deleting %d existing rows of %s", existing, houseID)
		res.Deleted, err = im.store.DeleteEnergyRows(ctx, houseID)
		if err != nil {
			return nil, fmt.Errorf("store.DeleteEnergyRows: %w", err)
		}
	}

	rows, err := csvsource.ReadFile(filepath.Join(im.dataDir, file))
	if err != nil {
		return nil, fmt.Errorf("csvsource.ReadFile: %w", err)
	}

	records, dropped := toRecords(rows)
	res.DroppedRows = dropped
	if dropped > 0 {
		logger.Warnf(ctx, "%s: dropped %d rows without a valid %s", file, dropped, domain.DateTimeColumn)
	}

	inserted, err := im.insertChunks(ctx, houseID, file, records)
	res.Rows = inserted
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (im *Importer) insertChunks(ctx context.Context, houseID, file string, records []*domain.EnergyRecord) (int, error) {
	inserted := 0
	for start := 0; start < len(records); start += BatchSize {
		end := start + BatchSize
		if end > len(records) {
			end = len(records)
		}

		if err := im.store.InsertEnergyRows(ctx, houseID, records[start:end]); err != nil {
			return inserted, fmt.Errorf("store.InsertEnergyRows, rows %d-%d: %w", start, end, err)
		}

		inserted = end
		metrics.ImportedRows.WithLabelValues(houseID).Add(float64(end - start))
		im.progress(Progress{HouseID: houseID, File: file, Inserted: inserted, Total: len(records)})
	}

	return inserted, nil
}

// toRecords converts parsed rows in file order. Rows whose date cannot be
// normalized are dropped and counted.
func toRecords(rows []csvsource.Row) ([]*domain.EnergyRecord, int) {
	records := make([]*domain.EnergyRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		ts, ok := jst.ParseDateTime(row[domain.DateTimeColumn])
		if !ok {
			dropped++
			continue
		}
		records = append(records, csvsource.ToRecord(row, ts))
	}
	return records, dropped
}

func (im *Importer) listFiles() ([]string, error) {
	entries, err := os.ReadDir(im.dataDir)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	return files, nil
}
