package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"diet-dashboard/models"
	"diet-dashboard/storage"
	"diet-dashboard/utils"
)

// ErrDataUnavailable marks a dataset that could not be read or parsed.
// It is fatal for the session: the loader never retries.
var ErrDataUnavailable = errors.New("data unavailable")

// Loader reads the dataset once and hands out the same immutable value
// (or the same error) on every later call.
type Loader struct {
	source  storage.DatasetSource
	cleaner *Cleaner
	logger  *utils.Logger

	once    sync.Once
	dataset *models.Dataset
	err     error
}

// NewLoader creates a Loader over source.
func NewLoader(source storage.DatasetSource, cleaner *Cleaner, logger *utils.Logger) *Loader {
	return &Loader{source: source, cleaner: cleaner, logger: logger.With("loader")}
}

// Load returns the memoized dataset, reading the source on first use.
func (l *Loader) Load(ctx context.Context) (*models.Dataset, error) {
	l.once.Do(func() {
		l.dataset, l.err = l.load(ctx)
	})
	return l.dataset, l.err
}

func (l *Loader) load(ctx context.Context) (*models.Dataset, error) {
	start := time.Now()
	l.logger.Info("Reading dataset from %s", l.source.Name())

	raw, err := l.source.ReadRaw(ctx)
	if err != nil {
		l.logger.Error("Read failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	records, stats, err := l.cleaner.Clean(raw)
	if err != nil {
		l.logger.Error("Rejected dataset: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		l.logger.Error("Dataset has no valid records (%d read)", stats.Read)
		return nil, fmt.Errorf("%w: no valid records in %s", ErrDataUnavailable, l.source.Name())
	}

	ds := models.NewDataset(records)
	l.logger.Info("Loaded %d records (%d regions, %d countries, years %d–%d) in %v",
		ds.Len(), len(ds.Regions), len(ds.Countries), ds.YearMin, ds.YearMax,
		time.Since(start).Round(time.Millisecond))
	return ds, nil
}
