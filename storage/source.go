package storage

import (
	"context"
	"fmt"

	"diet-dashboard/config"
)

// NewSource builds the dataset source selected by cfg.DataDriver.
func NewSource(ctx context.Context, cfg *config.Config) (DatasetSource, error) {
	switch cfg.DataDriver {
	case config.DriverCSV, "":
		return NewCSVSource(cfg.CSVInputPath), nil
	case config.DriverS3:
		return NewS3Source(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	case config.DriverPostgres:
		return NewPostgresSource(ctx, cfg.DSN(), cfg.DataTable)
	case config.DriverSQLite:
		return NewSQLiteSource(ctx, cfg.SQLitePath, cfg.DataTable)
	default:
		return nil, fmt.Errorf("storage: unknown data driver %q", cfg.DataDriver)
	}
}
