package storage

import (
	"context"
	"io"

	"diet-dashboard/models"
)

// DatasetSource is the interface any dataset backend must satisfy.
// ReadRaw returns every row, unvalidated, in source order.
type DatasetSource interface {
	Name() string
	ReadRaw(ctx context.Context) ([]*models.RawRecord, error)
	Close() error
}

// ViewWriter encodes a filtered view into a downloadable format.
type ViewWriter interface {
	Filename() string
	MimeType() string
	Write(w io.Writer, view models.View) error
}
