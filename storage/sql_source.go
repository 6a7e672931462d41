package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"diet-dashboard/models"
)

var tableNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads the dataset from a table with the source column names.
// Values are scanned as text so the cleaner validates every backend alike.
type SQLSource struct {
	db     *sql.DB
	driver string
	table  string
}

// NewPostgresSource connects to PostgreSQL through lib/pq.
func NewPostgresSource(ctx context.Context, dsn, table string) (*SQLSource, error) {
	return openSQLSource(ctx, "postgres", dsn, table)
}

// NewSQLiteSource opens a SQLite database file.
func NewSQLiteSource(ctx context.Context, path, table string) (*SQLSource, error) {
	return openSQLSource(ctx, "sqlite", path, table)
}

func openSQLSource(ctx context.Context, driver, dsn, table string) (*SQLSource, error) {
	if !tableNameRegexp.MatchString(table) {
		return nil, fmt.Errorf("%s: invalid table name %q", driver, table)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}
	return &SQLSource{db: db, driver: driver, table: table}, nil
}

func (s *SQLSource) Name() string { return s.driver + ":" + s.table }

// ReadRaw selects every row of the table.
func (s *SQLSource) ReadRaw(ctx context.Context) ([]*models.RawRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(models.Columns, ", "), s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query %s: %w", s.driver, s.table, err)
	}
	defer rows.Close()

	var raws []*models.RawRecord
	line := 0
	for rows.Next() {
		line++
		var region, country, year, category, daily, annual sql.NullString
		if err := rows.Scan(&region, &country, &year, &category, &daily, &annual); err != nil {
			return nil, fmt.Errorf("%s: scan row %d: %w", s.driver, line, err)
		}
		raws = append(raws, &models.RawRecord{
			Line:         line,
			Region:       region.String,
			Country:      country.String,
			Year:         year.String,
			CostCategory: category.String,
			DailyCost:    daily.String,
			AnnualCost:   annual.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", s.driver, err)
	}
	return raws, nil
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}
