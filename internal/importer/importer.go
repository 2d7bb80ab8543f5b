// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package importer loads seed data from CSV files into the database.

One invocation runs inside a single transaction: either every requested table
lands, or none of it does. Rows may carry explicit primary keys (the identity
columns are GENERATED BY DEFAULT), and re-running an import is safe because
inserts use ON CONFLICT DO NOTHING.

Reference columns are validated against the parent table's primary-key set
before insert, so a broken foreign key aborts the run instead of surfacing as
an opaque constraint error mid-batch.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Error Sentinels

var (
	// ErrUnknownTable means a requested logical table is not in the registry.
	ErrUnknownTable = errors.New("importer: unknown table")

	// ErrFileNotFound means the CSV file for a table is missing.
	ErrFileNotFound = errors.New("importer: csv file not found")

	// ErrMalformedFile means a CSV file is unreadable, is missing a mapped
	// column, or carries a value that does not parse.
	ErrMalformedFile = errors.New("importer: malformed csv file")

	// ErrReferenceNotFound means a row references a parent key that does not
	// exist after the parent tables were loaded.
	ErrReferenceNotFound = errors.New("importer: referenced row not found")
)

// # Table Registry

// ColumnKind tells the importer how to convert a raw CSV cell.
type ColumnKind int

const (
	// Text is copied as-is.
	Text ColumnKind = iota

	// Integer is parsed as a base-10 int64.
	Integer

	// Timestamp is parsed as RFC 3339.
	Timestamp

	// Reference is parsed as an int64 and checked against the parent
	// table's primary keys.
	Reference
)

// Column maps one CSV header to one database column.
type Column struct {
	CSV  string
	DB   string
	Kind ColumnKind

	// Ref is the logical name of the parent table, set only for Reference
	// columns.
	Ref string
}

// Table describes one importable CSV source.
type Table struct {
	// Name is the logical name used on the command line.
	Name string

	// SQLTable is the fully qualified destination, e.g. "content.title".
	SQLTable string

	// CSVFile is the file name under the importer's data directory.
	CSVFile string

	Columns []Column

	// M2M marks pure association tables: existing rows are cleared before
	// the fill, and there is no id column to advance a sequence for.
	M2M bool
}

// batchSize bounds the multi-row INSERT statements.
const batchSize = 200

// # Importer

// Importer executes CSV bulk loads against the database.
type Importer struct {
	pool    *pgxpool.Pool
	dataDir string
	tables  map[string]Table
	logger  *slog.Logger
}

// New constructs an [Importer] over the given table registry.
func New(pool *pgxpool.Pool, dataDir string, tables []Table, logger *slog.Logger) *Importer {
	registry := make(map[string]Table, len(tables))
	for _, table := range tables {
		registry[table.Name] = table
	}
	return &Importer{
		pool:    pool,
		dataDir: dataDir,
		tables:  registry,
		logger:  logger,
	}
}

/*
Run imports the named tables, in the caller-given order, inside one
transaction.

Description: The first error of any kind rolls the whole invocation back;
there is no partial import and no log-and-skip mode.

Parameters:
  - context: context.Context
  - names: []string (logical table names)

Returns:
  - error: One of the package sentinels (wrapped with detail) or database
    errors
*/
func (importer *Importer) Run(context context.Context, names []string) error {

	// Resolve every name before touching the database.
	tables := make([]Table, 0, len(names))
	for _, name := range names {
		table, ok := importer.tables[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTable, name)
		}
		tables = append(tables, table)
	}

	tx, err := importer.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("importer_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	// Parent PK sets are loaded lazily and shared across tables within the
	// transaction, so references see rows imported earlier in the same run.
	keys := make(map[string]map[int64]struct{})

	for _, table := range tables {
		count, err := importer.importTable(context, tx, table, keys)
		if err != nil {
			return err
		}
		importer.logger.InfoContext(context, "importer_table_loaded",
			slog.String("table", table.Name),
			slog.Int("rows", count),
		)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("importer_commit_failed: %w", err)
	}

	return nil
}

/*
RunAll imports every registered table in dependency-safe order.

Parameters:
  - context: context.Context

Returns:
  - error: Same contract as Run
*/
func (importer *Importer) RunAll(context context.Context) error {
	return importer.Run(context, DefaultOrder())
}

// importTable loads one CSV file into its destination table.
func (importer *Importer) importTable(context context.Context, tx pgx.Tx, table Table, keys map[string]map[int64]struct{}) (int, error) {
	file, err := openCSV(importer.dataDir, table.CSVFile)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: no header row", ErrMalformedFile, table.CSVFile)
	}

	indexes, err := mapHeader(table, header)
	if err != nil {
		return 0, err
	}

	for _, column := range table.Columns {
		if column.Kind != Reference {
			continue
		}
		if err := importer.loadKeys(context, tx, column.Ref, keys); err != nil {
			return 0, err
		}
	}

	// Association tables are replaced wholesale: clear then fill.
	if table.M2M {
		if _, err := tx.Exec(context, "DELETE FROM "+table.SQLTable); err != nil {
			return 0, fmt.Errorf("importer_clear_failed: %w", err)
		}
	}

	total := 0
	batch := make([][]any, 0, batchSize)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrMalformedFile, table.CSVFile, err)
		}

		row := make([]any, len(table.Columns))
		for i, column := range table.Columns {
			if indexes[i] >= len(record) {
				return 0, fmt.Errorf("%w: %s: short row", ErrMalformedFile, table.CSVFile)
			}
			value, err := convertValue(column, record[indexes[i]], keys[column.Ref])
			if err != nil {
				return 0, fmt.Errorf("%s: %w", table.CSVFile, err)
			}
			row[i] = value
		}
		batch = append(batch, row)

		if len(batch) == batchSize {
			if err := insertBatch(context, tx, table, batch); err != nil {
				return 0, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := insertBatch(context, tx, table, batch); err != nil {
			return 0, err
		}
		total += len(batch)
	}

	if !table.M2M {
		if err := advanceSequence(context, tx, table); err != nil {
			return 0, err
		}
	}

	return total, nil
}

// loadKeys populates the PK set for a parent table once per run.
func (importer *Importer) loadKeys(context context.Context, tx pgx.Tx, ref string, keys map[string]map[int64]struct{}) error {
	if _, loaded := keys[ref]; loaded {
		return nil
	}

	parent, ok := importer.tables[ref]
	if !ok {
		return fmt.Errorf("%w: reference target %q", ErrUnknownTable, ref)
	}

	rows, err := tx.Query(context, "SELECT id FROM "+parent.SQLTable)
	if err != nil {
		return fmt.Errorf("importer_keys_failed: %w", err)
	}
	defer rows.Close()

	set := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("importer_keys_scan_failed: %w", err)
		}
		set[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("importer_keys_rows_failed: %w", err)
	}

	keys[ref] = set
	return nil
}

// insertBatch issues one multi-row INSERT for up to batchSize rows.
func insertBatch(context context.Context, tx pgx.Tx, table Table, batch [][]any) error {
	query := buildInsert(table, len(batch))

	args := make([]any, 0, len(batch)*len(table.Columns))
	for _, row := range batch {
		args = append(args, row...)
	}

	if _, err := tx.Exec(context, query, args...); err != nil {
		return fmt.Errorf("importer_insert_failed: %s: %w", table.Name, err)
	}
	return nil
}

// buildInsert renders the multi-row INSERT statement for a table.
//
// Rows with explicit IDs that already exist are skipped, which makes
// re-running an import idempotent.
func buildInsert(table Table, rowCount int) string {
	columns := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		columns[i] = column.DB
	}

	var builder strings.Builder
	builder.WriteString("INSERT INTO ")
	builder.WriteString(table.SQLTable)
	builder.WriteString(" (")
	builder.WriteString(strings.Join(columns, ", "))
	builder.WriteString(") VALUES ")

	placeholder := 1
	for row := 0; row < rowCount; row++ {
		if row > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("(")
		for col := range table.Columns {
			if col > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString("$")
			builder.WriteString(strconv.Itoa(placeholder))
			placeholder++
		}
		builder.WriteString(")")
	}

	if table.M2M {
		builder.WriteString(" ON CONFLICT DO NOTHING")
	} else {
		builder.WriteString(" ON CONFLICT (id) DO NOTHING")
	}

	return builder.String()
}

// advanceSequence moves the identity sequence past the highest imported id so
// subsequent API inserts do not collide with CSV-supplied keys.
func advanceSequence(context context.Context, tx pgx.Tx, table Table) error {
	query := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %s))",
		table.SQLTable, table.SQLTable,
	)
	if _, err := tx.Exec(context, query); err != nil {
		return fmt.Errorf("importer_sequence_failed: %s: %w", table.Name, err)
	}
	return nil
}

// # Parsing Helpers

// openCSV opens a table's data file under the configured directory.
func openCSV(dataDir, name string) (*os.File, error) {
	path := filepath.Join(dataDir, name)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("importer_open_failed: %w", err)
	}
	return file, nil
}

// mapHeader resolves each mapped column to its position in the CSV header.
func mapHeader(table Table, header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	indexes := make([]int, len(table.Columns))
	for i, column := range table.Columns {
		index, ok := positions[column.CSV]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrMalformedFile, table.CSVFile, column.CSV)
		}
		indexes[i] = index
	}
	return indexes, nil
}

// convertValue converts one raw CSV cell according to the column kind.
func convertValue(column Column, raw string, parentKeys map[int64]struct{}) (any, error) {
	switch column.Kind {
	case Text:
		return raw, nil

	case Integer:
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %q is not an integer", ErrMalformedFile, column.CSV, raw)
		}
		return value, nil

	case Timestamp:
		value, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %q is not an RFC 3339 timestamp", ErrMalformedFile, column.CSV, raw)
		}
		return value, nil

	case Reference:
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %q is not an integer key", ErrMalformedFile, column.CSV, raw)
		}
		if _, ok := parentKeys[value]; !ok {
			return nil, fmt.Errorf("%w: column %q: %s %d", ErrReferenceNotFound, column.CSV, column.Ref, value)
		}
		return value, nil

	default:
		return nil, fmt.Errorf("%w: column %q: unknown kind", ErrMalformedFile, column.CSV)
	}
}
