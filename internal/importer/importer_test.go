// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package importer

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titlesTable(t *testing.T) Table {
	t.Helper()
	for _, table := range DefaultTables() {
		if table.Name == "titles" {
			return table
		}
	}
	t.Fatal("titles table missing from registry")
	return Table{}
}

func TestRun_UnknownTable(t *testing.T) {
	importer := New(nil, t.TempDir(), DefaultTables(), slog.Default())

	err := importer.Run(context.Background(), []string{"users", "payments"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestOpenCSV_MissingFile(t *testing.T) {
	_, err := openCSV(t.TempDir(), "users.csv")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestMapHeader_ResolvesPositions(t *testing.T) {
	table := titlesTable(t)

	// Extra columns and a shuffled order are fine; only the mapped ones matter.
	indexes, err := mapHeader(table, []string{"category", "rating", "id", "name", "year"})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 0}, indexes)
}

func TestMapHeader_MissingColumn(t *testing.T) {
	table := titlesTable(t)

	_, err := mapHeader(table, []string{"id", "name", "year"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFile)
	assert.Contains(t, err.Error(), "category")
}

func TestConvertValue_Integer(t *testing.T) {
	value, err := convertValue(Column{CSV: "year", Kind: Integer}, "1965", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1965), value)
}

func TestConvertValue_BadInteger(t *testing.T) {
	_, err := convertValue(Column{CSV: "year", Kind: Integer}, "MCMLXV", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestConvertValue_Timestamp(t *testing.T) {
	value, err := convertValue(Column{CSV: "pub_date", Kind: Timestamp}, "2019-09-24T21:08:21Z", nil)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 9, 24, 21, 8, 21, 0, time.UTC), value)
}

func TestConvertValue_ReferenceResolved(t *testing.T) {
	keys := map[int64]struct{}{7: {}}

	value, err := convertValue(Column{CSV: "category", Kind: Reference, Ref: "category"}, "7", keys)

	require.NoError(t, err)
	assert.Equal(t, int64(7), value)
}

func TestConvertValue_ReferenceMissing(t *testing.T) {
	keys := map[int64]struct{}{7: {}}

	_, err := convertValue(Column{CSV: "category", Kind: Reference, Ref: "category"}, "8", keys)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestBuildInsert_SimpleTable(t *testing.T) {
	table := Table{
		SQLTable: "content.category",
		Columns: []Column{
			{DB: "id"}, {DB: "name"}, {DB: "slug"},
		},
	}

	query := buildInsert(table, 2)

	assert.Equal(t,
		"INSERT INTO content.category (id, name, slug) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (id) DO NOTHING",
		query,
	)
}

func TestBuildInsert_M2MHasNoConflictTarget(t *testing.T) {
	table := Table{
		SQLTable: "content.title_genre",
		M2M:      true,
		Columns:  []Column{{DB: "titleid"}, {DB: "genreid"}},
	}

	query := buildInsert(table, 1)

	assert.Equal(t,
		"INSERT INTO content.title_genre (titleid, genreid) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		query,
	)
}

func TestDefaultOrder_ParentsBeforeChildren(t *testing.T) {
	order := DefaultOrder()

	position := make(map[string]int, len(order))
	for i, name := range order {
		position[name] = i
	}

	registry := make(map[string]Table)
	for _, table := range DefaultTables() {
		registry[table.Name] = table
	}

	for _, name := range order {
		for _, column := range registry[name].Columns {
			if column.Kind != Reference {
				continue
			}
			assert.Less(t, position[column.Ref], position[name],
				"%s must load before %s", column.Ref, name)
		}
	}
}
