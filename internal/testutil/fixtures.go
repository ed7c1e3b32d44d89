// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchdash/internal/dataset"
)

// Record builds a launch record with a success flag.
func Record(site string, payload float64, success bool, booster string) dataset.LaunchRecord {
	outcome := dataset.Failure
	if success {
		outcome = dataset.Success
	}
	return dataset.LaunchRecord{
		Site:            site,
		PayloadMassKg:   payload,
		Outcome:         outcome,
		BoosterCategory: booster,
	}
}

// Table builds a dataset.Table, failing the test on invalid rows.
func Table(t *testing.T, rows ...dataset.LaunchRecord) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(rows)
	require.NoError(t, err)
	return tbl
}

// TwoSiteRows returns a small table: site X has 3 launches (2 successes),
// site Y has 2 launches (1 success). Payloads span [500, 9600].
func TwoSiteRows() []dataset.LaunchRecord {
	return []dataset.LaunchRecord{
		Record("X", 500, true, "v1.0"),
		Record("Y", 2500, false, "FT"),
		Record("X", 4000, false, "v1.1"),
		Record("Y", 6000, true, "FT"),
		Record("X", 9600, true, "B4"),
	}
}

// TwoSiteTable wraps TwoSiteRows in a Table.
func TwoSiteTable(t *testing.T) *dataset.Table {
	t.Helper()
	return Table(t, TwoSiteRows()...)
}

// WriteCSV writes rows to dir/name with the standard headers and returns the path.
func WriteCSV(t *testing.T, dir, name string, rows []dataset.LaunchRecord) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write([]string{
		dataset.ColumnFlightNumber,
		dataset.ColumnSite,
		dataset.ColumnClass,
		dataset.ColumnPayload,
		dataset.ColumnBoosterVersion,
		dataset.ColumnBoosterCategory,
	}))
	for i, r := range rows {
		require.NoError(t, w.Write([]string{
			strconv.Itoa(i + 1),
			r.Site,
			strconv.Itoa(int(r.Outcome)),
			strconv.FormatFloat(r.PayloadMassKg, 'f', -1, 64),
			r.BoosterCategory + " B" + strconv.Itoa(1000+i),
			r.BoosterCategory,
		}))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

// WriteSQLite creates a SQLite database at dir/name holding rows in table
// dataset.DefaultSQLiteTable and returns the path.
func WriteSQLite(t *testing.T, dir, name string, rows []dataset.LaunchRecord) string {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE "spacex_launches" (
		"Flight Number" INTEGER,
		"Launch Site" TEXT,
		"class" INTEGER,
		"Payload Mass (kg)" REAL,
		"Booster Version Category" TEXT
	)`)
	require.NoError(t, err)

	for i, r := range rows {
		_, err := db.Exec(
			`INSERT INTO "spacex_launches" ("Flight Number", "Launch Site", "class", "Payload Mass (kg)", "Booster Version Category") VALUES (?, ?, ?, ?, ?)`,
			i+1, r.Site, int(r.Outcome), r.PayloadMassKg, r.BoosterCategory,
		)
		require.NoError(t, err)
	}
	return path
}
