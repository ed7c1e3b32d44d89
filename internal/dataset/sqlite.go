package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultSQLiteTable is the table read when no name is configured.
const DefaultSQLiteTable = "spacex_launches"

// ReadSQLite loads the launch table from a SQLite database file.
//
// The database is opened read-only; the dashboard never writes to it.
// Column names match the CSV headers, so a table written by a dataframe
// exporter from the CSV can be read directly.
func ReadSQLite(ctx context.Context, path, table string) (*Table, error) {
	if table == "" {
		table = DefaultSQLiteTable
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: "open database", Err: err}
	}
	defer db.Close()

	// Configure connection pool for a single reader.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: "connect to database", Err: err}
	}
	if err := applyPragmas(ctx, db); err != nil {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: "apply pragmas", Err: err}
	}

	headers, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: fmt.Sprintf("inspect table %q", table), Err: err}
	}
	if len(headers) == 0 {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: fmt.Sprintf("table %q not found", table)}
	}
	if err := checkColumns(headers); err != nil {
		return nil, err
	}

	cols := []string{ColumnSite, ColumnPayload, ColumnClass, ColumnBoosterCategory}
	for _, optional := range []string{ColumnFlightNumber, ColumnBoosterVersion} {
		for _, h := range headers {
			if h == optional {
				cols = append(cols, optional)
				break
			}
		}
	}

	// ORDER BY rowid preserves insertion order, which is the dataset's row order.
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid ASC", quoteIdents(cols), quoteIdent(table))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: "query rows", Err: err}
	}
	defer rows.Close()

	var records []LaunchRecord
	line := 0
	for rows.Next() {
		line++
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &LoadError{Code: ErrCodeMalformedRow, Path: path, Message: fmt.Sprintf("row %d", line), Err: err}
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = vals[i].String
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeMalformedRow, Path: path, Message: fmt.Sprintf("row %d", line), Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeSQLite, Path: path, Message: "iterate rows", Err: err}
	}

	return buildTable(records)
}

// applyPragmas sets read-side SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// tableColumns returns the column names of table, or none if it does not exist.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, normalizeText(name))
	}
	return cols, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
