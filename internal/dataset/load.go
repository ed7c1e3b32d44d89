package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls how Load reads a dataset file.
type LoadOptions struct {
	// SQLiteTable names the table read from SQLite sources.
	// Defaults to DefaultSQLiteTable.
	SQLiteTable string
}

// Load reads the dataset at path, choosing the reader by file extension:
// .csv for CSV, .db/.sqlite/.sqlite3 for SQLite.
//
// Every failure is returned as a *LoadError. Callers treat any error as fatal
// and must not start serving.
func Load(ctx context.Context, path string, opts LoadOptions) (*Table, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "dataset file not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "cannot access dataset", Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "dataset path is a directory"}
	}

	var t *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = loadCSVFile(path)
	case ".db", ".sqlite", ".sqlite3":
		t, err = ReadSQLite(ctx, path, opts.SQLiteTable)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Path: path, Message: fmt.Sprintf("unsupported dataset extension %q", ext)}
	}
	if err != nil {
		return nil, withPath(err, path)
	}

	b := t.Bounds()
	slog.Info("dataset loaded",
		"path", path,
		"rows", t.Len(),
		"sites", len(t.Sites()),
		"min_payload", b.Min,
		"max_payload", b.Max,
	)
	return t, nil
}

func loadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "open dataset", Err: err}
	}
	defer f.Close()
	return ReadCSV(f)
}

// withPath fills in the path on a *LoadError produced by a reader.
func withPath(err error, path string) error {
	if le, ok := err.(*LoadError); ok && le.Path == "" {
		le.Path = path
	}
	return err
}
