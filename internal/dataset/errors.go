package dataset

import (
	"errors"
	"fmt"
)

// Load error codes. Any of these is fatal at startup.
const (
	ErrCodeNotFound      = "E201" // Dataset path does not exist
	ErrCodeUnsupported   = "E202" // Unknown file extension
	ErrCodeMissingColumn = "E203" // Required column absent
	ErrCodeMalformedRow  = "E204" // Row value cannot be parsed or violates invariants
	ErrCodeEmpty         = "E205" // No rows
	ErrCodeSQLite        = "E206" // SQLite open/query failure
)

// LoadError describes why a dataset could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadErrorCode returns the code of a wrapped *LoadError, or "" if err is not one.
func LoadErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
