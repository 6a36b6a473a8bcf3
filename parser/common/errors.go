package common

import "fmt"

// DocumentReadError means the file could not be opened or understood
// as a PDF. It is fatal to the whole parse; field misses and dropped
// table rows are not errors and never produce one.
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("read pdf %s: %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

func readError(path string, err error) *DocumentReadError {
	return &DocumentReadError{Path: path, Err: err}
}
