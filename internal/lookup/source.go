package lookup

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

// ErrDatasetFetch tags every error a Source returns.
var ErrDatasetFetch = errors.New("error fetching dataset")

// Source is an interface for components that can retrieve the dataset.
// Implementations read the dataset afresh on every call; nothing is cached.
type Source interface {
	// Fetch returns every row of the dataset in source order.
	Fetch(context.Context) ([]Row, error)
}

// fetchError tags an underlying error as a dataset fetch failure while
// keeping the underlying error reachable through Unwrap.
type fetchError struct {
	err error
}

func (f *fetchError) Error() string {
	return ErrDatasetFetch.Error() + ": " + f.err.Error()
}

func (f *fetchError) Unwrap() error {
	return f.err
}

func (f *fetchError) Is(target error) bool {
	return target == ErrDatasetFetch
}

func newFetchError(err error, format string, args ...interface{}) error {
	return &fetchError{err: errors.Wrapf(err, format, args...)}
}

type fileSource struct {
	path string
}

// NewFileSource returns a Source that reads a CSV file from the local
// filesystem.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (f *fileSource) Fetch(context.Context) ([]Row, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, newFetchError(err, "error opening %s", f.path)
	}
	defer file.Close()
	rows, err := ParseCSV(file)
	if err != nil {
		return nil, newFetchError(err, "error reading %s", f.path)
	}
	return rows, nil
}
