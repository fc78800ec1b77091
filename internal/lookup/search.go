package lookup

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrEmptySearchTerm is returned by Search when no term was given.
	ErrEmptySearchTerm = errors.New("search string is empty")
	// ErrNoMatch is returned by Search when no row matched the term.
	ErrNoMatch = errors.New("no data found")
)

// Column selects the cell of a row that Search filters on.
type Column func(Row) Text

// RefIDColumn is the column lookups filter on by default.
func RefIDColumn(row Row) Text {
	return row.RefID
}

// Search returns, in source order, every row whose column contains term
// without regard to case. Null cells never match.
func Search(term string, rows []Row, column Column) ([]Row, error) {
	if term == "" {
		return nil, ErrEmptySearchTerm
	}
	needle := strings.ToLower(term)
	matches := []Row{}
	for _, row := range rows {
		cell := column(row)
		if !cell.Valid {
			continue
		}
		if strings.Contains(strings.ToLower(cell.Value), needle) {
			matches = append(matches, row)
		}
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrNoMatch, "search string %q", term)
	}
	return matches, nil
}
