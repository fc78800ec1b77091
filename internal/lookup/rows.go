package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// notFound is substituted for a missing Jira ID when a dataset is prepared.
const notFound = "Not Found"

// nullSpellings are the cell values read as "no value" in every column.
var nullSpellings = map[string]struct{}{
	"":     {},
	"#N/A": {},
	"<NA>": {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
	"None": {},
}

func isNull(value string) bool {
	_, ok := nullSpellings[strings.TrimSpace(value)]
	return ok
}

// Text is a nullable text cell.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a valid Text holding the given value.
func NewText(value string) Text {
	return Text{Value: value, Valid: true}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *Text) UnmarshalCSV(value string) error {
	if isNull(value) {
		*t = Text{}
		return nil
	}
	*t = NewText(value)
	return nil
}

func (t Text) String() string {
	return t.Value
}

// Amount is a nullable currency cell.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a valid Amount holding the given value.
func NewAmount(value float64) Amount {
	return Amount{Value: value, Valid: true}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. Null spellings, a lone
// dash and anything that is not a number (e.g. "TBD") are null. Thousands
// separators and a leading dollar sign are tolerated.
func (a *Amount) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if isNull(value) || value == "-" {
		*a = Amount{}
		return nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(value)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		*a = Amount{}
		return nil
	}
	*a = NewAmount(f)
	return nil
}

// String renders the amount with a dollar prefix, rounded to whole units.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return fmt.Sprintf("$%.0f", a.Value)
}

// Row is one record of the cost-savings tracker dataset. Column names match
// the headers of the exported spreadsheet.
//
// nolint: lll
type Row struct {
	RefID                  Text   `csv:"Ref ID"`
	JiraID                 Text   `csv:"Jira ID"`
	Vendor                 Text   `csv:"Vendor (As listed by Finance)"`
	Summary                Text   `csv:"Summary"`
	Description            Text   `csv:"Description"`
	Priority               Text   `csv:"Priority"`
	Category               Text   `csv:"Combined Category"`
	Assignee               Text   `csv:"Assignee"`
	ProposedAction         Text   `csv:"Combined Proposed Action"`
	Baseline2020           Amount `csv:"2020 Baseline"`
	Outlook2020VsBaseline  Amount `csv:"2020 Outlook vs Baseline"`
	AnnualizedSavings      Amount `csv:"Annualized Savings or Increase"`
	NewOutlook2020         Amount `csv:"New 2020 Outlook"`
	Outlook2021            Amount `csv:"2021 Outlook"`
	MarchForecastVsOutlook Amount `csv:"Mar FC vs 2021 Outlook"`
}

// ParseCSV reads every row of a CSV document whose first line is the header.
// Columns the document lacks, and trailing cells a short record lacks, are
// left null.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows := []Row{}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, errors.Wrap(err, "error parsing dataset csv")
	}
	return rows, nil
}

// Prepare drops exact duplicate rows, keeping the first occurrence, and
// fills null Jira IDs. Source order is preserved.
func Prepare(rows []Row) []Row {
	seen := make(map[Row]struct{}, len(rows))
	prepared := make([]Row, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		if !row.JiraID.Valid {
			row.JiraID = NewText(notFound)
		}
		prepared = append(prepared, row)
	}
	return prepared
}
