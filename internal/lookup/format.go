package lookup

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
)

const (
	emptySearchText = "```ERROR: Search string is empty```"
	noDataText      = "```ERROR: No Data found for the search string: %s```"
	// UnavailableText is shown when the dataset could not be loaded.
	UnavailableText = "```ERROR: Data is currently unavailable, please try again later```"
)

// Formatter renders search results as Slack message text.
type Formatter struct {
	rowsTemplate *template.Template
}

// NewFormatter returns a Formatter using the fixed row block template.
func NewFormatter() (*Formatter, error) {
	rowsTemplate, err := template.New(
		"rows",
	).Funcs(sprig.TxtFuncMap()).Parse(rowsTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing rows template")
	}
	return &Formatter{rowsTemplate: rowsTemplate}, nil
}

// Render turns the outcome of Search into message text. Empty-search and
// no-match outcomes render as distinct error messages; any other error is
// returned unchanged.
func (f *Formatter) Render(term string, rows []Row, searchErr error) (string, error) {
	switch {
	case errors.Is(searchErr, ErrEmptySearchTerm):
		return emptySearchText, nil
	case errors.Is(searchErr, ErrNoMatch):
		return fmt.Sprintf(noDataText, term), nil
	case searchErr != nil:
		return "", searchErr
	}
	buffer := &bytes.Buffer{}
	if err := f.rowsTemplate.Execute(buffer, rows); err != nil {
		return "", errors.Wrap(err, "error rendering rows")
	}
	return buffer.String(), nil
}

// Each line ends in " \n" and each block in "``` \n\n"; Slack renders the
// blocks as separate code fences.
var rowsTemplate = "{{- range . -}}" +
	"```Reference ID: {{ .RefID.Value | default \"N/A\" }} \n" +
	"Related JIRA ID: {{ .JiraID.Value | default \"N/A\" }} \n" +
	"Vendor (Finance listed): {{ .Vendor.Value | default \"N/A\" }} \n" +
	"Summary: {{ .Summary.Value | default \"N/A\" }} \n" +
	"Description: {{ .Description.Value | default \"N/A\" }} \n" +
	"Priority: {{ .Priority.Value | default \"N/A\" }} \n" +
	"Category: {{ .Category.Value | default \"N/A\" }} \n" +
	"Assignee: {{ .Assignee.Value | default \"N/A\" }} \n" +
	"Proposed Action: {{ .ProposedAction.Value | default \"N/A\" }} \n" +
	"2020 Baseline: {{ .Baseline2020.String | default \"N/A\" }} \n" +
	"2020 Outlook vs Baseline: {{ .Outlook2020VsBaseline.String | default \"N/A\" }} \n" +
	"Annualized Savings or Increase: {{ .AnnualizedSavings.String | default \"N/A\" }} \n" +
	"New 2020 Outlook: {{ .NewOutlook2020.String | default \"N/A\" }} \n" +
	"2021 Outlook: {{ .Outlook2021.String | default \"N/A\" }} \n" +
	"Mar FC vs 2021 Outlook: {{ .MarchForecastVsOutlook.String | default \"N/A\" }}``` \n\n" +
	"{{ end }}"
