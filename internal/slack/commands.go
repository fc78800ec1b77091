package slack

import (
	"context"
	"strings"

	"github.com/brigadecore/slack-lookup-gateway/internal/lookup"
	"github.com/rs/zerolog"
)

// Command is an interface for the handlers of recognized slash commands.
type Command interface {
	// Run processes the command and returns the text of the final response.
	// Failures are reported in the returned text.
	Run(context.Context, SlashCommand) string
}

// CommandFunc adapts a function to the Command interface.
type CommandFunc func(context.Context, SlashCommand) string

// Run calls c.
func (c CommandFunc) Run(ctx context.Context, command SlashCommand) string {
	return c(ctx, command)
}

// CommandName normalizes a command as sent by Slack ("%2Flmsearch" or
// "/LMSearch") into a command table key ("lmsearch").
func CommandName(raw string) string {
	name := strings.ReplaceAll(raw, "%2F", "")
	return strings.ToLower(strings.TrimPrefix(name, "/"))
}

type lookupCommand struct {
	source    lookup.Source
	formatter *lookup.Formatter
	column    lookup.Column
	logger    zerolog.Logger
}

// NewLookupCommand returns a Command that searches the dataset for the
// command's text and renders the matching rows. The dataset is fetched anew
// on every run.
func NewLookupCommand(
	source lookup.Source,
	formatter *lookup.Formatter,
	column lookup.Column,
	logger zerolog.Logger,
) Command {
	return &lookupCommand{
		source:    source,
		formatter: formatter,
		column:    column,
		logger:    logger,
	}
}

func (l *lookupCommand) Run(ctx context.Context, command SlashCommand) string {
	logger := l.logger.With().Str("request_id", command.RequestID).Logger()
	rows, err := l.source.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("error fetching dataset")
		return lookup.UnavailableText
	}
	rows = lookup.Prepare(rows)
	logger.Debug().Int("rows", len(rows)).Msg("dataset read complete")
	matches, searchErr := lookup.Search(command.Text, rows, l.column)
	text, err := l.formatter.Render(command.Text, matches, searchErr)
	if err != nil {
		logger.Error().Err(err).Msg("error rendering search results")
		return lookup.UnavailableText
	}
	logger.Debug().Int("matches", len(matches)).Str("term", command.Text).
		Msg("search complete")
	return text
}
