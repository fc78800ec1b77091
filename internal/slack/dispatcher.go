package slack

import (
	"context"
	"time"

	"github.com/brigadecore/slack-lookup-gateway/internal/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is a step of the dispatch protocol. States are only logged.
type State string

const (
	StateStart         State = "start"
	StateBodyExtracted State = "body_extracted"
	StateDecoded       State = "decoded"
	StateAuthenticated State = "authenticated"
	StateRejected      State = "rejected"
	StateHandled       State = "handled"
)

// Event is one inbound invocation. Body is the base64-encoded form payload
// and is empty when the invocation carried none.
type Event struct {
	Body string
	// RequestID is used to correlate log lines. One is generated when empty.
	RequestID string
}

// Dispatcher is an interface for components that verify slash command
// invocations and process the verified ones. Implementations are
// transport-agnostic.
type Dispatcher interface {
	// Verify decodes and authenticates an event. It is fast enough to run
	// within Slack's acknowledgment window. A non-nil Rejection must be
	// returned to the invoker as is.
	Verify(Event) (SlashCommand, *Rejection)
	// Process answers a verified command through its response URL. It never
	// fails; every outcome is delivered as message text or logged.
	Process(context.Context, SlashCommand)
	// Dispatch runs Verify and then, if the event was verified, Process.
	Dispatch(context.Context, Event) *Rejection
}

type dispatcher struct {
	authenticator Authenticator
	commands      map[string]Command
	responder     Responder
	metrics       metrics.Collector
	logger        zerolog.Logger
	decodeFn      func(string) (Fields, error)
}

// NewDispatcher returns a Dispatcher. Keys of the command table are matched
// against CommandName of the incoming command.
func NewDispatcher(
	authenticator Authenticator,
	commands map[string]Command,
	responder Responder,
	collector metrics.Collector,
	logger zerolog.Logger,
) Dispatcher {
	return &dispatcher{
		authenticator: authenticator,
		commands:      commands,
		responder:     responder,
		metrics:       collector,
		logger:        logger,
		decodeFn:      Decode,
	}
}

func (d *dispatcher) Verify(event Event) (SlashCommand, *Rejection) {
	requestID := event.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	logger := d.logger.With().Str("request_id", requestID).Logger()
	logger.Debug().Str("state", string(StateStart)).Msg("received event")

	if event.Body == "" {
		return SlashCommand{}, d.reject(
			logger,
			withKind(ErrUnauthenticated, errors.New("request has no body")),
		)
	}
	logger.Debug().Str("state", string(StateBodyExtracted)).Msg("body extracted")

	fields, err := d.decodeFn(event.Body)
	if err != nil {
		return SlashCommand{}, d.reject(logger, err)
	}
	logger.Debug().
		Str("state", string(StateDecoded)).
		Str("command", fields[FieldCommand]).
		Str("enterprise_name", fields[FieldEnterpriseName]).
		Msg("payload decoded")

	if d.authenticator.Authenticate(fields) != Authenticated {
		return SlashCommand{}, d.reject(
			logger,
			withKind(ErrUnauthenticated, errors.New("token mismatch")),
		)
	}
	command, err := ParseSlashCommand(fields)
	if err != nil {
		return SlashCommand{}, d.reject(logger, err)
	}
	command.RequestID = requestID
	logger.Debug().Str("state", string(StateAuthenticated)).
		Msg("successful authentication")
	return command, nil
}

func (d *dispatcher) reject(logger zerolog.Logger, err error) *Rejection {
	d.metrics.Rejected()
	logger.Info().Err(err).Str("state", string(StateRejected)).
		Msg("invalid request")
	return NewRejection()
}

func (d *dispatcher) Process(ctx context.Context, command SlashCommand) {
	start := time.Now()
	name := CommandName(command.Command)
	logger := d.logger.With().
		Str("request_id", command.RequestID).
		Str("command", name).
		Logger()
	responseURL := command.CallbackURL()

	if handler, ok := d.commands[name]; ok {
		// Acknowledge first; the lookup may outlast Slack's window.
		d.respond(ctx, logger, responseURL, FetchingText)
		d.respond(ctx, logger, responseURL, handler.Run(ctx, command))
	} else {
		logger.Info().Msg("unrecognized command")
		d.respond(ctx, logger, responseURL, UnknownCommandText)
	}

	d.metrics.Handled(name, time.Since(start))
	logger.Debug().Str("state", string(StateHandled)).
		Dur("duration", time.Since(start)).
		Msg("command handled")
}

// respond delivers one message. Failures are not retried here and do not
// stop processing.
func (d *dispatcher) respond(
	ctx context.Context,
	logger zerolog.Logger,
	responseURL string,
	text string,
) {
	if err := d.responder.Respond(
		ctx,
		responseURL,
		ResponseMessage{Text: text},
	); err != nil {
		d.metrics.DeliveryFailed()
		logger.Error().Err(err).Msg("error delivering response")
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, event Event) *Rejection {
	command, rejection := d.Verify(event)
	if rejection != nil {
		return rejection
	}
	d.Process(ctx, command)
	return nil
}
