package main

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/rs/zerolog"
)

// handlerConfig encapsulates configuration options for the handler.
type handlerConfig struct {
	// waitForCompletion makes each invocation wait for its worker before
	// returning. The Lambda runtime freezes the process once the handler
	// returns, so a worker that is not waited for may never finish.
	waitForCompletion bool
}

// handler adapts API Gateway proxy events to a slack.Dispatcher.
type handler struct {
	dispatcher slack.Dispatcher
	workers    *slack.Workers
	config     handlerConfig
	logger     zerolog.Logger
}

func newHandler(
	dispatcher slack.Dispatcher,
	workers *slack.Workers,
	config handlerConfig,
	logger zerolog.Logger,
) *handler {
	return &handler{
		dispatcher: dispatcher,
		workers:    workers,
		config:     config,
		logger:     logger,
	}
}

// Handle verifies the request synchronously and answers it through its
// response URL on a worker. Any verified request is acknowledged with Done!,
// whatever the worker's outcome.
func (h *handler) Handle(
	ctx context.Context,
	req events.APIGatewayProxyRequest,
) (events.APIGatewayProxyResponse, error) {
	event := slack.Event{Body: req.Body}
	if req.Body != "" && !req.IsBase64Encoded {
		event.Body = base64.StdEncoding.EncodeToString([]byte(req.Body))
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		event.RequestID = lc.AwsRequestID
	}

	command, rejection := h.dispatcher.Verify(event)
	if rejection != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: rejection.StatusCode,
			Headers:    rejection.Headers,
			Body:       rejection.Body,
		}, nil
	}

	workers := h.workers
	if h.config.waitForCompletion {
		// Only this invocation's worker is waited for, never one left over
		// from an earlier invocation
		workers = slack.NewWorkers(h.logger)
	}
	// The worker must not be canceled along with the invocation
	workerCtx := context.WithoutCancel(ctx)
	workers.Go(command.RequestID, func() {
		h.dispatcher.Process(workerCtx, command)
	})
	if h.config.waitForCompletion {
		if err := workers.Wait(ctx); err != nil {
			h.logger.Warn().Err(err).Str("request_id", command.RequestID).
				Msg("invocation ended before the worker finished")
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       slack.DoneBody,
	}, nil
}
