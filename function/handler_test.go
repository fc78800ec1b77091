package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	dispatcher := &mockDispatcher{}
	workers := slack.NewWorkers(zerolog.Nop())
	config := handlerConfig{waitForCompletion: true}
	h := newHandler(dispatcher, workers, config, zerolog.Nop())
	require.Same(t, dispatcher, h.dispatcher)
	require.Same(t, workers, h.workers)
	require.Equal(t, config, h.config)
}

func TestHandlerHandle(t *testing.T) {
	const formBody = "token=secret&command=%2Flmsearch&text=abc&response_url=x"
	testCases := []struct {
		name       string
		req        events.APIGatewayProxyRequest
		setup      func() (*mockDispatcher, *processed)
		assertions func(events.APIGatewayProxyResponse, error, *processed)
	}{
		{
			name: "rejected",
			req:  events.APIGatewayProxyRequest{},
			setup: func() (*mockDispatcher, *processed) {
				p := &processed{}
				return &mockDispatcher{
					VerifyFn: func(event slack.Event) (slack.SlashCommand, *slack.Rejection) {
						require.Empty(t, event.Body)
						return slack.SlashCommand{}, slack.NewRejection()
					},
					ProcessFn: func(context.Context, slack.SlashCommand) {
						p.add("unexpected")
					},
				}, p
			},
			assertions: func(
				res events.APIGatewayProxyResponse,
				err error,
				p *processed,
			) {
				require.NoError(t, err)
				require.Equal(t, http.StatusUnauthorized, res.StatusCode)
				require.Equal(
					t,
					map[string]string{"Content-Type": "application/json"},
					res.Headers,
				)
				require.Equal(t, "Invalid request", res.Body)
				require.Empty(t, p.get())
			},
		},
		{
			name: "plain body is encoded",
			req: events.APIGatewayProxyRequest{
				Body: formBody,
			},
			setup: func() (*mockDispatcher, *processed) {
				p := &processed{}
				return &mockDispatcher{
					VerifyFn: func(event slack.Event) (slack.SlashCommand, *slack.Rejection) {
						require.Equal(
							t,
							base64.StdEncoding.EncodeToString([]byte(formBody)),
							event.Body,
						)
						require.Equal(t, "req-1", event.RequestID)
						return slack.SlashCommand{Text: "abc", RequestID: "req-1"}, nil
					},
					ProcessFn: func(_ context.Context, command slack.SlashCommand) {
						p.add(command.Text)
					},
				}, p
			},
			assertions: func(
				res events.APIGatewayProxyResponse,
				err error,
				p *processed,
			) {
				require.NoError(t, err)
				require.Equal(t, http.StatusOK, res.StatusCode)
				require.Equal(t, `{"text":"Done!"}`, res.Body)
				require.Equal(t, []string{"abc"}, p.get())
			},
		},
		{
			name: "encoded body is passed through",
			req: events.APIGatewayProxyRequest{
				Body:            base64.StdEncoding.EncodeToString([]byte(formBody)),
				IsBase64Encoded: true,
			},
			setup: func() (*mockDispatcher, *processed) {
				p := &processed{}
				return &mockDispatcher{
					VerifyFn: func(event slack.Event) (slack.SlashCommand, *slack.Rejection) {
						require.Equal(
							t,
							base64.StdEncoding.EncodeToString([]byte(formBody)),
							event.Body,
						)
						return slack.SlashCommand{Text: "abc"}, nil
					},
					ProcessFn: func(_ context.Context, command slack.SlashCommand) {
						p.add(command.Text)
					},
				}, p
			},
			assertions: func(
				res events.APIGatewayProxyResponse,
				err error,
				p *processed,
			) {
				require.NoError(t, err)
				require.Equal(t, http.StatusOK, res.StatusCode)
				require.Equal(t, []string{"abc"}, p.get())
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			dispatcher, p := testCase.setup()
			h := newHandler(
				dispatcher,
				slack.NewWorkers(zerolog.Nop()),
				handlerConfig{waitForCompletion: true},
				zerolog.Nop(),
			)
			ctx := lambdacontext.NewContext(
				context.Background(),
				&lambdacontext.LambdaContext{AwsRequestID: "req-1"},
			)
			res, err := h.Handle(ctx, testCase.req)
			testCase.assertions(res, err, p)
		})
	}
}

func TestHandlerHandleWithoutWaiting(t *testing.T) {
	releaseCh := make(chan struct{})
	doneCh := make(chan struct{})
	h := newHandler(
		&mockDispatcher{
			VerifyFn: func(slack.Event) (slack.SlashCommand, *slack.Rejection) {
				return slack.SlashCommand{}, nil
			},
			ProcessFn: func(context.Context, slack.SlashCommand) {
				<-releaseCh
				close(doneCh)
			},
		},
		slack.NewWorkers(zerolog.Nop()),
		handlerConfig{},
		zerolog.Nop(),
	)
	res, err := h.Handle(
		context.Background(),
		events.APIGatewayProxyRequest{Body: "token=secret"},
	)
	// The response arrives while the worker is still blocked
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	close(releaseCh)
	select {
	case <-doneCh:
	case <-time.After(3 * time.Second):
		require.Fail(t, "worker never finished")
	}
}

func TestHandlerHandleWaitsOnlyForItsOwnWorker(t *testing.T) {
	p := &processed{}
	workers := slack.NewWorkers(zerolog.Nop())
	h := newHandler(
		&mockDispatcher{
			VerifyFn: func(slack.Event) (slack.SlashCommand, *slack.Rejection) {
				return slack.SlashCommand{Text: "abc"}, nil
			},
			ProcessFn: func(_ context.Context, command slack.SlashCommand) {
				p.add(command.Text)
			},
		},
		workers,
		handlerConfig{waitForCompletion: true},
		zerolog.Nop(),
	)
	// A worker left over from an earlier invocation that never finishes
	releaseCh := make(chan struct{})
	defer close(releaseCh)
	workers.Go("leftover", func() {
		<-releaseCh
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	res, err := h.Handle(ctx, events.APIGatewayProxyRequest{Body: "token=secret"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	// The invocation's own worker finished and the deadline was not reached
	require.Equal(t, []string{"abc"}, p.get())
	require.NoError(t, ctx.Err())
}

type processed struct {
	mu    sync.Mutex
	texts []string
}

func (p *processed) add(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
}

func (p *processed) get() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texts
}

type mockDispatcher struct {
	VerifyFn  func(slack.Event) (slack.SlashCommand, *slack.Rejection)
	ProcessFn func(context.Context, slack.SlashCommand)
}

func (m *mockDispatcher) Verify(
	event slack.Event,
) (slack.SlashCommand, *slack.Rejection) {
	return m.VerifyFn(event)
}

func (m *mockDispatcher) Process(ctx context.Context, command slack.SlashCommand) {
	m.ProcessFn(ctx, command)
}

func (m *mockDispatcher) Dispatch(
	ctx context.Context,
	event slack.Event,
) *slack.Rejection {
	command, rejection := m.Verify(event)
	if rejection != nil {
		return rejection
	}
	m.Process(ctx, command)
	return nil
}
