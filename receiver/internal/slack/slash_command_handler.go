package slack

import (
	"context"
	"encoding/base64"
	"io/ioutil"
	"net/http"

	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
)

// slashCommandHandler is an implementation of the http.Handler interface that
// can handle slash commands from Slack by delegating to a transport-agnostic
// Dispatcher.
type slashCommandHandler struct {
	dispatcher slack.Dispatcher
	workers    *slack.Workers
}

// NewSlashCommandHandler returns an implementation of the http.Handler
// interface that can handle slash commands from Slack by delegating to a
// transport-agnostic Dispatcher. Verified commands are processed on the given
// Workers after the response has been written.
func NewSlashCommandHandler(
	dispatcher slack.Dispatcher,
	workers *slack.Workers,
) http.Handler {
	return &slashCommandHandler{
		dispatcher: dispatcher,
		workers:    workers,
	}
}

func (s *slashCommandHandler) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	defer r.Body.Close()
	bodyBytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		// Treated like a request without a body
		bodyBytes = nil
	}
	event := slack.Event{
		Body:      base64.StdEncoding.EncodeToString(bodyBytes),
		RequestID: r.Header.Get("X-Request-Id"),
	}
	command, rejection := s.dispatcher.Verify(event)
	if rejection != nil {
		writeRejection(w, rejection)
		return
	}
	// Processing outlives the request
	s.workers.Go(command.RequestID, func() {
		s.dispatcher.Process(context.Background(), command)
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(slack.DoneBody)) // nolint: errcheck
}
