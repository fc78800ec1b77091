package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

// Responder is an interface for components that deliver messages to a slash
// command's response URL.
type Responder interface {
	// Respond posts the message to the response URL once. Errors returned
	// match ErrCallbackDelivery.
	Respond(ctx context.Context, responseURL string, message ResponseMessage) error
}

type webhookResponder struct {
	httpSendFn func(*http.Request) (*http.Response, error)
}

// NewResponder returns a Responder that posts the message as a JSON body of
// exactly {"text": ...} with the given client. Retry behavior, if any, belongs
// to the client.
func NewResponder(client *http.Client) Responder {
	return &webhookResponder{
		httpSendFn: client.Do,
	}
}

func (w *webhookResponder) Respond(
	ctx context.Context,
	responseURL string,
	message ResponseMessage,
) error {
	if responseURL == "" {
		return withKind(ErrCallbackDelivery, errors.New("response url is empty"))
	}
	body, err := json.Marshal(message)
	if err != nil {
		return withKind(
			ErrCallbackDelivery,
			errors.Wrap(err, "error marshaling response"),
		)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		responseURL,
		bytes.NewBuffer(body),
	)
	if err != nil {
		return withKind(
			ErrCallbackDelivery,
			errors.Wrapf(err, "error preparing response to %s", responseURL),
		)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.httpSendFn(req)
	if err != nil {
		return withKind(
			ErrCallbackDelivery,
			errors.Wrapf(err, "error posting response to %s", responseURL),
		)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	io.Copy(ioutil.Discard, resp.Body) // nolint: errcheck
	if resp.StatusCode < http.StatusOK ||
		resp.StatusCode >= http.StatusMultipleChoices {
		return withKind(
			ErrCallbackDelivery,
			errors.Errorf(
				"error posting response to %s: received status code %d",
				responseURL,
				resp.StatusCode,
			),
		)
	}
	return nil
}
