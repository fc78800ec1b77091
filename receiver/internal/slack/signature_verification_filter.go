package slack

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/url"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
	slackgo "github.com/slack-go/slack"
)

// SignatureVerificationFilterConfig encapsulates configuration for the
// signature verification based auth filter.
type SignatureVerificationFilterConfig struct {
	// SlackApps is a map of Slack App configurations indexed by App ID.
	SlackApps map[string]slack.App
	// SigningSecret is used for requests from apps not found in SlackApps.
	SigningSecret string
}

// signingSecret returns the secret that requests from the given app are
// signed with.
func (s SignatureVerificationFilterConfig) signingSecret(appID string) string {
	if app, ok := s.SlackApps[appID]; ok {
		return app.AppSigningSecret
	}
	return s.SigningSecret
}

// signatureVerificationFilter is a component that implements the http.Filter
// interface and can conditionally allow or disallow a request based on the
// ability to verify the signature of the inbound request.
type signatureVerificationFilter struct {
	config SignatureVerificationFilterConfig
	// newVerifierFn is overridable for testing purposes
	newVerifierFn func(http.Header, string) (slackgo.SecretsVerifier, error)
}

// NewSignatureVerificationFilter returns a component that implements the
// http.Filter interface and can conditionally allow or disallow a request based
// on the ability to verify the signature of the inbound request.
func NewSignatureVerificationFilter(
	config SignatureVerificationFilterConfig,
) libHTTP.Filter {
	return &signatureVerificationFilter{
		config:        config,
		newVerifierFn: slackgo.NewSecretsVerifier,
	}
}

func (s *signatureVerificationFilter) Decorate(
	handle http.HandlerFunc,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If there is no request body, fail right away or else we'll be staring
		// down the barrel of a nil pointer dereference.
		if r.Body == nil {
			writeRejection(w, slack.NewRejection())
			return
		}

		// If we encounter an error reading the request body, we're just going to
		// roll with it. The empty request body will naturally make the signature
		// verification algorithm fail.
		bodyBytes, _ := ioutil.ReadAll(r.Body) // nolint: errcheck
		r.Body.Close()                         // nolint: errcheck
		// Replace the request body because the original read was destructive!
		r.Body = ioutil.NopCloser(bytes.NewBuffer(bodyBytes))

		// A body that doesn't parse has no app ID and falls back to the default
		// secret.
		values, _ := url.ParseQuery(string(bodyBytes)) // nolint: errcheck
		secret := s.config.signingSecret(values.Get("api_app_id"))
		if secret == "" {
			writeRejection(w, slack.NewRejection())
			return
		}

		// The verifier also refuses stale timestamps
		verifier, err := s.newVerifierFn(r.Header, secret)
		if err != nil {
			writeRejection(w, slack.NewRejection())
			return
		}
		verifier.Write(bodyBytes) // nolint: errcheck
		if err = verifier.Ensure(); err != nil {
			writeRejection(w, slack.NewRejection())
			return
		}

		// If we get this far, everything checks out. Handle the request.
		handle(w, r)
	}
}

// writeRejection writes a Rejection to the response.
func writeRejection(w http.ResponseWriter, rejection *slack.Rejection) {
	for k, v := range rejection.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(rejection.StatusCode)
	w.Write([]byte(rejection.Body)) // nolint: errcheck
}
