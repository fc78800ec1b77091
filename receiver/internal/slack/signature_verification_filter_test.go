package slack

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/stretchr/testify/require"
)

func TestNewSignatureVerificationFilter(t *testing.T) {
	const testAppID = "42"
	testSecret := []byte("foobar")
	testConfig := SignatureVerificationFilterConfig{
		SlackApps: map[string]slack.App{
			testAppID: {
				AppID:            testAppID,
				AppSigningSecret: string(testSecret),
			},
		},
	}
	filter, ok :=
		NewSignatureVerificationFilter(testConfig).(*signatureVerificationFilter)
	require.True(t, ok)
	require.Equal(t, testConfig, filter.config)
	require.NotNil(t, filter.newVerifierFn)
}

func signedRequest(
	t *testing.T,
	secret []byte,
	timeStamp string,
	bodyBytes []byte,
) *http.Request {
	req, err :=
		http.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))
	require.NoError(t, err)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("X-Slack-Request-Timestamp", timeStamp)
	// Compute the signature
	hasher := hmac.New(sha256.New, secret)
	_, err = hasher.Write(
		[]byte(
			fmt.Sprintf(
				"v0:%s:%s",
				timeStamp,
				string(bodyBytes),
			),
		),
	)
	require.NoError(t, err)
	// Add the signature to the request
	req.Header.Add(
		"X-Slack-Signature",
		fmt.Sprintf("v0=%x", hasher.Sum(nil)),
	)
	return req
}

func TestSignatureVerificationFilter(t *testing.T) {
	const testAppID = "42"
	testAppSigningSecret := []byte("foobar")
	testDefaultSigningSecret := []byte("bazqux")
	now := strconv.FormatInt(time.Now().Unix(), 10)
	testCases := []struct {
		name       string
		config     SignatureVerificationFilterConfig
		setup      func() *http.Request
		assertions func(handlerCalled bool, r *http.Response)
	}{
		{
			name: "signature cannot be verified",
			config: SignatureVerificationFilterConfig{
				SlackApps: map[string]slack.App{
					testAppID: {
						AppID:            testAppID,
						AppSigningSecret: string(testAppSigningSecret),
					},
				},
			},
			setup: func() *http.Request {
				bodyBytes := []byte("api_app_id=42")
				req, err :=
					http.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))
				require.NoError(t, err)
				req.Header.Add("X-Slack-Request-Timestamp", now)
				// This is just a completely made up signature
				req.Header.Add("X-Slack-Signature", "v0=johnhancock")
				return req
			},
			assertions: func(handlerCalled bool, r *http.Response) {
				require.Equal(t, http.StatusUnauthorized, r.StatusCode)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.False(t, handlerCalled)
			},
		},
		{
			name:   "no secret for app",
			config: SignatureVerificationFilterConfig{},
			setup: func() *http.Request {
				return signedRequest(
					t,
					testAppSigningSecret,
					now,
					[]byte("api_app_id=42"),
				)
			},
			assertions: func(handlerCalled bool, r *http.Response) {
				require.Equal(t, http.StatusUnauthorized, r.StatusCode)
				require.False(t, handlerCalled)
			},
		},
		{
			name: "stale timestamp",
			config: SignatureVerificationFilterConfig{
				SigningSecret: string(testDefaultSigningSecret),
			},
			setup: func() *http.Request {
				return signedRequest(
					t,
					testDefaultSigningSecret,
					strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10),
					[]byte("api_app_id=42"),
				)
			},
			assertions: func(handlerCalled bool, r *http.Response) {
				require.Equal(t, http.StatusUnauthorized, r.StatusCode)
				require.False(t, handlerCalled)
			},
		},
		{
			name: "signature can be verified with app secret",
			config: SignatureVerificationFilterConfig{
				SlackApps: map[string]slack.App{
					testAppID: {
						AppID:            testAppID,
						AppSigningSecret: string(testAppSigningSecret),
					},
				},
				SigningSecret: string(testDefaultSigningSecret),
			},
			setup: func() *http.Request {
				return signedRequest(
					t,
					testAppSigningSecret,
					now,
					[]byte("api_app_id=42"),
				)
			},
			assertions: func(handlerCalled bool, r *http.Response) {
				require.Equal(t, http.StatusOK, r.StatusCode)
				require.True(t, handlerCalled)
			},
		},
		{
			name: "signature can be verified with default secret",
			config: SignatureVerificationFilterConfig{
				SigningSecret: string(testDefaultSigningSecret),
			},
			setup: func() *http.Request {
				return signedRequest(
					t,
					testDefaultSigningSecret,
					now,
					[]byte("api_app_id=7&text=foo"),
				)
			},
			assertions: func(handlerCalled bool, r *http.Response) {
				require.Equal(t, http.StatusOK, r.StatusCode)
				require.True(t, handlerCalled)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testFilter := NewSignatureVerificationFilter(testCase.config)
			rr := httptest.NewRecorder()
			req := testCase.setup()
			handlerCalled := false
			testFilter.Decorate(func(w http.ResponseWriter, r *http.Request) {
				defer r.Body.Close()
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})(rr, req)
			res := rr.Result()
			defer res.Body.Close()
			testCase.assertions(handlerCalled, res)
		})
	}
}
