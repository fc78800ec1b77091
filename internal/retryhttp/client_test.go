package retryhttp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	testCases := []struct {
		name       string
		config     ClientConfig
		assertions func(attempts int32, resp *http.Response, err error)
	}{
		{
			name:   "no retries",
			config: ClientConfig{Timeout: time.Second},
			assertions: func(attempts int32, _ *http.Response, err error) {
				require.Error(t, err)
				require.Equal(t, int32(1), attempts)
			},
		},
		{
			name:   "retries until success",
			config: ClientConfig{Timeout: time.Second, RetryMax: 2},
			assertions: func(attempts int32, resp *http.Response, err error) {
				require.NoError(t, err)
				defer resp.Body.Close()
				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Equal(t, int32(2), attempts)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					if atomic.AddInt32(&attempts, 1) == 1 {
						w.WriteHeader(http.StatusServiceUnavailable)
						return
					}
					w.WriteHeader(http.StatusOK)
				}),
			)
			defer server.Close()
			client := NewClient(testCase.config, zerolog.Nop())
			transport, ok := client.Transport.(*retryablehttp.RoundTripper)
			require.True(t, ok)
			// Keep the test fast
			transport.Client.RetryWaitMin = time.Millisecond
			transport.Client.RetryWaitMax = time.Millisecond
			resp, err := client.Get(server.URL)
			testCase.assertions(atomic.LoadInt32(&attempts), resp, err)
		})
	}
}

func TestLeveledLogger(t *testing.T) {
	buffer := &bytes.Buffer{}
	l := leveledLogger{logger: zerolog.New(buffer)}
	l.Warn("retrying request", "url", "http://example.com", "attempt", 2)
	require.Contains(t, buffer.String(), `"level":"warn"`)
	require.Contains(t, buffer.String(), `"url":"http://example.com"`)
	require.Contains(t, buffer.String(), `"attempt":2`)
	require.Contains(t, buffer.String(), `"message":"retrying request"`)
}
