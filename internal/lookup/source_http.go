package lookup

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

type httpSource struct {
	url        string
	httpSendFn func(*http.Request) (*http.Response, error)
}

// NewHTTPSource returns a Source that downloads a CSV document from a URL,
// such as the public URL of an object in a bucket.
func NewHTTPSource(url string, client *http.Client) Source {
	return &httpSource{
		url:        url,
		httpSendFn: client.Do,
	}
}

func (h *httpSource) Fetch(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, newFetchError(err, "error preparing request for %s", h.url)
	}
	resp, err := h.httpSendFn(req)
	if err != nil {
		return nil, newFetchError(err, "error downloading %s", h.url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newFetchError(
			errors.Errorf("received status code %d", resp.StatusCode),
			"error downloading %s",
			h.url,
		)
	}
	rows, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, newFetchError(err, "error reading %s", h.url)
	}
	return rows, nil
}
