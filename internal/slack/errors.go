package slack

import "github.com/pkg/errors"

var (
	// ErrMalformedPayload is returned when a request body cannot be decoded
	// into the required fields.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnauthenticated is returned when a request carries no body or fails
	// authentication.
	ErrUnauthenticated = errors.New("unauthenticated request")
	// ErrCallbackDelivery is returned when a response could not be posted to
	// a response URL.
	ErrCallbackDelivery = errors.New("callback delivery failed")
)

// kindError tags an underlying error with one of the sentinel errors above so
// that callers can tell failure kinds apart with errors.Is while the
// underlying cause stays reachable through Unwrap.
type kindError struct {
	kind error
	err  error
}

func withKind(kind, err error) error {
	return &kindError{kind: kind, err: err}
}

func (k *kindError) Error() string {
	return k.kind.Error() + ": " + k.err.Error()
}

func (k *kindError) Unwrap() error {
	return k.err
}

func (k *kindError) Is(target error) bool {
	return target == k.kind
}
