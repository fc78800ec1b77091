package slack

import "net/http"

const (
	// FetchingText acknowledges a recognized command before it is processed.
	FetchingText = "Fetching results..."
	// UnknownCommandText answers a command that is not in the command table.
	UnknownCommandText = "I don't know what to do"
	// DoneBody is returned to the invoking runtime once a request has been
	// accepted.
	DoneBody = `{"text":"Done!"}`

	invalidRequestText = "Invalid request"
)

// ResponseMessage is the payload posted to a slash command's response URL.
type ResponseMessage struct {
	Text string `json:"text"`
}

// Rejection is returned directly to the invoking runtime when a request
// cannot be verified. It never goes through the response URL.
type Rejection struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// NewRejection returns the one rejection this gateway produces.
func NewRejection() *Rejection {
	return &Rejection{
		StatusCode: http.StatusUnauthorized,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       invalidRequestText,
	}
}
