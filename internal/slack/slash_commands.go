package slack

import (
	"strings"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

// Names of the fields of a slash command payload.
const (
	FieldToken          = "token"
	FieldCommand        = "command"
	FieldResponseURL    = "response_url"
	FieldText           = "text"
	FieldEnterpriseName = "enterprise_name"
)

// requiredFields must all be present for a payload to be well formed. Their
// values may be empty.
var requiredFields = []string{
	FieldToken,
	FieldCommand,
	FieldResponseURL,
	FieldText,
}

// Fields maps the field names of a decoded slash command payload to their
// values. Values other than text are still percent-encoded.
type Fields map[string]string

// SlashCommand encapsulates details of a Slack slash command.
//
// nolint: lll
type SlashCommand struct {
	Token          string `schema:"token" json:"-"`
	TeamID         string `schema:"team_id" json:"teamID"`                 // e.g. T0001
	TeamDomain     string `schema:"team_domain" json:"teamDomain"`         // e.g. example
	EnterpriseID   string `schema:"enterprise_id" json:"enterpriseID"`     // e.g. E0001
	EnterpriseName string `schema:"enterprise_name" json:"enterpriseName"` // e.g. Globular+Construct+Inc
	ChannelID      string `schema:"channel_id" json:"channelID"`           // e.g. C2147483705
	ChannelName    string `schema:"channel_name" json:"channelName"`       // e.g. test
	UserID         string `schema:"user_id" json:"userID"`                 // e.g. U2147483697
	UserName       string `schema:"user_name" json:"userName"`             // e.g. steve
	Command        string `schema:"command" json:"command"`                // e.g. %2Flmsearch
	Text           string `schema:"text" json:"text"`                      // e.g. ABC 123
	ResponseURL    string `schema:"response_url" json:"responseURL"`       // e.g. https%3A%2F%2Fhooks.slack.com%2Fcommands%2F1234%2F5678
	TriggerID      string `schema:"trigger_id" json:"triggerID"`           // e.g. 13345224609.738474920.8088930838d88f008e0
	APIAppID       string `schema:"api_app_id" json:"apiAppID"`            // e.g. A123456
	// RequestID correlates log lines of one invocation. It is not part of the
	// payload.
	RequestID string `schema:"-" json:"requestID"`
}

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// ParseSlashCommand maps decoded fields onto a SlashCommand. No further
// unescaping is applied.
func ParseSlashCommand(fields Fields) (SlashCommand, error) {
	command := SlashCommand{}
	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return command, withKind(
				ErrMalformedPayload,
				errors.Errorf("required field %q is missing", key),
			)
		}
	}
	values := make(map[string][]string, len(fields))
	for key, value := range fields {
		values[key] = []string{value}
	}
	if err := formDecoder.Decode(&command, values); err != nil {
		return command, withKind(
			ErrMalformedPayload,
			errors.Wrap(err, "error mapping fields onto slash command"),
		)
	}
	return command, nil
}

// CallbackURL returns the response URL with the percent-encoded slashes and
// colons Slack sends restored. Nothing else is unescaped.
func (s SlashCommand) CallbackURL() string {
	return responseURLReplacer.Replace(s.ResponseURL)
}

var responseURLReplacer = strings.NewReplacer("%2F", "/", "%3A", ":")
