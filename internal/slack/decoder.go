package slack

import (
	"encoding/base64"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Decode turns a base64-encoded slash command payload into Fields.
//
// This is deliberately not a general form decoder. Separators are rewritten
// (& to ", " and = to ":") and the result is split on ", " and then on ":",
// keeping only the first two tokens of each entry. Consequently a value that
// contains &, =, ", " or an unescaped : is corrupted or truncated. Only the
// text field has its + placeholders turned back into spaces; every other
// value keeps its percent-encoding. If a key repeats, the last value wins.
func Decode(raw string) (Fields, error) {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, withKind(
			ErrMalformedPayload,
			errors.Wrap(err, "error decoding base64 body"),
		)
	}
	body := strings.ReplaceAll(string(decoded), "&", ", ")
	body = strings.ReplaceAll(body, "=", ":")
	fields := Fields{}
	for _, entry := range strings.Split(body, ", ") {
		tokens := strings.Split(entry, ":")
		if len(tokens) < 2 {
			return nil, withKind(
				ErrMalformedPayload,
				errors.Errorf("entry %q is not a key/value pair", entry),
			)
		}
		fields[tokens[0]] = tokens[1]
	}
	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return nil, withKind(
				ErrMalformedPayload,
				errors.Errorf("required field %q is missing", key),
			)
		}
	}
	fields[FieldText] = strings.ReplaceAll(fields[FieldText], "+", " ")
	return fields, nil
}

// Encode is the inverse of Decode for fields whose values contain none of the
// characters Decode cannot carry. Keys are written in sorted order.
func Encode(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value := fields[key]
		if key == FieldText {
			value = strings.ReplaceAll(value, " ", "+")
		}
		pairs = append(pairs, key+"="+value)
	}
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(pairs, "&")))
}
