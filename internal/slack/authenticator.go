package slack

import (
	"crypto/subtle"
	"strings"
)

// AuthDecision is the outcome of authenticating a request.
type AuthDecision int

const (
	// Rejected means the request must not be processed.
	Rejected AuthDecision = iota
	// Authenticated means the request may be processed.
	Authenticated
)

func (a AuthDecision) String() string {
	if a == Authenticated {
		return "authenticated"
	}
	return "rejected"
}

// Authenticator is an interface for components that decide whether decoded
// fields come from a trusted source.
type Authenticator interface {
	// Authenticate returns the decision for the given fields. It has no side
	// effects.
	Authenticate(Fields) AuthDecision
}

type tokenAuthenticator struct {
	secret         string
	enterpriseName string
}

// NewTokenAuthenticator returns an Authenticator that compares the token
// field with the shared verification token. When enterpriseName is
// non-empty, the enterprise_name field must match it as well; spaces in it
// are compared as the + Slack sends. An empty secret authenticates nothing.
func NewTokenAuthenticator(secret, enterpriseName string) Authenticator {
	return &tokenAuthenticator{
		secret:         secret,
		enterpriseName: strings.ReplaceAll(enterpriseName, " ", "+"),
	}
}

func (t *tokenAuthenticator) Authenticate(fields Fields) AuthDecision {
	if t.secret == "" {
		return Rejected
	}
	token, ok := fields[FieldToken]
	if !ok ||
		subtle.ConstantTimeCompare([]byte(token), []byte(t.secret)) != 1 {
		return Rejected
	}
	// A missing enterprise_name reads as "", which only matters when an
	// enterprise is configured.
	if t.enterpriseName != "" && fields[FieldEnterpriseName] != t.enterpriseName {
		return Rejected
	}
	return Authenticated
}
