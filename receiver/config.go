package main

import (
	"time"

	"github.com/brigadecore/brigade-foundations/http"
	"github.com/brigadecore/brigade-foundations/os"
	libSlack "github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/brigadecore/slack-lookup-gateway/receiver/internal/slack"
)

// signatureVerificationFilterConfig populates configuration for the signature
// verification filter from environment variables. The returned bool is false
// when no signing secret is configured at all, in which case requests are
// authenticated by token alone.
func signatureVerificationFilterConfig() (
	slack.SignatureVerificationFilterConfig,
	bool,
	error,
) {
	config := slack.SignatureVerificationFilterConfig{
		SlackApps:     map[string]libSlack.App{},
		SigningSecret: os.GetEnvVar("SLACK_SIGNING_SECRET", ""),
	}
	if slackAppsPath := os.GetEnvVar("SLACK_APPS_PATH", ""); slackAppsPath != "" {
		apps, err := libSlack.LoadApps(slackAppsPath)
		if err != nil {
			return config, false, err
		}
		config.SlackApps = apps
	}
	enabled := config.SigningSecret != "" || len(config.SlackApps) > 0
	return config, enabled, nil
}

// serverConfig populates configuration for the HTTP/S server from environment
// variables.
func serverConfig() (http.ServerConfig, error) {
	config := http.ServerConfig{}
	var err error
	config.Port, err = os.GetIntFromEnvVar("PORT", 8080)
	if err != nil {
		return config, err
	}
	config.TLSEnabled, err = os.GetBoolFromEnvVar("TLS_ENABLED", false)
	if err != nil {
		return config, err
	}
	if config.TLSEnabled {
		config.TLSCertPath, err = os.GetRequiredEnvVar("TLS_CERT_PATH")
		if err != nil {
			return config, err
		}
		config.TLSKeyPath, err = os.GetRequiredEnvVar("TLS_KEY_PATH")
		if err != nil {
			return config, err
		}
	}
	return config, nil
}

// shutdownGracePeriod returns how long in-flight commands are given to finish
// once the server has stopped.
func shutdownGracePeriod() (time.Duration, error) {
	return os.GetDurationFromEnvVar("SHUTDOWN_GRACE_PERIOD", 30*time.Second)
}
