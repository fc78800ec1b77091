package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	libSlack "github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/stretchr/testify/require"
)

func TestSignatureVerificationFilterConfig(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("SLACK_SIGNING_SECRET", "")
		t.Setenv("SLACK_APPS_PATH", "")
		_, enabled, err := signatureVerificationFilterConfig()
		require.NoError(t, err)
		require.False(t, enabled)
	})
	t.Run("signing secret", func(t *testing.T) {
		t.Setenv("SLACK_SIGNING_SECRET", "foobar")
		t.Setenv("SLACK_APPS_PATH", "")
		config, enabled, err := signatureVerificationFilterConfig()
		require.NoError(t, err)
		require.True(t, enabled)
		require.Equal(t, "foobar", config.SigningSecret)
	})
	t.Run("apps file missing", func(t *testing.T) {
		t.Setenv("SLACK_SIGNING_SECRET", "")
		t.Setenv("SLACK_APPS_PATH", filepath.Join(t.TempDir(), "apps.json"))
		_, _, err := signatureVerificationFilterConfig()
		require.Error(t, err)
	})
	t.Run("apps file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apps.json")
		err := ioutil.WriteFile(
			path,
			[]byte(`[{"appID":"42","appSigningSecret":"foobar"}]`),
			0600,
		)
		require.NoError(t, err)
		t.Setenv("SLACK_SIGNING_SECRET", "")
		t.Setenv("SLACK_APPS_PATH", path)
		config, enabled, err := signatureVerificationFilterConfig()
		require.NoError(t, err)
		require.True(t, enabled)
		require.Equal(
			t,
			map[string]libSlack.App{
				"42": {AppID: "42", AppSigningSecret: "foobar"},
			},
			config.SlackApps,
		)
	})
}

func TestServerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("TLS_ENABLED", "")
		config, err := serverConfig()
		require.NoError(t, err)
		require.Equal(t, 8080, config.Port)
		require.False(t, config.TLSEnabled)
	})
	t.Run("tls without cert", func(t *testing.T) {
		t.Setenv("TLS_ENABLED", "true")
		t.Setenv("TLS_CERT_PATH", "")
		_, err := serverConfig()
		require.Error(t, err)
	})
	t.Run("tls", func(t *testing.T) {
		t.Setenv("PORT", "8443")
		t.Setenv("TLS_ENABLED", "true")
		t.Setenv("TLS_CERT_PATH", "/var/tls/tls.crt")
		t.Setenv("TLS_KEY_PATH", "/var/tls/tls.key")
		config, err := serverConfig()
		require.NoError(t, err)
		require.Equal(t, 8443, config.Port)
		require.Equal(t, "/var/tls/tls.crt", config.TLSCertPath)
		require.Equal(t, "/var/tls/tls.key", config.TLSKeyPath)
	})
}

func TestShutdownGracePeriod(t *testing.T) {
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "")
	d, err := shutdownGracePeriod()
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, d)
}
