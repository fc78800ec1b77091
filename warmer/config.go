package main

import (
	"time"

	"github.com/brigadecore/brigade-foundations/os"
	"github.com/pkg/errors"
)

// getWarmerConfig populates configuration for the warmer from environment
// variables. A non-empty functionsPath takes precedence over FUNCTIONS_PATH.
func getWarmerConfig(functionsPath string) (warmerConfig, error) {
	config := warmerConfig{functionsPath: functionsPath}
	var err error
	if config.functionsPath == "" {
		config.functionsPath, err = os.GetRequiredEnvVar("FUNCTIONS_PATH")
		if err != nil {
			return config, err
		}
	}
	config.interval, err =
		os.GetDurationFromEnvVar("WARM_INTERVAL", 15*time.Minute)
	if err != nil {
		return config, err
	}
	if config.interval <= 0 {
		return config, errors.Errorf(
			"value %s for WARM_INTERVAL is not a positive duration",
			config.interval,
		)
	}
	config.invokeTimeout, err =
		os.GetDurationFromEnvVar("WARM_INVOKE_TIMEOUT", 30*time.Second)
	if err != nil {
		return config, err
	}
	if config.invokeTimeout <= 0 {
		return config, errors.Errorf(
			"value %s for WARM_INVOKE_TIMEOUT is not a positive duration",
			config.invokeTimeout,
		)
	}
	return config, nil
}
