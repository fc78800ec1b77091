package main

import "github.com/brigadecore/brigade-foundations/os"

// getHandlerConfig populates configuration for the handler from environment
// variables.
func getHandlerConfig() (handlerConfig, error) {
	config := handlerConfig{}
	var err error
	config.waitForCompletion, err =
		os.GetBoolFromEnvVar("WAIT_FOR_COMPLETION", true)
	return config, err
}
