package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/brigadecore/brigade-foundations/version"
	"github.com/brigadecore/slack-lookup-gateway/internal/config"
	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	logger, err := config.Logger("function")
	if err != nil {
		log.Fatal(err)
	}

	logger.Info().
		Str("version", version.Version()).
		Str("commit", version.Commit()).
		Msg("starting slack lookup gateway function")

	dispatcher, err := config.Dispatcher(context.Background(), "function", logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error configuring dispatcher")
	}

	handlerConfig, err := getHandlerConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("error reading handler configuration")
	}

	h := newHandler(dispatcher, slack.NewWorkers(logger), handlerConfig, logger)
	lambda.Start(h.Handle)
}
