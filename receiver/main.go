package main

import (
	"context"
	"log"
	"net/http"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/brigadecore/brigade-foundations/signals"
	"github.com/brigadecore/brigade-foundations/version"
	"github.com/brigadecore/slack-lookup-gateway/internal/config"
	libSlack "github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/brigadecore/slack-lookup-gateway/receiver/internal/slack"
	"github.com/gorilla/mux"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	logger, err := config.Logger("receiver")
	if err != nil {
		log.Fatal(err)
	}

	logger.Info().
		Str("version", version.Version()).
		Str("commit", version.Commit()).
		Msg("starting slack lookup gateway receiver")

	ctx := signals.Context()

	dispatcher, err := config.Dispatcher(ctx, "receiver", logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error configuring dispatcher")
	}

	workers := libSlack.NewWorkers(logger)

	var server libHTTP.Server
	{
		handler := slack.NewSlashCommandHandler(dispatcher, workers).ServeHTTP
		filterConfig, enabled, err := signatureVerificationFilterConfig()
		if err != nil {
			logger.Fatal().Err(err).Msg("error reading slack apps")
		}
		if enabled {
			handler = slack.NewSignatureVerificationFilter(filterConfig).
				Decorate(handler)
		} else {
			logger.Warn().Msg("no signing secret configured; " +
				"requests are authenticated by token only")
		}
		router := mux.NewRouter()
		router.StrictSlash(true)
		router.HandleFunc("/slash-commands", handler).Methods(http.MethodPost)
		router.HandleFunc("/healthz", libHTTP.Healthz).Methods(http.MethodGet)
		serverConfig, err := serverConfig()
		if err != nil {
			logger.Fatal().Err(err).Msg("error reading server configuration")
		}
		server = libHTTP.NewServer(router, &serverConfig)
	}

	gracePeriod, err := shutdownGracePeriod()
	if err != nil {
		logger.Fatal().Err(err).Msg("error reading shutdown grace period")
	}

	if err = server.ListenAndServe(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}

	// Give in-flight commands a chance to deliver their responses
	drainCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
	defer cancel()
	if err = workers.Wait(drainCtx); err != nil {
		logger.Warn().Err(err).Msg("shut down with commands still in flight")
	}
}
