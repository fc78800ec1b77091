package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/brigadecore/brigade-foundations/signals"
	"github.com/brigadecore/brigade-foundations/version"
	"github.com/brigadecore/slack-lookup-gateway/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	if err := newRootCommand(setupWarmer).ExecuteContext(
		signals.Context(),
	); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand(
	setupFn func(context.Context, string) (*warmer, error),
) *cobra.Command {
	var functionsPath string
	rootCmd := &cobra.Command{
		Use:          "warmer",
		Short:        "Keeps a list of Lambda functions warm",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(
		&functionsPath,
		"functions",
		"",
		"Path to the function list (overrides FUNCTIONS_PATH)",
	)
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Warm every function now and then once per WARM_INTERVAL",
			RunE: func(cmd *cobra.Command, _ []string) error {
				w, err := setupFn(cmd.Context(), functionsPath)
				if err != nil {
					return err
				}
				w.logger.Info().Dur("interval", w.config.interval).
					Msg("starting warmer")
				if err = w.run(cmd.Context()); errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			},
		},
		&cobra.Command{
			Use:   "once",
			Short: "Warm every function once",
			RunE: func(cmd *cobra.Command, _ []string) error {
				w, err := setupFn(cmd.Context(), functionsPath)
				if err != nil {
					return err
				}
				return w.warmAllFn(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"%s (commit %s)\n",
					version.Version(),
					version.Commit(),
				)
			},
		},
	)
	return rootCmd
}

// setupWarmer builds a warmer from the environment.
func setupWarmer(ctx context.Context, functionsPath string) (*warmer, error) {
	logger, err := config.Logger("warmer")
	if err != nil {
		return nil, err
	}
	warmerConfig, err := getWarmerConfig(functionsPath)
	if err != nil {
		return nil, err
	}
	awsCfg, err := config.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newWarmer(lambda.NewFromConfig(awsCfg), warmerConfig, logger), nil
}
