// Package config assembles the components shared by the gateway binaries from
// environment variables.
package config

import (
	"context"
	"io"
	stdOS "os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/brigadecore/brigade-foundations/os"
	"github.com/brigadecore/slack-lookup-gateway/internal/lookup"
	"github.com/brigadecore/slack-lookup-gateway/internal/metrics"
	"github.com/brigadecore/slack-lookup-gateway/internal/retryhttp"
	"github.com/brigadecore/slack-lookup-gateway/internal/slack"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// loadAWSConfigFn is overridable for testing purposes.
var loadAWSConfigFn = func(ctx context.Context) (aws.Config, error) {
	return awsConfig.LoadDefaultConfig(ctx)
}

// AWSConfig loads the shared AWS configuration (region, credentials) the
// default way.
func AWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := loadAWSConfigFn(ctx)
	return cfg, errors.Wrap(err, "error loading aws config")
}

// LoadDotEnv loads variables from the file named by DOTENV_PATH, if any.
// Variables already present in the environment win.
func LoadDotEnv() error {
	path := os.GetEnvVar("DOTENV_PATH", "")
	if path == "" {
		return nil
	}
	return errors.Wrapf(godotenv.Load(path), "error loading %s", path)
}

// Logger returns a JSON logger for the named component at the level given by
// LOG_LEVEL (default info).
func Logger(component string) (zerolog.Logger, error) {
	return newLogger(stdOS.Stderr, component)
}

func newLogger(w io.Writer, component string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(os.GetEnvVar("LOG_LEVEL", "info"))
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, "error parsing LOG_LEVEL")
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", component).
		Logger(), nil
}

// callbackClientConfig populates configuration for the client that delivers
// responses to response URLs.
func callbackClientConfig() (retryhttp.ClientConfig, error) {
	config := retryhttp.ClientConfig{}
	var err error
	config.Timeout, err = os.GetDurationFromEnvVar("CALLBACK_TIMEOUT", 10*time.Second)
	if err != nil {
		return config, err
	}
	config.RetryMax, err = os.GetIntFromEnvVar("CALLBACK_RETRY_MAX", 0)
	return config, err
}

// DatasetSource returns the dataset source selected by the environment. An S3
// object (DATASET_S3_BUCKET and DATASET_S3_KEY) takes precedence over a URL
// (DATASET_URL), which takes precedence over a local file (DATASET_PATH).
func DatasetSource(
	ctx context.Context,
	logger zerolog.Logger,
) (lookup.Source, error) {
	if bucket := os.GetEnvVar("DATASET_S3_BUCKET", ""); bucket != "" {
		key, err := os.GetRequiredEnvVar("DATASET_S3_KEY")
		if err != nil {
			return nil, err
		}
		cfg, err := AWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("bucket", bucket).Str("key", key).
			Msg("reading dataset from s3")
		return lookup.NewS3Source(
			cfg,
			bucket,
			key,
			os.GetEnvVar("DATASET_S3_ENDPOINT", ""),
		), nil
	}
	if url := os.GetEnvVar("DATASET_URL", ""); url != "" {
		timeout, err := os.GetDurationFromEnvVar("DATASET_TIMEOUT", 30*time.Second)
		if err != nil {
			return nil, err
		}
		retryMax, err := os.GetIntFromEnvVar("DATASET_RETRY_MAX", 3)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("url", url).Msg("reading dataset over http")
		return lookup.NewHTTPSource(
			url,
			retryhttp.NewClient(
				retryhttp.ClientConfig{Timeout: timeout, RetryMax: retryMax},
				logger,
			),
		), nil
	}
	path, err := os.GetRequiredEnvVar("DATASET_PATH")
	if err != nil {
		return nil, errors.Wrap(
			err,
			"one of DATASET_S3_BUCKET, DATASET_URL or DATASET_PATH must be set",
		)
	}
	logger.Debug().Str("path", path).Msg("reading dataset from file")
	return lookup.NewFileSource(path), nil
}

// Collector returns a CloudWatch backed collector when METRICS_NAMESPACE is
// set and a collector that discards everything otherwise.
func Collector(
	ctx context.Context,
	component string,
	logger zerolog.Logger,
) (metrics.Collector, error) {
	namespace := os.GetEnvVar("METRICS_NAMESPACE", "")
	if namespace == "" {
		return metrics.NewNopCollector(), nil
	}
	cfg, err := AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.NewCloudWatchCollector(
		cfg,
		namespace,
		map[string]string{"Component": component},
		logger,
	), nil
}

// lookupCommandNames returns the command names answered by a dataset lookup.
func lookupCommandNames() []string {
	names := []string{}
	for _, name := range strings.Split(
		os.GetEnvVar("LOOKUP_COMMANDS", "lmsearch"),
		",",
	) {
		if name = slack.CommandName(strings.TrimSpace(name)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Dispatcher assembles a slack.Dispatcher from the environment.
func Dispatcher(
	ctx context.Context,
	component string,
	logger zerolog.Logger,
) (slack.Dispatcher, error) {
	token, err := os.GetRequiredEnvVar("SLACK_VERIFICATION_TOKEN")
	if err != nil {
		return nil, err
	}
	source, err := DatasetSource(ctx, logger)
	if err != nil {
		return nil, err
	}
	formatter, err := lookup.NewFormatter()
	if err != nil {
		return nil, err
	}
	commands := map[string]slack.Command{}
	lookupCommand := slack.NewLookupCommand(
		source,
		formatter,
		lookup.RefIDColumn,
		logger,
	)
	for _, name := range lookupCommandNames() {
		commands[name] = lookupCommand
	}
	clientConfig, err := callbackClientConfig()
	if err != nil {
		return nil, err
	}
	collector, err := Collector(ctx, component, logger)
	if err != nil {
		return nil, err
	}
	return slack.NewDispatcher(
		slack.NewTokenAuthenticator(
			token,
			os.GetEnvVar("SLACK_ENTERPRISE_NAME", ""),
		),
		commands,
		slack.NewResponder(retryhttp.NewClient(clientConfig, logger)),
		collector,
		logger,
	), nil
}
