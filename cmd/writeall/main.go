package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/jacentio/writeall/batchwrite"
	"github.com/jacentio/writeall/internal/cliconfig"
	"github.com/jacentio/writeall/internal/input"
	"github.com/jacentio/writeall/internal/logging"
)

var exampleUsage = strings.TrimSpace(`
  writeall --file items.json --region eu-west-1
  writeall --file items.json --dry-run
  cat items.json | writeall --file - --endpoint http://localhost:8000
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// clientFactory builds the DynamoDB client for a run.
type clientFactory func(ctx context.Context, cfg cliconfig.Config) (batchwrite.Client, error)

func main() {
	_ = godotenv.Load(".env")

	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:          "writeall",
		Short:        "Write a JSON document of puts and deletes to DynamoDB with BatchWriteItem",
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// WRITEALL_* override the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			log.Debug().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log, cmd.OutOrStdout(), newClient)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.writeall/config.toml)")
	root.Flags().StringVarP(&cfg.File, "file", "f", cfg.File, "JSON document of writes, - for stdin")
	root.Flags().StringVar(&cfg.Region, "region", cfg.Region, "AWS region (default from the AWS config chain)")
	root.Flags().StringVar(&cfg.Profile, "profile", cfg.Profile, "AWS shared config profile")
	root.Flags().StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "DynamoDB endpoint override, e.g. DynamoDB Local")
	root.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "write requests per BatchWriteItem call (1-25)")
	root.Flags().IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "calls per chunk before a retryable error is returned")
	root.Flags().IntVar(&cfg.SDKMaxAttempts, "sdk-max-attempts", cfg.SDKMaxAttempts, "attempts made by the AWS SDK retryer for each call")
	root.Flags().StringVar(&cfg.ReturnCapacity, "return-capacity", cfg.ReturnCapacity, "consumed capacity detail: NONE, TOTAL or INDEXES")
	root.Flags().StringVar(&cfg.ReturnMetrics, "return-metrics", cfg.ReturnMetrics, "item collection metrics: NONE or SIZE")
	root.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall time limit")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	root.Flags().BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "print the chunk plan without calling DynamoDB")

	if err := root.Execute(); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("writeall")
		os.Exit(1)
	}
}

// run loads the input, writes it and prints the summary to out.
func run(ctx context.Context, cfg cliconfig.Config, log zerolog.Logger, out io.Writer, factory clientFactory) error {
	req, err := input.Load(cfg.File)
	if err != nil {
		return err
	}

	s := newSummary(req, batchwrite.Plan(req, cfg.BatchSize))
	if cfg.DryRun {
		s.DryRun = true
		log.Info().Int("requests", s.Requests).Int("chunks", s.Chunks).Msg("dry run")
		return s.write(out)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := factory(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	w := batchwrite.New(client, cfg.BatchConfig(),
		batchwrite.WithLogger(logging.Slog(log)),
		batchwrite.WithMetrics(batchwrite.NewMetrics(reg)),
	)

	start := time.Now()
	result, err := w.WriteAll(ctx, req)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	s.Duration = time.Since(start).Round(time.Millisecond).String()

	s.addResult(result)
	if err := s.addMetrics(reg); err != nil {
		return err
	}
	return s.write(out)
}

// newClient creates a DynamoDB client from the AWS default config chain.
func newClient(ctx context.Context, cfg cliconfig.Config) (batchwrite.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(cfg.SDKMaxAttempts),
	}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
