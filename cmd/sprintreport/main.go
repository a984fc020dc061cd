package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/internal/config"
	"github.com/clintrovert/sprintreport/internal/github"
	"github.com/clintrovert/sprintreport/internal/jira"
	"github.com/clintrovert/sprintreport/internal/pipeline"
)

var Version = "dev"

type options struct {
	configPath string
	envFile    string
	verbose    bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "sprintreport",
		Short:         "Generate a sprint report from a Jira filter",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file with Jira credentials")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	generate := generateCmd(opts)
	rootCmd.RunE = generate.RunE
	rootCmd.Flags().AddFlagSet(generate.Flags())

	rootCmd.AddCommand(generate)
	rootCmd.AddCommand(serveCmd(opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// app holds the components shared by every command
type app struct {
	cfg          *config.Config
	orchestrator *pipeline.Orchestrator
	logger       *zap.Logger
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// setup loads configuration and credentials, connects to Jira and wires the
// pipeline. Every error it returns is fatal.
func setup(ctx context.Context, opts *options, logger *zap.Logger) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded configuration", zap.String("path", opts.configPath))

	creds := config.LoadCredentials(opts.envFile, logger)

	client, err := jira.NewClient(cfg.Jira.ServerURL, creds.JiraEmail, creds.JiraAPIToken, logger)
	if err != nil {
		return nil, err
	}
	client.WithFields(jira.FieldIDs{
		EpicLink: cfg.Jira.Fields.EpicLink,
		EpicName: cfg.Jira.Fields.EpicName,
		Sprint:   cfg.Jira.Fields.Sprint,
	})

	logger.Info("testing jira connection")
	if !client.TestConnection(ctx) {
		return nil, errors.New("failed to connect to jira, check your credentials")
	}

	var reviews pipeline.ReviewCounter
	if creds.GitHubToken != "" && cfg.GitHub != nil {
		reviews = github.NewClient(creds.GitHubToken, logger)
	}

	fetcher := jira.NewFetcher(client, cfg.Jira.MaxResults, logger)

	return &app{
		cfg:          cfg,
		orchestrator: pipeline.NewOrchestrator(fetcher, reviews, cfg, logger),
		logger:       logger,
	}, nil
}
