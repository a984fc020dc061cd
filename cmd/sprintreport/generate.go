package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clintrovert/sprintreport/internal/config"
)

func generateCmd(opts *options) *cobra.Command {
	var (
		output       string
		navigatorURL string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the sprint report and write it to a Markdown file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			a, err := setup(cmd.Context(), opts, logger)
			if err != nil {
				return err
			}

			jql, err := resolveJQL(a.cfg, navigatorURL)
			if err != nil {
				return err
			}

			if output == "" {
				output = a.cfg.ReportFile()
			}

			if err := a.orchestrator.Run(cmd.Context(), jql, output); err != nil {
				return err
			}

			printSummary(cmd, a.cfg, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Override the output file path from config")
	cmd.Flags().StringVar(&navigatorURL, "url", "", "Jira issue navigator URL to take the JQL from")

	return cmd
}

// resolveJQL prefers a navigator URL given on the command line over config
func resolveJQL(cfg *config.Config, navigatorURL string) (string, error) {
	if navigatorURL != "" {
		return config.ExtractJQL(navigatorURL)
	}
	return cfg.JQL()
}

func printSummary(cmd *cobra.Command, cfg *config.Config, output string) {
	sprint := cfg.SprintInfo.SprintName
	if sprint == "" {
		sprint = "N/A"
	}

	out := cmd.OutOrStdout()
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "REPORT GENERATED SUCCESSFULLY")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Output File: %s\n", output)
	fmt.Fprintf(out, "Sprint: %s\n", sprint)
	fmt.Fprintf(out, "Team: %s\n", cfg.SprintInfo.TeamName)
	fmt.Fprintf(out, "Period: %s to %s\n", cfg.SprintInfo.StartDate, cfg.SprintInfo.EndDate)
	fmt.Fprintln(out, rule)
}
