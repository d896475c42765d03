package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/commitcheck/internal/adapter/driven/github"
	"github.com/ericfisherdev/commitcheck/internal/adapter/driven/urlcheck"
	"github.com/ericfisherdev/commitcheck/internal/application"
	"github.com/ericfisherdev/commitcheck/internal/config"
	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// errFindings signals that the check completed and reported commits.
var errFindings = errors.New("commits had issues")

type checkFlags struct {
	repo       string
	prNumber   int
	configPath string
	post       bool
}

func newCheckCmd() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the commits of one pull request and print the report",
		Long: "check runs commitcheck once against a pull request. Tool options come from " +
			"COMMITCHECK_PATTERN, COMMITCHECK_CHECK_URL and COMMITCHECK_MESSAGE, or from the " +
			"[tools.commitcheck] table of the --config file. The exit code is 1 when the " +
			"report lists any commit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := config.Load()
			if err != nil {
				return err
			}
			if !env.HasGitHubToken() {
				return errNoToken
			}

			opts := env.DefaultCheckConfig()
			if flags.configPath != "" {
				if opts, err = config.LoadToolOptions(flags.configPath); err != nil {
					return err
				}
			}

			gh := githubadapter.NewClient(env.GitHubToken)
			checker := application.NewCommitChecker(urlcheck.NewChecker(env.URLTimeout))

			return runCheck(cmd.Context(), gh, checker, opts, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.repo, "repo", "", "Repository in owner/name form")
	cmd.Flags().IntVar(&flags.prNumber, "pr", 0, "Pull request number")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "TOML file with a [tools.commitcheck] table")
	cmd.Flags().BoolVar(&flags.post, "post", false, "Post the report as a pull request comment")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("pr")

	return cmd
}

// runCheck fetches the commits, runs the checker and writes the report to
// out. It returns errFindings when a report was produced.
func runCheck(
	ctx context.Context,
	gh driven.GitHubClient,
	checker *application.CommitChecker,
	opts model.CheckConfig,
	flags checkFlags,
	out io.Writer,
) error {
	if flags.prNumber <= 0 {
		return fmt.Errorf("invalid pull request number %d", flags.prNumber)
	}

	opts.RepoFullName = flags.repo

	commits, err := gh.FetchCommits(ctx, flags.repo, flags.prNumber)
	if err != nil {
		return err
	}

	report, err := checker.Run(ctx, opts, commits)
	if err != nil {
		return err
	}

	if report == nil {
		slog.Info("all commits passed", "repo", flags.repo, "pr", flags.prNumber, "commits", len(commits))
		return nil
	}

	if _, err := io.WriteString(out, report.Body); err != nil {
		return err
	}

	if flags.post {
		if err := gh.CreateIssueComment(ctx, flags.repo, flags.prNumber, report.Body); err != nil {
			return err
		}
		slog.Info("report posted", "repo", flags.repo, "pr", flags.prNumber)
	}

	return errFindings
}
