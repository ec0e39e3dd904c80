package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/cli/config"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/m-mizutani/shipper/pkg/infra/console"
	"github.com/m-mizutani/shipper/pkg/infra/git"
	githubinfra "github.com/m-mizutani/shipper/pkg/infra/github"
	"github.com/m-mizutani/shipper/pkg/infra/project"
	"github.com/m-mizutani/shipper/pkg/infra/slack"
	"github.com/m-mizutani/shipper/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var commandUsage = map[model.Command]string{
	model.CommandSync:    "Sync changelogs and inventories",
	model.CommandRelease: "Release the current dev version",
	model.CommandDev:     "Bump to the next dev version",
	model.CommandPublish: "Publish the current version as a GitHub release",
}

func cmdWorkflow(command model.Command) *cli.Command {
	var (
		githubCfg   config.GitHub
		workflowCfg config.Workflow
		slackCfg    config.Slack
		devCfg      config.Dev
		publishCfg  config.Publish
	)

	flags := append(githubCfg.Flags(), workflowCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	switch command {
	case model.CommandDev:
		flags = append(flags, devCfg.Flags()...)
	case model.CommandPublish:
		flags = append(flags, publishCfg.Flags()...)
	}

	return &cli.Command{
		Name:      string(command),
		Usage:     commandUsage[command],
		ArgsUsage: "[path]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := workflowCfg.Options()
			opts.Patch = devCfg.Patch
			opts.Publish = publishCfg.PublishOptions

			env, err := newEnvironment(ctx, projectPath(c), &githubCfg)
			if err != nil {
				return err
			}
			defer env.Close()

			ctxlog.From(ctx).Debug("Running workflow",
				"command", command,
				"dir", env.project.Dir(),
				"github", githubCfg,
			)

			notifiers := usecase.Notifiers{console.NewPrinter(c.Root().Writer)}
			if slackCfg.WebhookURL != "" {
				notifiers = append(notifiers, slack.NewNotifier(slackCfg.WebhookURL, env.repo))
			}

			workflow := usecase.NewWorkflow(env.project, usecase.WithNotifier(notifiers))
			record, err := workflow.Run(ctx, command, opts)
			if err != nil {
				return err
			}

			notice, err := usecase.CompletionNotice(command, record)
			if err != nil {
				return err
			}
			notifiers.Notify(ctx, model.Notification{Level: model.LevelNotice, Message: notice})
			return nil
		},
	}
}

func cmdData() *cli.Command {
	var githubCfg config.GitHub

	return &cli.Command{
		Name:      "data",
		Usage:     "Print project metadata as JSON",
		ArgsUsage: "[path]",
		Flags:     githubCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			env, err := newEnvironment(ctx, projectPath(c), &githubCfg)
			if err != nil {
				return err
			}
			defer env.Close()

			data, err := env.project.Data(ctx)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(c.Root().Writer)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(data); err != nil {
				return goerr.Wrap(err, "failed to encode project data")
			}
			return nil
		},
	}
}

func projectPath(c *cli.Command) string {
	if path := c.Args().First(); path != "" {
		return path
	}
	return "."
}

// environment holds the collaborators of one run
type environment struct {
	project    *project.Project
	repo       string
	httpClient *http.Client
}

// Close releases the HTTP session
func (e *environment) Close() {
	e.httpClient.CloseIdleConnections()
}

func newEnvironment(ctx context.Context, dir string, githubCfg *config.GitHub) (*environment, error) {
	logger := ctxlog.From(ctx)

	projectCfg, err := project.LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	token, err := githubCfg.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		logger.Debug("No GitHub token configured, using unauthenticated access")
	}

	httpClient := &http.Client{Timeout: 5 * time.Minute}
	githubClient, err := githubinfra.NewClient(
		githubinfra.WithToken(token),
		githubinfra.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client")
	}

	opts := []project.Option{
		project.WithConfig(projectCfg),
		project.WithRepo(githubCfg.Repo),
		project.WithGitHub(githubClient),
	}

	repo, err := git.Open(dir, git.WithAuthor(projectCfg.Git.AuthorName, projectCfg.Git.AuthorEmail))
	if err != nil {
		logger.Debug("Project is not in a git repository", "dir", dir, "error", err)
	} else {
		opts = append(opts, project.WithGit(repo))
	}

	p, err := project.New(dir, opts...)
	if err != nil {
		return nil, err
	}

	repoName := githubCfg.Repo
	if repoName == "" {
		repoName = projectCfg.Repo
	}

	return &environment{
		project:    p,
		repo:       repoName,
		httpClient: httpClient,
	}, nil
}
