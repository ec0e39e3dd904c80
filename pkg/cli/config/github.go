package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// EnvGitHubToken is the environment variable holding the GitHub access token
const EnvGitHubToken = "GITHUB_TOKEN"

// GitHub holds GitHub configuration
type GitHub struct {
	TokenFile string
	Repo      string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "Path to a file holding the GitHub access token (falls back to " + EnvGitHubToken + ")",
			Destination: &c.TokenFile,
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "GitHub repository as owner/name",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("SHIPPER_REPO"),
		},
	}
}

// Token resolves the access token: contents of the token file (trimmed) win over
// the environment variable. An empty token means unauthenticated access.
func (c *GitHub) Token() (string, error) {
	if c.TokenFile != "" {
		raw, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read GitHub token file", goerr.V("path", c.TokenFile))
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return os.Getenv(EnvGitHubToken), nil
}
