package config

import (
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Workflow holds the flags shared by the workflow commands
type Workflow struct {
	SkipSync   bool
	SkipCommit bool
}

// Flags returns CLI flags for workflow configuration
func (c *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "skip-sync",
			Usage:       "Do not sync changelogs and inventories",
			Destination: &c.SkipSync,
		},
		&cli.BoolFlag{
			Name:        "skip-commit",
			Usage:       "Do not commit the changes",
			Destination: &c.SkipCommit,
		},
	}
}

// Options returns the workflow options
func (c *Workflow) Options() model.Options {
	return model.Options{
		SkipSync:   c.SkipSync,
		SkipCommit: c.SkipCommit,
	}
}

// Dev holds dev command flags
type Dev struct {
	Patch bool
}

// Flags returns CLI flags for the dev command
func (c *Dev) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "patch",
			Usage:       "Bump the patch version instead of the minor version",
			Destination: &c.Patch,
		},
	}
}

// Publish holds publish command flags
type Publish struct {
	model.PublishOptions
}

// Flags returns CLI flags for the publish command
func (c *Publish) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "publish-assets",
			Usage:       "File, or directory of files, to upload as release assets",
			Destination: &c.Assets,
		},
		&cli.StringFlag{
			Name:        "publish-commitish",
			Usage:       "Branch or commit the release tag is created from (defaults to HEAD)",
			Destination: &c.Commitish,
		},
		&cli.BoolFlag{
			Name:        "publish-dev",
			Usage:       "Allow publishing a dev version as prerelease",
			Destination: &c.Dev,
		},
		&cli.BoolFlag{
			Name:        "publish-latest",
			Usage:       "Mark the release as latest",
			Destination: &c.Latest,
		},
		&cli.BoolFlag{
			Name:        "publish-generate-notes",
			Usage:       "Let GitHub generate release notes",
			Destination: &c.GenerateNotes,
		},
	}
}
