package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Sentry holds Sentry configuration
type Sentry struct {
	DSN         string
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for reporting unexpected errors",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("SHIPPER_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Value:       "production",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("SHIPPER_SENTRY_ENV"),
		},
	}
}

// Enabled reports whether errors are reported to Sentry
func (c *Sentry) Enabled() bool {
	return c.DSN != ""
}

// Configure initializes the Sentry client. It is a no-op without DSN.
func (c *Sentry) Configure() error {
	if !c.Enabled() {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}
	return nil
}

// Capture reports err to Sentry and waits for delivery
func (c *Sentry) Capture(err error) {
	if !c.Enabled() {
		return
	}
	sentry.CaptureException(err)
	sentry.Flush(2 * time.Second)
}
