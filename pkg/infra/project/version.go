package project

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/m-mizutani/shipper/pkg/domain/types"
)

// Dev bumps a released version to the next minor (or patch) dev version and
// starts a pending changelog. The released changelog is archived under its
// version.
func (p *Project) Dev(ctx context.Context, patch bool) (*model.DevResult, error) {
	logger := ctxlog.From(ctx)

	current, err := p.readVersion()
	if err != nil {
		return nil, goerr.Wrap(types.ErrDev, err.Error())
	}
	if isDev(current) {
		return nil, goerr.Wrap(types.ErrDev, "current version is already a dev version", goerr.V("version", current.String()))
	}
	if current.Prerelease() != "" {
		return nil, goerr.Wrap(types.ErrDev, "unsupported prerelease version", goerr.V("version", current.String()))
	}

	next := current.IncMinor()
	if patch {
		next = current.IncPatch()
	}
	dev, err := next.SetPrerelease(devPrerelease)
	if err != nil {
		return nil, goerr.Wrap(types.ErrDev, "failed to compute dev version", goerr.V("version", next.String()))
	}

	released, err := p.readChangelog(currentChangelog)
	if err != nil {
		return nil, err
	}
	if released != nil && !released.IsPending() {
		if err := p.writeChangelog(versionChangelog(current), released); err != nil {
			return nil, err
		}
		logger.Debug("Archived changelog", "version", current.String())
	}
	if err := p.writeChangelog(currentChangelog, &model.Changelog{Date: model.ChangelogPending}); err != nil {
		return nil, err
	}
	if err := p.writeVersion(&dev); err != nil {
		return nil, err
	}

	logger.Info("Set dev version",
		"version", dev.String(),
		"old_version", current.String(),
	)

	return &model.DevResult{
		Version:    next.String(),
		OldVersion: current.String(),
	}, nil
}

// Release turns the current dev version into a release dated today
func (p *Project) Release(ctx context.Context) (*model.ReleaseResult, error) {
	logger := ctxlog.From(ctx)

	current, err := p.readVersion()
	if err != nil {
		return nil, goerr.Wrap(types.ErrRelease, err.Error())
	}
	if !isDev(current) {
		return nil, goerr.Wrap(types.ErrRelease, "current version is not a dev version", goerr.V("version", current.String()))
	}

	changelog, err := p.readChangelog(currentChangelog)
	if err != nil {
		return nil, err
	}
	if changelog == nil || len(changelog.Changes) == 0 {
		return nil, goerr.Wrap(types.ErrRelease, "no pending changes to release", goerr.V("version", current.String()))
	}

	version := baseVersion(current)
	date := p.nowFunc().Format(dateFormat)
	changelog.Date = date

	if err := p.writeChangelog(currentChangelog, changelog); err != nil {
		return nil, err
	}
	if err := p.writeVersion(version); err != nil {
		return nil, err
	}

	logger.Info("Created release",
		"version", version.String(),
		"date", date,
		"changes", len(changelog.Changes),
	)

	return &model.ReleaseResult{
		Version: version.String(),
		Date:    date,
	}, nil
}
