package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/m-mizutani/shipper/pkg/domain/types"
)

// Publish creates the release of the current version on the hosting platform
// and uploads the assets
func (p *Project) Publish(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx)

	if p.owner == "" || p.github == nil {
		return nil, goerr.New("repository is not configured, cannot publish", goerr.V("dir", p.dir))
	}

	current, err := p.readVersion()
	if err != nil {
		return nil, goerr.Wrap(types.ErrRelease, err.Error())
	}
	dev := isDev(current)
	if dev && !opts.Dev {
		return nil, goerr.Wrap(types.ErrRelease, "dev version can only be published as dev release",
			goerr.V("version", current.String()))
	}

	assets, err := p.assetFiles(opts.Assets)
	if err != nil {
		return nil, err
	}

	tag := "v" + current.String()
	existing, err := p.github.GetReleaseByTag(ctx, p.owner, p.name, tag)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, goerr.Wrap(types.ErrTagExists, "release already exists",
			goerr.V("tag", tag),
			goerr.V("url", existing.GetHTMLURL()),
		)
	}

	changelog, err := p.readChangelog(currentChangelog)
	if err != nil {
		return nil, err
	}

	makeLatest := "false"
	if opts.Latest {
		makeLatest = "true"
	}
	release := &github.RepositoryRelease{
		TagName:              github.Ptr(tag),
		Name:                 github.Ptr(tag),
		Body:                 github.Ptr(renderChangelog(changelog)),
		Prerelease:           github.Ptr(dev),
		MakeLatest:           github.Ptr(makeLatest),
		GenerateReleaseNotes: github.Ptr(opts.GenerateNotes),
	}

	commitish := opts.Commitish
	if commitish == "" && p.git != nil {
		if head, err := p.git.Head(ctx); err == nil {
			commitish = head
		} else {
			logger.Warn("Failed to resolve HEAD, using default branch", "error", err)
		}
	}
	if commitish != "" {
		release.TargetCommitish = github.Ptr(commitish)
	}

	created, err := p.github.CreateRelease(ctx, p.owner, p.name, release)
	if err != nil {
		return nil, err
	}
	logger.Info("Created release",
		"tag", created.GetTagName(),
		"id", created.GetID(),
		"prerelease", dev,
	)

	for _, path := range assets {
		if err := p.uploadAsset(ctx, created.GetID(), path); err != nil {
			return nil, err
		}
	}

	return &model.PublishResult{
		TagName:   created.GetTagName(),
		Commitish: created.GetTargetCommitish(),
		URL:       created.GetHTMLURL(),
	}, nil
}

func (p *Project) uploadAsset(ctx context.Context, releaseID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open asset", goerr.V("path", path))
	}
	defer f.Close()

	asset, err := p.github.UploadReleaseAsset(ctx, p.owner, p.name, releaseID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	ctxlog.From(ctx).Info("Uploaded release asset",
		"name", asset.GetName(),
		"size", asset.GetSize(),
	)
	return nil
}

// assetFiles resolves the assets option into files: the file itself, or every
// regular file directly inside a directory, sorted by name
func (p *Project) assetFiles(assets string) ([]string, error) {
	if assets == "" {
		return nil, nil
	}
	if !filepath.IsAbs(assets) {
		assets = p.path(assets)
	}

	info, err := os.Stat(assets)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to access assets", goerr.V("path", assets))
	}
	if !info.IsDir() {
		return []string{assets}, nil
	}

	entries, err := os.ReadDir(assets)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assets", goerr.V("path", assets))
	}
	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(assets, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
