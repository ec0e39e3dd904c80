package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// publishedRelease is a stable release on the hosting platform
type publishedRelease struct {
	version *semver.Version
	release *github.RepositoryRelease
}

// Sync fetches the published releases and fills in missing changelogs and
// newer inventories. Without a configured repository nothing is synchronized.
func (p *Project) Sync(ctx context.Context) (*model.SyncResult, error) {
	logger := ctxlog.From(ctx)
	result := &model.SyncResult{
		Changelog: model.VersionFlags{},
		Inventory: model.VersionFlags{},
	}

	if p.owner == "" || p.github == nil {
		logger.Warn("Repository is not configured, nothing to sync", "dir", p.dir)
		return result, nil
	}

	current, err := p.readVersion()
	if err != nil {
		return nil, err
	}

	releases, err := p.publishedReleases(ctx, baseVersion(current))
	if err != nil {
		return nil, err
	}

	changelog, err := p.syncChangelogs(current, releases)
	if err != nil {
		return nil, err
	}
	result.Changelog = changelog

	inventory, err := p.syncInventories(ctx, releases)
	if err != nil {
		return nil, err
	}
	result.Inventory = inventory

	logger.Info("Synchronized project",
		"releases", len(releases),
		"changelogs", len(result.Changelog),
		"inventories", len(result.Inventory),
	)
	return result, nil
}

// publishedReleases returns stable releases up to upper, ascending
func (p *Project) publishedReleases(ctx context.Context, upper *semver.Version) ([]publishedRelease, error) {
	logger := ctxlog.From(ctx)

	releases, err := p.github.ListReleases(ctx, p.owner, p.name)
	if err != nil {
		return nil, err
	}

	var published []publishedRelease
	for _, r := range releases {
		if r.GetDraft() || r.GetPrerelease() {
			continue
		}
		v, err := semver.NewVersion(r.GetTagName())
		if err != nil || v.Prerelease() != "" {
			logger.Debug("Skip release without stable version tag", "tag", r.GetTagName())
			continue
		}
		if v.GreaterThan(upper) {
			continue
		}
		published = append(published, publishedRelease{version: v, release: r})
	}

	sort.Slice(published, func(i, j int) bool {
		return published[i].version.LessThan(published[j].version)
	})
	return published, nil
}

func (p *Project) syncChangelogs(current *semver.Version, releases []publishedRelease) (model.VersionFlags, error) {
	known, err := p.changelogVersions()
	if err != nil {
		return nil, err
	}

	flags := model.VersionFlags{}
	for _, r := range releases {
		// a released current version is held by current.yaml
		if !isDev(current) && r.version.Equal(current) {
			continue
		}
		if containsVersion(known, r.version) {
			continue
		}

		changelog := &model.Changelog{
			Date: r.release.GetPublishedAt().Format(dateFormat),
		}
		if body := strings.TrimSpace(r.release.GetBody()); body != "" {
			changelog.Changes = []model.Change{{Change: body}}
		}
		if err := p.writeChangelog(versionChangelog(r.version), changelog); err != nil {
			return nil, err
		}
		flags = append(flags, model.VersionFlag{Version: r.version.String(), OK: true})
	}
	return flags, nil
}

func (p *Project) inventoryIndexPath() string {
	return filepath.Join(p.cfg.InventoryDir, inventoryIndex)
}

// readInventoryIndex loads the minor -> version map of downloaded inventories
func (p *Project) readInventoryIndex() (map[string]string, error) {
	index := map[string]string{}
	raw, err := os.ReadFile(p.path(p.inventoryIndexPath()))
	if err != nil {
		if notExist(err) {
			return index, nil
		}
		return nil, goerr.Wrap(err, "failed to read inventory index")
	}
	if err := yaml.Unmarshal(raw, &index); err != nil {
		return nil, goerr.Wrap(err, "failed to parse inventory index")
	}
	if index == nil {
		index = map[string]string{}
	}
	return index, nil
}

func (p *Project) syncInventories(ctx context.Context, releases []publishedRelease) (model.VersionFlags, error) {
	index, err := p.readInventoryIndex()
	if err != nil {
		return nil, err
	}

	// releases are ascending, so the last one per minor is the newest patch
	latest := map[string]publishedRelease{}
	var minors []string
	for _, r := range releases {
		minor := model.MinorVersion(r.version.String())
		if _, ok := latest[minor]; !ok {
			minors = append(minors, minor)
		}
		latest[minor] = r
	}

	flags := model.VersionFlags{}
	updated := false
	for _, minor := range minors {
		r := latest[minor]
		if recorded, ok := index[minor]; ok {
			if v, err := semver.NewVersion(recorded); err == nil && !v.LessThan(r.version) {
				continue
			}
		}

		asset := findAsset(r.release, p.cfg.InventoryAsset)
		if asset == nil {
			flags = append(flags, model.VersionFlag{Version: r.version.String(), OK: false})
			continue
		}

		data, err := p.github.DownloadReleaseAsset(ctx, p.owner, p.name, asset.GetID())
		if err != nil {
			return nil, err
		}
		if err := p.writeFile(filepath.Join(p.cfg.InventoryDir, "v"+minor, p.cfg.InventoryAsset), data); err != nil {
			return nil, err
		}
		index[minor] = r.version.String()
		updated = true
		flags = append(flags, model.VersionFlag{Version: r.version.String(), OK: true})
	}

	if updated {
		raw, err := yaml.Marshal(index)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode inventory index")
		}
		if err := p.writeFile(p.inventoryIndexPath(), raw); err != nil {
			return nil, err
		}
	}
	return flags, nil
}

func findAsset(release *github.RepositoryRelease, name string) *github.ReleaseAsset {
	for _, asset := range release.Assets {
		if asset.GetName() == name {
			return asset
		}
	}
	return nil
}

func containsVersion(versions []*semver.Version, v *semver.Version) bool {
	for _, known := range versions {
		if known.Equal(v) {
			return true
		}
	}
	return false
}
