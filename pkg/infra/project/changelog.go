package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

func (p *Project) changelogPath(name string) string {
	return filepath.Join(p.cfg.ChangelogDir, name)
}

// readChangelog loads changelogs/<name>. A missing file returns nil without error.
func (p *Project) readChangelog(name string) (*model.Changelog, error) {
	raw, err := os.ReadFile(p.path(p.changelogPath(name)))
	if err != nil {
		if notExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read changelog", goerr.V("name", name))
	}

	var changelog model.Changelog
	if err := yaml.Unmarshal(raw, &changelog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse changelog", goerr.V("name", name))
	}
	return &changelog, nil
}

func (p *Project) writeChangelog(name string, changelog *model.Changelog) error {
	raw, err := yaml.Marshal(changelog)
	if err != nil {
		return goerr.Wrap(err, "failed to encode changelog", goerr.V("name", name))
	}
	return p.writeFile(p.changelogPath(name), raw)
}

func versionChangelog(v *semver.Version) string {
	return v.String() + ".yaml"
}

// changelogVersions returns the versions with an archived changelog, ascending
func (p *Project) changelogVersions() ([]*semver.Version, error) {
	entries, err := os.ReadDir(p.path(p.cfg.ChangelogDir))
	if err != nil {
		if notExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to list changelogs", goerr.V("dir", p.cfg.ChangelogDir))
	}

	var versions []*semver.Version
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == currentChangelog || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		v, err := semver.NewVersion(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))
	return versions, nil
}

// renderChangelog formats a changelog as a markdown release body
func renderChangelog(changelog *model.Changelog) string {
	if changelog == nil || len(changelog.Changes) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range changelog.Changes {
		if c.Area != "" {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", c.Area, strings.TrimSpace(c.Change)))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", strings.TrimSpace(c.Change)))
		}
	}
	return sb.String()
}
