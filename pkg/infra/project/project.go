package project

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
	"github.com/m-mizutani/shipper/pkg/domain/model"
)

const (
	defaultVersionFile    = "VERSION.txt"
	defaultChangelogDir   = "changelogs"
	defaultInventoryDir   = "docs/inventories"
	defaultInventoryAsset = "objects.inv"

	currentChangelog = "current.yaml"
	inventoryIndex   = "versions.yaml"
	devPrerelease    = "dev"
	dateFormat       = "2006-01-02"
)

// Project is a release managed project on the local filesystem. A Project
// serves a single run and is not safe for concurrent use.
type Project struct {
	dir     string
	cfg     model.ProjectConfig
	owner   string
	name    string
	github  interfaces.GitHubClient
	git     interfaces.GitRepository
	nowFunc func() time.Time

	changed []string
}

var _ interfaces.Project = (*Project)(nil)

// Option is a functional option for Project
type Option func(*Project)

// WithConfig sets the project layout. Empty fields keep their defaults.
func WithConfig(cfg model.ProjectConfig) Option {
	return func(p *Project) {
		if cfg.Repo != "" {
			p.cfg.Repo = cfg.Repo
		}
		if cfg.VersionFile != "" {
			p.cfg.VersionFile = cfg.VersionFile
		}
		if cfg.ChangelogDir != "" {
			p.cfg.ChangelogDir = cfg.ChangelogDir
		}
		if cfg.InventoryDir != "" {
			p.cfg.InventoryDir = cfg.InventoryDir
		}
		if cfg.InventoryAsset != "" {
			p.cfg.InventoryAsset = cfg.InventoryAsset
		}
		p.cfg.Git = cfg.Git
	}
}

// WithRepo sets the hosting platform repository as "owner/name"
func WithRepo(repo string) Option {
	return func(p *Project) {
		if repo != "" {
			p.cfg.Repo = repo
		}
	}
}

// WithGitHub sets the hosting platform client
func WithGitHub(client interfaces.GitHubClient) Option {
	return func(p *Project) {
		p.github = client
	}
}

// WithGit sets the repository used by Commit
func WithGit(repo interfaces.GitRepository) Option {
	return func(p *Project) {
		p.git = repo
	}
}

// WithClock sets the clock used for release dates
func WithClock(nowFunc func() time.Time) Option {
	return func(p *Project) {
		p.nowFunc = nowFunc
	}
}

// New creates a Project rooted at dir
func New(dir string, opts ...Option) (*Project, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to access project directory", goerr.V("dir", dir))
	}
	if !info.IsDir() {
		return nil, goerr.New("project path is not a directory", goerr.V("dir", dir))
	}

	p := &Project{
		dir: dir,
		cfg: model.ProjectConfig{
			VersionFile:    defaultVersionFile,
			ChangelogDir:   defaultChangelogDir,
			InventoryDir:   defaultInventoryDir,
			InventoryAsset: defaultInventoryAsset,
		},
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.Repo != "" {
		owner, name, ok := strings.Cut(p.cfg.Repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return nil, goerr.New("repository must be formatted as owner/name", goerr.V("repo", p.cfg.Repo))
		}
		p.owner, p.name = owner, name
	}

	return p, nil
}

// Dir returns the project directory
func (p *Project) Dir() string {
	return p.dir
}

// Changed returns the files written during this run, relative to the project directory
func (p *Project) Changed() []string {
	return slices.Clone(p.changed)
}

func (p *Project) path(rel ...string) string {
	return filepath.Join(append([]string{p.dir}, rel...)...)
}

func (p *Project) markChanged(rel string) {
	rel = filepath.ToSlash(rel)
	if !slices.Contains(p.changed, rel) {
		p.changed = append(p.changed, rel)
	}
}

// writeFile writes data to a path relative to the project directory and records it as changed
func (p *Project) writeFile(rel string, data []byte) error {
	abs := p.path(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("path", filepath.Dir(abs)))
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write file", goerr.V("path", abs))
	}
	p.markChanged(rel)
	return nil
}

func (p *Project) readVersion() (*semver.Version, error) {
	raw, err := os.ReadFile(p.path(p.cfg.VersionFile))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read version file", goerr.V("path", p.cfg.VersionFile))
	}
	v, err := semver.NewVersion(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, goerr.Wrap(err, "version file does not hold a semantic version",
			goerr.V("path", p.cfg.VersionFile),
			goerr.V("content", strings.TrimSpace(string(raw))),
		)
	}
	return v, nil
}

func (p *Project) writeVersion(v *semver.Version) error {
	return p.writeFile(p.cfg.VersionFile, []byte(v.String()+"\n"))
}

func isDev(v *semver.Version) bool {
	return v.Prerelease() == devPrerelease
}

// baseVersion drops the prerelease part of v
func baseVersion(v *semver.Version) *semver.Version {
	base, err := v.SetPrerelease("")
	if err != nil {
		return v
	}
	return &base
}

// Commit stages every file written during the run, yielding each path, then
// commits them with message. Stopping the iteration early skips the commit.
func (p *Project) Commit(ctx context.Context, record *model.ChangeRecord, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		logger := ctxlog.From(ctx)

		if len(p.changed) == 0 {
			logger.Info("Nothing to commit", "change", record)
			return
		}
		if p.git == nil {
			yield("", goerr.New("git repository is not configured", goerr.V("dir", p.dir)))
			return
		}

		for _, rel := range p.changed {
			if err := p.git.Add(ctx, rel); err != nil {
				yield("", err)
				return
			}
			if !yield(rel, nil) {
				return
			}
		}

		hash, err := p.git.Commit(ctx, message)
		if err != nil {
			yield("", err)
			return
		}
		logger.Debug("Committed changes", "hash", hash, "message", message)
	}
}

func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
