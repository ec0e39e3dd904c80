package git

import (
	"context"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
)

type repository struct {
	dir     string // project directory, may be below the worktree root
	repo    *gogit.Repository
	author  *object.Signature
	nowFunc func() time.Time
}

// Option is a functional option for the repository
type Option func(*repository)

// WithAuthor sets the commit author. Without it the author is read from git config.
func WithAuthor(name, email string) Option {
	return func(r *repository) {
		if name != "" && email != "" {
			r.author = &object.Signature{Name: name, Email: email}
		}
	}
}

// WithClock sets the clock used for commit timestamps
func WithClock(nowFunc func() time.Time) Option {
	return func(r *repository) {
		r.nowFunc = nowFunc
	}
}

// Open opens the git repository containing dir
func Open(dir string, opts ...Option) (interfaces.GitRepository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve project directory", goerr.V("dir", dir))
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("dir", abs))
	}

	r := &repository{
		dir:     abs,
		repo:    repo,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *repository) worktree() (*gogit.Worktree, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get worktree", goerr.V("dir", r.dir))
	}
	return wt, nil
}

// Add stages path
func (r *repository) Add(ctx context.Context, path string) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), path)
	if err != nil {
		return goerr.Wrap(err, "path is outside of worktree", goerr.V("path", path))
	}

	if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
		return goerr.Wrap(err, "failed to stage file", goerr.V("path", rel))
	}
	return nil
}

// Commit records the staged changes
func (r *repository) Commit(ctx context.Context, message string) (string, error) {
	wt, err := r.worktree()
	if err != nil {
		return "", err
	}

	opts := &gogit.CommitOptions{}
	if r.author != nil {
		author := *r.author
		author.When = r.nowFunc()
		opts.Author = &author
	}

	hash, err := wt.Commit(message, opts)
	if err != nil {
		return "", goerr.Wrap(err, "failed to commit", goerr.V("message", message))
	}
	return hash.String(), nil
}

// Head returns the hash of HEAD
func (r *repository) Head(ctx context.Context) (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve HEAD", goerr.V("dir", r.dir))
	}
	return ref.Hash().String(), nil
}
