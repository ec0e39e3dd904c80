package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
	"github.com/m-mizutani/shipper/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
	httpClient   *http.Client
}

// config holds internal client configuration
type config struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithToken sets the access token. Without it the client is unauthenticated.
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithBaseURL sets the API and upload base URL, e.g. for GitHub Enterprise or tests
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GitHub client
func NewClient(opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &config{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient)
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse GitHub base URL", goerr.V("url", cfg.baseURL))
		}
		githubClient.BaseURL = u
		githubClient.UploadURL = u
	}

	return &client{
		githubClient: githubClient,
		httpClient:   cfg.httpClient,
	}, nil
}

// ListReleases returns every release of the repository, following pagination
func (c *client) ListReleases(ctx context.Context, owner, repo string) ([]*github.RepositoryRelease, error) {
	var releases []*github.RepositoryRelease
	opt := &github.ListOptions{PerPage: 100}

	for {
		page, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, opt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
				goerr.V("page", opt.Page),
			)
		}
		releases = append(releases, page...)

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return releases, nil
}

// GetReleaseByTag returns the release for tag, or nil if there is none
func (c *client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get release by tag",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", tag),
		)
	}
	return release, nil
}

// CreateRelease creates a release. Validation failures on the tag are
// reported as types.ErrTagExists or types.ErrTag.
func (c *client) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, release)
	if err != nil {
		values := []goerr.Option{
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", release.GetTagName()),
		}
		if sentinel := classifyTagError(err); sentinel != nil {
			return nil, goerr.Wrap(sentinel, err.Error(), values...)
		}
		return nil, goerr.Wrap(err, "failed to create release", values...)
	}
	return created, nil
}

// classifyTagError maps a 422 response about the tag to a tag error sentinel
func classifyTagError(err error) error {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return nil
	}
	if errResp.Response.StatusCode != http.StatusUnprocessableEntity {
		return nil
	}

	for _, e := range errResp.Errors {
		if e.Field != "tag_name" && e.Field != "target_commitish" {
			continue
		}
		if e.Code == "already_exists" {
			return types.ErrTagExists
		}
		return types.ErrTag
	}
	return nil
}

// UploadReleaseAsset uploads file as an asset of release id
func (c *client) UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, name string, file *os.File) (*github.ReleaseAsset, error) {
	asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, owner, repo, id, &github.UploadOptions{
		Name: name,
	}, file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("release_id", id),
			goerr.V("name", name),
		)
	}
	return asset, nil
}

// DownloadReleaseAsset downloads the content of a release asset
func (c *client) DownloadReleaseAsset(ctx context.Context, owner, repo string, assetID int64) ([]byte, error) {
	rc, redirectURL, err := c.githubClient.Repositories.DownloadReleaseAsset(ctx, owner, repo, assetID, c.httpClient)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download release asset",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("asset_id", assetID),
		)
	}

	if rc == nil {
		// go-github only returns a redirect URL when no follow client is given
		return nil, goerr.New("release asset was not downloaded", goerr.V("redirect_url", redirectURL))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read release asset", goerr.V("asset_id", assetID))
	}
	return data, nil
}
