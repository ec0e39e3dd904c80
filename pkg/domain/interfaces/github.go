package interfaces

import (
	"context"
	"os"

	"github.com/google/go-github/v75/github"
)

// GitHubClient defines operations for interacting with GitHub releases
type GitHubClient interface {
	// ListReleases returns every release of the repository
	ListReleases(ctx context.Context, owner, repo string) ([]*github.RepositoryRelease, error)

	// GetReleaseByTag returns the release for tag, or nil if there is none
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error)

	// CreateRelease creates a release
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error)

	// UploadReleaseAsset uploads file as an asset of release id
	UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, name string, file *os.File) (*github.ReleaseAsset, error)

	// DownloadReleaseAsset downloads the content of a release asset
	DownloadReleaseAsset(ctx context.Context, owner, repo string, assetID int64) ([]byte, error)
}
