package interfaces

import (
	"context"
	"iter"

	"github.com/m-mizutani/shipper/pkg/domain/model"
)

// Project is the capability set the workflow drives. Calls are never issued
// concurrently against one Project.
type Project interface {
	// Dev bumps the project to the next dev version
	Dev(ctx context.Context, patch bool) (*model.DevResult, error)

	// Release finalizes the current dev version as a release
	Release(ctx context.Context) (*model.ReleaseResult, error)

	// Sync synchronizes changelog and inventory metadata
	Sync(ctx context.Context) (*model.SyncResult, error)

	// Publish creates a release on the hosting platform
	Publish(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error)

	// Commit stages the files changed by the run, yielding each staged path,
	// and commits them with message once the sequence is exhausted
	Commit(ctx context.Context, record *model.ChangeRecord, message string) iter.Seq2[string, error]
}

// Notifier receives user facing notifications
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}
