package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
	"github.com/m-mizutani/shipper/pkg/domain/model"
)

// Workflow decides which sub-operations a command runs, runs them in order
// against a Project and aggregates their results.
type Workflow struct {
	project  interfaces.Project
	notifier interfaces.Notifier
}

// WorkflowOption is a functional option for Workflow
type WorkflowOption func(*Workflow)

// WithNotifier sets the notifier receiving per sub-operation events
func WithNotifier(notifier interfaces.Notifier) WorkflowOption {
	return func(w *Workflow) {
		w.notifier = notifier
	}
}

// NewWorkflow creates a new Workflow for project
func NewWorkflow(project interfaces.Project, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		project:  project,
		notifier: Notifiers{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes cmd and returns the aggregated change record. Any sub-operation
// failure ends the run before commit. Publish never syncs nor commits.
func (w *Workflow) Run(ctx context.Context, cmd model.Command, opts model.Options) (*model.ChangeRecord, error) {
	logger := ctxlog.From(ctx)
	logger.Debug("Starting workflow",
		"command", cmd,
		"skip_sync", opts.SkipSync,
		"skip_commit", cmd.CommitSkipped(opts),
	)

	record, err := w.handle(ctx, cmd, opts)
	if err != nil {
		return nil, err
	}

	if !cmd.CommitSkipped(opts) {
		if err := w.commit(ctx, cmd, record); err != nil {
			return nil, err
		}
	}

	logger.Debug("Workflow completed", "command", cmd, "change", record)
	return record, nil
}

func (w *Workflow) handle(ctx context.Context, cmd model.Command, opts model.Options) (*model.ChangeRecord, error) {
	record := model.NewChangeRecord()

	switch cmd {
	case model.CommandPublish:
		result, err := w.project.Publish(ctx, opts.Publish)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to publish", goerr.V("commitish", opts.Publish.Commitish))
		}
		w.notifier.Notify(ctx, DescribePublish(result))
		if err := record.Add(result); err != nil {
			return nil, err
		}
		return record, nil

	case model.CommandDev:
		result, err := w.project.Dev(ctx, opts.Patch)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to set dev version", goerr.V("patch", opts.Patch))
		}
		w.notifier.Notify(ctx, DescribeDev(result))
		if err := record.Add(result); err != nil {
			return nil, err
		}

	case model.CommandRelease:
		result, err := w.project.Release(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create release")
		}
		w.notifier.Notify(ctx, DescribeRelease(result))
		if err := record.Add(result); err != nil {
			return nil, err
		}

	case model.CommandSync:
		// sync is handled below for every non publish command

	default:
		return nil, goerr.New("unknown command", goerr.V("command", cmd))
	}

	if !opts.SkipSync {
		result, err := w.project.Sync(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to sync")
		}
		changelog, inventory := DescribeSync(result)
		for _, n := range append(changelog, inventory...) {
			w.notifier.Notify(ctx, n)
		}
		if err := record.Add(result); err != nil {
			return nil, err
		}
	}

	return record, nil
}

func (w *Workflow) commit(ctx context.Context, cmd model.Command, record *model.ChangeRecord) error {
	msg, err := CommitMessage(cmd, record)
	if err != nil {
		return err
	}

	var staged int
	for path, err := range w.project.Commit(ctx, record, msg) {
		if err != nil {
			return goerr.Wrap(err, "failed to commit", goerr.V("message", msg))
		}
		staged++
		w.notifier.Notify(ctx, model.Notification{
			Level:   model.LevelInfo,
			Topic:   "git",
			Message: "add: " + path,
		})
	}

	if staged == 0 {
		w.notifier.Notify(ctx, model.Notification{
			Level:   model.LevelInfo,
			Topic:   "git",
			Message: "nothing to commit",
		})
		return nil
	}

	w.notifier.Notify(ctx, model.Notification{
		Level:   model.LevelInfo,
		Topic:   "git",
		Message: fmt.Sprintf("commit: %q", msg),
	})
	return nil
}
