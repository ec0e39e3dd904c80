package usecase_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/m-mizutani/shipper/pkg/domain/types"
	"github.com/m-mizutani/shipper/pkg/usecase"
)

// MockProject is a mock implementation of Project recording call order
type MockProject struct {
	devFunc     func(ctx context.Context, patch bool) (*model.DevResult, error)
	releaseFunc func(ctx context.Context) (*model.ReleaseResult, error)
	syncFunc    func(ctx context.Context) (*model.SyncResult, error)
	publishFunc func(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error)
	staged      []string
	commitErr   error

	calls       []string
	commitMsg   string
	publishOpts model.PublishOptions
}

func (m *MockProject) Dev(ctx context.Context, patch bool) (*model.DevResult, error) {
	m.calls = append(m.calls, "dev")
	if m.devFunc != nil {
		return m.devFunc(ctx, patch)
	}
	return &model.DevResult{Version: "1.2.0", OldVersion: "1.1.9"}, nil
}

func (m *MockProject) Release(ctx context.Context) (*model.ReleaseResult, error) {
	m.calls = append(m.calls, "release")
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx)
	}
	return &model.ReleaseResult{Version: "1.2.0", Date: "2026-10-14"}, nil
}

func (m *MockProject) Sync(ctx context.Context) (*model.SyncResult, error) {
	m.calls = append(m.calls, "sync")
	if m.syncFunc != nil {
		return m.syncFunc(ctx)
	}
	return &model.SyncResult{}, nil
}

func (m *MockProject) Publish(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error) {
	m.calls = append(m.calls, "publish")
	m.publishOpts = opts
	if m.publishFunc != nil {
		return m.publishFunc(ctx, opts)
	}
	return &model.PublishResult{TagName: "v2.0.0", Commitish: opts.Commitish, URL: "https://example.com/v2.0.0"}, nil
}

func (m *MockProject) Commit(ctx context.Context, record *model.ChangeRecord, message string) iter.Seq2[string, error] {
	m.calls = append(m.calls, "commit")
	m.commitMsg = message
	return func(yield func(string, error) bool) {
		for _, path := range m.staged {
			if !yield(path, nil) {
				return
			}
		}
		if m.commitErr != nil {
			yield("", m.commitErr)
		}
	}
}

// recorder collects notifications
type recorder struct {
	notifications []model.Notification
}

func (r *recorder) Notify(ctx context.Context, n model.Notification) {
	r.notifications = append(r.notifications, n)
}

func (r *recorder) lines() []string {
	lines := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		lines = append(lines, n.String())
	}
	return lines
}

func TestWorkflow_Run_Dev(t *testing.T) {
	ctx := context.Background()
	project := &MockProject{
		syncFunc: func(ctx context.Context) (*model.SyncResult, error) {
			return &model.SyncResult{
				Changelog: model.VersionFlags{{Version: "1.2.0", OK: true}},
			}, nil
		},
		staged: []string{"VERSION.txt", "changelogs/current.yaml"},
	}
	rec := &recorder{}

	wf := usecase.NewWorkflow(project, usecase.WithNotifier(rec))
	record, err := wf.Run(ctx, model.CommandDev, model.Options{})
	gt.NoError(t, err)

	gt.Value(t, project.calls).Equal([]string{"dev", "sync", "commit"})
	gt.Value(t, record.Kinds()).Equal([]model.OperationKind{model.OperationDev, model.OperationSync})
	gt.Value(t, project.commitMsg).Equal("repo: Dev `1.2.0`")

	notice, err := usecase.CompletionNotice(model.CommandDev, record)
	gt.NoError(t, err)
	gt.Value(t, notice).Equal("Repo set to dev (1.2.0)")

	gt.Value(t, rec.lines()).Equal([]string{
		"[version] 1.2.0",
		"[changelog] add: 1.2.0",
		"[inventory] up to date",
		"[git] add: VERSION.txt",
		"[git] add: changelogs/current.yaml",
		"[git] commit: \"repo: Dev `1.2.0`\"",
	})
}

func TestWorkflow_Run_DevPatch(t *testing.T) {
	var gotPatch bool
	project := &MockProject{
		devFunc: func(ctx context.Context, patch bool) (*model.DevResult, error) {
			gotPatch = patch
			return &model.DevResult{Version: "1.1.10", OldVersion: "1.1.9"}, nil
		},
	}

	record, err := usecase.NewWorkflow(project).Run(context.Background(), model.CommandDev, model.Options{Patch: true, SkipSync: true})
	gt.NoError(t, err)
	gt.Value(t, gotPatch).Equal(true)
	gt.Value(t, record.Kinds()).Equal([]model.OperationKind{model.OperationDev})
	gt.Value(t, project.calls).Equal([]string{"dev", "commit"})
}

func TestWorkflow_Run_SyncAlwaysPresent(t *testing.T) {
	for _, cmd := range []model.Command{model.CommandSync, model.CommandDev, model.CommandRelease} {
		t.Run(string(cmd), func(t *testing.T) {
			project := &MockProject{}
			record, err := usecase.NewWorkflow(project).Run(context.Background(), cmd, model.Options{SkipCommit: true})
			gt.NoError(t, err)
			gt.Value(t, record.Has(model.OperationSync)).Equal(true)
			gt.Value(t, record.Has(model.OperationPublish)).Equal(false)
			gt.Value(t, project.calls[len(project.calls)-1]).Equal("sync")
		})
	}
}

func TestWorkflow_Run_SyncOnly(t *testing.T) {
	project := &MockProject{}
	rec := &recorder{}
	record, err := usecase.NewWorkflow(project, usecase.WithNotifier(rec)).
		Run(context.Background(), model.CommandSync, model.Options{})
	gt.NoError(t, err)
	gt.Value(t, record.Kinds()).Equal([]model.OperationKind{model.OperationSync})
	gt.Value(t, project.calls).Equal([]string{"sync", "commit"})
	gt.Value(t, project.commitMsg).Equal("repo: Sync")
	gt.Value(t, rec.lines()).Equal([]string{
		"[changelog] up to date",
		"[inventory] up to date",
		"[git] nothing to commit",
	})
}

func TestWorkflow_Run_Release(t *testing.T) {
	project := &MockProject{}
	record, err := usecase.NewWorkflow(project).Run(context.Background(), model.CommandRelease, model.Options{})
	gt.NoError(t, err)
	gt.Value(t, project.calls).Equal([]string{"release", "sync", "commit"})
	gt.Value(t, project.commitMsg).Equal("repo: Release `1.2.0`")

	notice, err := usecase.CompletionNotice(model.CommandRelease, record)
	gt.NoError(t, err)
	gt.Value(t, notice).Equal("Release created (1.2.0): 2026-10-14")
}

func TestWorkflow_Run_Publish(t *testing.T) {
	flagSets := []model.Options{
		{},
		{SkipSync: true},
		{SkipCommit: true},
		{SkipSync: true, SkipCommit: true},
	}

	for _, opts := range flagSets {
		opts.Publish = model.PublishOptions{Assets: "a.tar", Commitish: "deadbeef", Latest: true}
		project := &MockProject{}
		rec := &recorder{}

		record, err := usecase.NewWorkflow(project, usecase.WithNotifier(rec)).Run(context.Background(), model.CommandPublish, opts)
		gt.NoError(t, err)

		gt.Value(t, project.calls).Equal([]string{"publish"})
		gt.Value(t, record.Kinds()).Equal([]model.OperationKind{model.OperationPublish})
		gt.Value(t, project.publishOpts).Equal(opts.Publish)

		published, ok := record.Publish()
		gt.Value(t, ok).Equal(true)
		gt.Value(t, published.TagName).Equal("v2.0.0")
		gt.Value(t, published.Commitish).Equal("deadbeef")

		notice, err := usecase.CompletionNotice(model.CommandPublish, record)
		gt.NoError(t, err)
		gt.Value(t, notice).Equal("Repo published")

		gt.Array(t, rec.notifications).Length(1)
		gt.String(t, rec.notifications[0].Message).Contains("v2.0.0")
	}
}

func TestWorkflow_Run_TerminalErrors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     model.Command
		project *MockProject
		target  error
		calls   []string
	}{
		{
			name: "release error",
			cmd:  model.CommandRelease,
			project: &MockProject{
				releaseFunc: func(ctx context.Context) (*model.ReleaseResult, error) {
					return nil, goerr.Wrap(types.ErrRelease, "no pending changes")
				},
			},
			target: types.ErrRelease,
			calls:  []string{"release"},
		},
		{
			name: "dev error",
			cmd:  model.CommandDev,
			project: &MockProject{
				devFunc: func(ctx context.Context, patch bool) (*model.DevResult, error) {
					return nil, goerr.Wrap(types.ErrDev, "already dev")
				},
			},
			target: types.ErrDev,
			calls:  []string{"dev"},
		},
		{
			name: "tag exists error",
			cmd:  model.CommandPublish,
			project: &MockProject{
				publishFunc: func(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error) {
					return nil, goerr.Wrap(types.ErrTagExists, "release exists")
				},
			},
			target: types.ErrTagExists,
			calls:  []string{"publish"},
		},
		{
			name: "tag error",
			cmd:  model.CommandPublish,
			project: &MockProject{
				publishFunc: func(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error) {
					return nil, goerr.Wrap(types.ErrTag, "invalid tag")
				},
			},
			target: types.ErrTag,
			calls:  []string{"publish"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			record, err := usecase.NewWorkflow(tt.project, usecase.WithNotifier(rec)).Run(context.Background(), tt.cmd, model.Options{})
			gt.Error(t, err).Is(tt.target)
			gt.Value(t, types.IsTerminal(err)).Equal(true)
			gt.Value(t, record).Nil()
			gt.Value(t, tt.project.calls).Equal(tt.calls)
			gt.Array(t, rec.notifications).Length(0)
		})
	}
}

func TestWorkflow_Run_SyncFailsAfterDev(t *testing.T) {
	project := &MockProject{
		syncFunc: func(ctx context.Context) (*model.SyncResult, error) {
			return nil, errors.New("connection reset")
		},
	}

	record, err := usecase.NewWorkflow(project).Run(context.Background(), model.CommandDev, model.Options{})
	gt.Error(t, err)
	gt.Value(t, types.IsTerminal(err)).Equal(false)
	gt.Value(t, record).Nil()
	gt.Value(t, project.calls).Equal([]string{"dev", "sync"})
}

func TestWorkflow_Run_CommitFailure(t *testing.T) {
	project := &MockProject{
		staged:    []string{"VERSION.txt"},
		commitErr: errors.New("index locked"),
	}
	rec := &recorder{}

	record, err := usecase.NewWorkflow(project, usecase.WithNotifier(rec)).Run(context.Background(), model.CommandSync, model.Options{})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to commit")
	gt.Value(t, record).Nil()

	for _, line := range rec.lines() {
		gt.String(t, line).NotContains("[git] commit")
	}
}

func TestWorkflow_Run_UnknownCommand(t *testing.T) {
	project := &MockProject{}
	_, err := usecase.NewWorkflow(project).Run(context.Background(), model.Command("deploy"), model.Options{})
	gt.Error(t, err)
	gt.Array(t, project.calls).Length(0)
}

type panicNotifier struct{}

func (panicNotifier) Notify(context.Context, model.Notification) {
	panic("boom")
}

func TestNotifiers_RecoversPanic(t *testing.T) {
	rec := &recorder{}
	ns := usecase.Notifiers{panicNotifier{}, rec}
	ns.Notify(context.Background(), model.Notification{Message: "Repo synced"})
	gt.Value(t, rec.lines()).Equal([]string{"Repo synced"})
}
