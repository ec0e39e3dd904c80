package usecase

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/m-mizutani/shipper/pkg/domain/types"
)

type formatter func(record *model.ChangeRecord) (string, error)

// Publish has no commit message because publish never commits
var commitMessages = map[model.Command]formatter{
	model.CommandRelease: func(record *model.ChangeRecord) (string, error) {
		release, ok := record.Release()
		if !ok {
			return "", missingResult(model.CommandRelease, model.OperationRelease)
		}
		return fmt.Sprintf("repo: Release `%s`", release.Version), nil
	},
	model.CommandDev: func(record *model.ChangeRecord) (string, error) {
		dev, ok := record.Dev()
		if !ok {
			return "", missingResult(model.CommandDev, model.OperationDev)
		}
		return fmt.Sprintf("repo: Dev `%s`", dev.Version), nil
	},
	model.CommandSync: func(*model.ChangeRecord) (string, error) {
		return "repo: Sync", nil
	},
}

var completionNotices = map[model.Command]formatter{
	model.CommandRelease: func(record *model.ChangeRecord) (string, error) {
		release, ok := record.Release()
		if !ok {
			return "", missingResult(model.CommandRelease, model.OperationRelease)
		}
		return fmt.Sprintf("Release created (%s): %s", release.Version, release.Date), nil
	},
	model.CommandDev: func(record *model.ChangeRecord) (string, error) {
		dev, ok := record.Dev()
		if !ok {
			return "", missingResult(model.CommandDev, model.OperationDev)
		}
		return fmt.Sprintf("Repo set to dev (%s)", dev.Version), nil
	},
	model.CommandSync: func(*model.ChangeRecord) (string, error) {
		return "Repo synced", nil
	},
	model.CommandPublish: func(*model.ChangeRecord) (string, error) {
		return "Repo published", nil
	},
}

func missingResult(cmd model.Command, kind model.OperationKind) error {
	return goerr.Wrap(types.ErrTemplate, "sub result missing from change record",
		goerr.V("command", cmd),
		goerr.V("kind", kind),
	)
}

func render(templates map[model.Command]formatter, cmd model.Command, record *model.ChangeRecord) (string, error) {
	format, ok := templates[cmd]
	if !ok {
		return "", goerr.Wrap(types.ErrTemplate, "no template for command", goerr.V("command", cmd))
	}
	if record == nil {
		return "", goerr.Wrap(types.ErrTemplate, "change record is nil", goerr.V("command", cmd))
	}
	return format(record)
}

// CommitMessage returns the commit message for a run of cmd
func CommitMessage(cmd model.Command, record *model.ChangeRecord) (string, error) {
	return render(commitMessages, cmd, record)
}

// CompletionNotice returns the notice emitted once a run of cmd completed
func CompletionNotice(cmd model.Command, record *model.ChangeRecord) (string, error) {
	return render(completionNotices, cmd, record)
}

// DescribeSync returns the changelog and inventory notifications for a sync
// result, each in the order of the result entries
func DescribeSync(result *model.SyncResult) (changelog, inventory []model.Notification) {
	if len(result.Changelog) == 0 {
		changelog = append(changelog, success("changelog", "up to date"))
	}
	for _, entry := range result.Changelog {
		changelog = append(changelog, success("changelog", "add: "+entry.Version))
	}

	if len(result.Inventory) == 0 {
		inventory = append(inventory, success("inventory", "up to date"))
	}
	for _, entry := range result.Inventory {
		if entry.OK {
			inventory = append(inventory, success("inventory",
				fmt.Sprintf("update: %s -> %s", model.MinorVersion(entry.Version), entry.Version)))
		} else {
			inventory = append(inventory, model.Notification{
				Level:   model.LevelWarning,
				Topic:   "inventory",
				Message: fmt.Sprintf("newer version available (%s), but no inventory found", entry.Version),
			})
		}
	}
	return changelog, inventory
}

// DescribeDev returns the notification for a dev result
func DescribeDev(result *model.DevResult) model.Notification {
	return success("version", result.Version)
}

// DescribeRelease returns the notification for a release result
func DescribeRelease(result *model.ReleaseResult) model.Notification {
	return success("version", fmt.Sprintf("%s (changelog: %s)", result.Version, result.Date))
}

// DescribePublish returns the notification for a publish result
func DescribePublish(result *model.PublishResult) model.Notification {
	return success("release", fmt.Sprintf("Release (%s) created from branch/commit: %s\n    %s",
		result.TagName, result.Commitish, result.URL))
}

func success(topic, msg string) model.Notification {
	return model.Notification{Level: model.LevelSuccess, Topic: topic, Message: msg}
}
