package model

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
)

// Command is the operation requested for a run
type Command string

const (
	CommandSync    Command = "sync"
	CommandDev     Command = "dev"
	CommandRelease Command = "release"
	CommandPublish Command = "publish"
)

// Commands lists every accepted command in help order
var Commands = []Command{CommandSync, CommandRelease, CommandDev, CommandPublish}

// ParseCommand converts a command name into a Command
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", goerr.New("unknown command", goerr.V("command", s))
}

// CommitSkipped reports whether the commit step is skipped for this command.
// Publish never commits.
func (c Command) CommitSkipped(opts Options) bool {
	return c == CommandPublish || opts.SkipCommit
}

// OperationKind identifies a sub-operation and its key in a ChangeRecord
type OperationKind string

const (
	OperationDev     OperationKind = "dev"
	OperationRelease OperationKind = "release"
	OperationSync    OperationKind = "sync"
	OperationPublish OperationKind = "publish"
)

// exclusive reports whether at most one operation of this group may appear in a record
func (k OperationKind) exclusive() bool {
	return k == OperationDev || k == OperationRelease || k == OperationPublish
}

// SubResult is the result of a single sub-operation. It is implemented only
// by DevResult, ReleaseResult, SyncResult and PublishResult.
type SubResult interface {
	Kind() OperationKind
	subResult()
}

// DevResult is returned when the project is bumped to a dev version
type DevResult struct {
	Version    string `json:"version"`
	OldVersion string `json:"old_version"`
}

func (*DevResult) Kind() OperationKind { return OperationDev }
func (*DevResult) subResult()          {}

// ReleaseResult is returned when a release is cut
type ReleaseResult struct {
	Version string `json:"version"`
	Date    string `json:"date"`
}

func (*ReleaseResult) Kind() OperationKind { return OperationRelease }
func (*ReleaseResult) subResult()          {}

// VersionFlag is one entry of an ordered version -> bool mapping
type VersionFlag struct {
	Version string `json:"version"`
	OK      bool   `json:"ok"`
}

// VersionFlags is an ordered version -> bool mapping. Order is defined by the
// producer, typically ascending version order.
type VersionFlags []VersionFlag

// SyncResult is returned when changelog and inventory metadata is synchronized
type SyncResult struct {
	Changelog VersionFlags `json:"changelog"`
	Inventory VersionFlags `json:"inventory"`
}

func (*SyncResult) Kind() OperationKind { return OperationSync }
func (*SyncResult) subResult()          {}

// PublishResult is returned when a release is published to the hosting platform
type PublishResult struct {
	TagName   string `json:"tag_name"`
	Commitish string `json:"commitish"`
	URL       string `json:"url"`
}

func (*PublishResult) Kind() OperationKind { return OperationPublish }
func (*PublishResult) subResult()          {}

// ChangeRecord aggregates the sub results of a run in insertion order. Keys are
// only ever added: at most one of dev, release and publish is present, and
// sync never co-occurs with publish.
type ChangeRecord struct {
	results []SubResult
}

// NewChangeRecord returns an empty record
func NewChangeRecord() *ChangeRecord {
	return &ChangeRecord{}
}

// Add appends a sub result. It fails if the key is already present or if the
// result would break the exclusivity rules of the record.
func (r *ChangeRecord) Add(result SubResult) error {
	if result == nil {
		return goerr.New("nil sub result")
	}
	kind := result.Kind()
	for _, existing := range r.results {
		if existing.Kind() == kind {
			return goerr.New("sub result already recorded", goerr.V("kind", kind))
		}
		if kind.exclusive() && existing.Kind().exclusive() {
			return goerr.New("exclusive sub results in one record",
				goerr.V("kind", kind),
				goerr.V("existing", existing.Kind()),
			)
		}
		if (kind == OperationSync && existing.Kind() == OperationPublish) ||
			(kind == OperationPublish && existing.Kind() == OperationSync) {
			return goerr.New("sync and publish in one record", goerr.V("kind", kind))
		}
	}
	r.results = append(r.results, result)
	return nil
}

// Kinds returns the recorded keys in insertion order
func (r *ChangeRecord) Kinds() []OperationKind {
	kinds := make([]OperationKind, 0, len(r.results))
	for _, res := range r.results {
		kinds = append(kinds, res.Kind())
	}
	return kinds
}

// Len returns the number of recorded sub results
func (r *ChangeRecord) Len() int {
	return len(r.results)
}

// Has reports whether a sub result of the kind is recorded
func (r *ChangeRecord) Has(kind OperationKind) bool {
	return r.get(kind) != nil
}

func (r *ChangeRecord) get(kind OperationKind) SubResult {
	for _, res := range r.results {
		if res.Kind() == kind {
			return res
		}
	}
	return nil
}

// Dev returns the dev result if recorded
func (r *ChangeRecord) Dev() (*DevResult, bool) {
	res, ok := r.get(OperationDev).(*DevResult)
	return res, ok
}

// Release returns the release result if recorded
func (r *ChangeRecord) Release() (*ReleaseResult, bool) {
	res, ok := r.get(OperationRelease).(*ReleaseResult)
	return res, ok
}

// Sync returns the sync result if recorded
func (r *ChangeRecord) Sync() (*SyncResult, bool) {
	res, ok := r.get(OperationSync).(*SyncResult)
	return res, ok
}

// Publish returns the publish result if recorded
func (r *ChangeRecord) Publish() (*PublishResult, bool) {
	res, ok := r.get(OperationPublish).(*PublishResult)
	return res, ok
}

// LogValue implements slog.LogValuer
func (r *ChangeRecord) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(r.results))
	for _, res := range r.results {
		attrs = append(attrs, slog.Any(string(res.Kind()), res))
	}
	return slog.GroupValue(attrs...)
}
