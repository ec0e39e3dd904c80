package model

// Options holds the flags of a run. They are set once before the workflow
// starts.
type Options struct {
	SkipSync   bool
	SkipCommit bool
	Patch      bool // only meaningful for dev
	Publish    PublishOptions
}

// PublishOptions holds publish specific flags
type PublishOptions struct {
	Assets        string // path to a file or a directory of files to upload
	Commitish     string // commit, branch or tag the release tag points at
	Dev           bool   // allow publishing a dev version as prerelease
	Latest        bool   // mark the release as latest
	GenerateNotes bool   // ask the platform to generate release notes
}
