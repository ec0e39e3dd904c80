package types

import "errors"

var (
	// ErrDev is raised when the project cannot move to a next dev version
	ErrDev = errors.New("dev error")

	// ErrRelease is raised when the project cannot finalize a release
	ErrRelease = errors.New("release error")

	// ErrTag is raised when the hosting platform rejects a release tag
	ErrTag = errors.New("tag error")

	// ErrTagExists is raised when the requested release tag already exists
	ErrTagExists = errors.New("tag exists error")

	// ErrTemplate is raised when a message template cannot be rendered for a change record
	ErrTemplate = errors.New("template error")
)

var terminalErrors = []struct {
	err  error
	kind string
}{
	{ErrDev, "DevError"},
	{ErrRelease, "ReleaseError"},
	{ErrTagExists, "TagExistsError"},
	{ErrTag, "TagError"},
}

// Kind returns the name of the terminal error kind found in err's chain, or an
// empty string if err is not one of them.
func Kind(err error) string {
	for _, t := range terminalErrors {
		if errors.Is(err, t.err) {
			return t.kind
		}
	}
	return ""
}

// IsTerminal reports whether err ends a run cleanly: DevError, ReleaseError,
// TagError or TagExistsError.
func IsTerminal(err error) bool {
	return Kind(err) != ""
}
