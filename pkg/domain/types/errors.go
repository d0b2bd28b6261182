package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagListing marks a failure to list the organization's repositories.
	// It is fatal to the pass: nothing is notified and nothing is persisted.
	ErrTagListing = goerr.NewTag("listing")

	// ErrTagRepoFetch marks a release or tag fetch failure scoped to one
	// repository. The repository is skipped for the pass.
	ErrTagRepoFetch = goerr.NewTag("repo_fetch")

	// ErrTagNotify marks a notification delivery failure. Never fatal.
	ErrTagNotify = goerr.NewTag("notify")

	// ErrTagPersist marks a snapshot write failure. The previously persisted
	// snapshot stays authoritative.
	ErrTagPersist = goerr.NewTag("persist")

	// ErrTagConfig marks invalid configuration.
	ErrTagConfig = goerr.NewTag("config")
)
