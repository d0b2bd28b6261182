package model

import (
	"time"

	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// RepoOp names the per-repository step that failed.
type RepoOp string

const (
	RepoOpListReleases RepoOp = "list_releases"
	RepoOpListTags     RepoOp = "list_tags"
)

// RepoError is a repository scoped fetch failure. The repository's releases
// and tags were left untouched for the pass.
type RepoError struct {
	Repo types.RepoName
	Op   RepoOp
	Err  error
}

func (x *RepoError) Error() string {
	return string(x.Repo) + ": " + string(x.Op) + ": " + x.Err.Error()
}

func (x *RepoError) Unwrap() error { return x.Err }

// PassResult summarizes one monitoring pass.
type PassResult struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	Repositories int
	Detected     map[types.NotificationKind]int
	Notified     map[types.NotificationKind]int
	NotifyFailed int
	Suppressed   int // tags covered by a release
	RepoErrors   []*RepoError
	Persisted    bool
}

// NewPassResult returns a result with initialized counters.
func NewPassResult(id string, startedAt time.Time) *PassResult {
	return &PassResult{
		ID:        id,
		StartedAt: startedAt,
		Detected:  map[types.NotificationKind]int{},
		Notified:  map[types.NotificationKind]int{},
	}
}

// PassSummary is the JSON view of the last pass exposed by the health endpoint.
type PassSummary struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Repositories int       `json:"repositories"`
	NewRepos     int       `json:"new_repositories"`
	NewReleases  int       `json:"new_releases"`
	NewTags      int       `json:"new_tags"`
	RepoErrors   int       `json:"repo_errors"`
	Persisted    bool      `json:"persisted"`
}

// Summary converts the result into its JSON view.
func (x *PassResult) Summary() *PassSummary {
	return &PassSummary{
		ID:           x.ID,
		StartedAt:    x.StartedAt,
		FinishedAt:   x.FinishedAt,
		Repositories: x.Repositories,
		NewRepos:     x.Detected[types.NotifyNewRepository],
		NewReleases:  x.Detected[types.NotifyNewRelease],
		NewTags:      x.Detected[types.NotifyNewTag],
		RepoErrors:   len(x.RepoErrors),
		Persisted:    x.Persisted,
	}
}
