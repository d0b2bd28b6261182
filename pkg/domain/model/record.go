package model

import (
	"time"

	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// Repository is a repository observed in the watched organization. Optional
// metadata is kept as pointers and resolved to placeholders only when a
// notification is rendered.
type Repository struct {
	ID          types.RepoID
	Name        types.RepoName
	FullName    string
	Description *string
	Language    *string
	HTMLURL     string
	CreatedAt   *time.Time
}

// Release is a published (or draft) release of a repository.
type Release struct {
	ID          types.ReleaseID
	TagName     types.TagName // may be empty
	Name        *string
	Body        string
	HTMLURL     string
	PublishedAt *time.Time
	Prerelease  bool
}

// Tag is a git tag of a repository.
type Tag struct {
	Name      types.TagName
	CommitSHA types.CommitSHA
	CommitURL string // commit detail lookup handle, may be empty
}
