package types

// RepoName is the name of a repository within the watched organization. It is
// the sole identity key for repositories: a repository renamed on the hosting
// side is observed as a new one.
type RepoName string

func (x RepoName) String() string { return string(x) }

// RepoID is the numeric identifier assigned by the hosting API.
type RepoID int64

// ReleaseID is the numeric identifier of a release, unique within a repository.
type ReleaseID int64

// TagName is the name of a git tag, unique within a repository.
type TagName string

func (x TagName) String() string { return string(x) }

// CommitSHA is a commit identifier.
type CommitSHA string

// Short returns the first 7 characters of the SHA.
func (x CommitSHA) Short() string {
	if len(x) <= 7 {
		return string(x)
	}
	return string(x[:7])
}

// NotificationKind identifies which kind of change a notification reports.
type NotificationKind string

const (
	NotifyNewRepository NotificationKind = "new_repository"
	NotifyNewRelease    NotificationKind = "new_release"
	NotifyNewTag        NotificationKind = "new_tag"
)
