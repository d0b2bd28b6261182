package interfaces

import (
	"context"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// GitHubClient supplies the current state of the watched organization.
// Pagination and rate limiting are handled by the implementation; every list
// is complete and in API order.
type GitHubClient interface {
	// ListRepositories lists all repositories of the organization
	ListRepositories(ctx context.Context) ([]*model.Repository, error)

	// ListReleases lists all releases of a repository
	ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error)

	// ListTags lists all tags of a repository
	ListTags(ctx context.Context, repo types.RepoName) ([]*model.Tag, error)
}
