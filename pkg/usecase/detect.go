package usecase

import (
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// The detection functions below are pure: they never mutate the snapshot and
// keep the relative order of their input. Nil records are skipped.

// DetectNewRepositories returns repositories whose name is not in the
// snapshot. Names are compared, not IDs, so a repository that was renamed is
// reported as new.
func DetectNewRepositories(current []*model.Repository, snapshot *model.Snapshot) []*model.Repository {
	known := snapshot.KnownRepoNames()

	var found []*model.Repository
	for _, repo := range current {
		if repo == nil {
			continue
		}
		if _, ok := known[repo.Name]; !ok {
			found = append(found, repo)
		}
	}
	return found
}

// DetectNewReleases returns releases of repo whose ID is not recorded in the
// snapshot.
func DetectNewReleases(repo types.RepoName, current []*model.Release, snapshot *model.Snapshot) []*model.Release {
	known := make(map[types.ReleaseID]struct{})
	for _, r := range snapshot.ReleasesOf(repo) {
		known[r.ID] = struct{}{}
	}

	var found []*model.Release
	for _, release := range current {
		if release == nil {
			continue
		}
		if _, ok := known[release.ID]; !ok {
			found = append(found, release)
		}
	}
	return found
}

// DetectNewTags returns tags of repo whose name is not recorded in the
// snapshot.
func DetectNewTags(repo types.RepoName, current []*model.Tag, snapshot *model.Snapshot) []*model.Tag {
	known := make(map[types.TagName]struct{})
	for _, t := range snapshot.TagsOf(repo) {
		known[t.Name] = struct{}{}
	}

	var found []*model.Tag
	for _, tag := range current {
		if tag == nil {
			continue
		}
		if _, ok := known[tag.Name]; !ok {
			found = append(found, tag)
		}
	}
	return found
}

// FilterTagsCoveredByReleases drops tags that a release already reports.
// Publishing a release creates its tag implicitly, so a tag whose name equals
// the tag_name of a previously known release or of a release detected in the
// same pass is covered. Names must match exactly.
func FilterTagsCoveredByReleases(newTags []*model.Tag, known []model.ReleaseRef, detected []*model.Release) []*model.Tag {
	covered := make(map[types.TagName]struct{}, len(known)+len(detected))
	for _, r := range known {
		if r.TagName != "" {
			covered[r.TagName] = struct{}{}
		}
	}
	for _, r := range detected {
		if r != nil && r.TagName != "" {
			covered[r.TagName] = struct{}{}
		}
	}

	var remaining []*model.Tag
	for _, tag := range newTags {
		if tag == nil {
			continue
		}
		if _, ok := covered[tag.Name]; !ok {
			remaining = append(remaining, tag)
		}
	}
	return remaining
}
