package model

import (
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// RepoRef is the identity of a known repository.
type RepoRef struct {
	Name types.RepoName `json:"name"`
	ID   types.RepoID   `json:"id"`
}

// ReleaseRef is the summary of a known release.
type ReleaseRef struct {
	ID      types.ReleaseID `json:"id"`
	TagName types.TagName   `json:"tag_name"`
}

// TagRef is the summary of a known tag.
type TagRef struct {
	Name   types.TagName   `json:"name"`
	Commit types.CommitSHA `json:"commit"`
}

// Snapshot is the persisted baseline that each pass diffs against. A
// repository with no releases or no tags is recorded with an empty list, never
// with a missing key. Entries of repositories that disappeared from the
// organization are kept.
type Snapshot struct {
	Repos    []RepoRef                       `json:"repos"`
	Releases map[types.RepoName][]ReleaseRef `json:"releases"`
	Tags     map[types.RepoName][]TagRef     `json:"tags"`
}

// NewSnapshot returns an empty snapshot, used on first run.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Repos:    []RepoRef{},
		Releases: map[types.RepoName][]ReleaseRef{},
		Tags:     map[types.RepoName][]TagRef{},
	}
}

// Normalize replaces nil collections with empty ones so that a decoded
// document with `null` values or missing sections behaves like an empty one.
func (x *Snapshot) Normalize() {
	if x.Repos == nil {
		x.Repos = []RepoRef{}
	}
	if x.Releases == nil {
		x.Releases = map[types.RepoName][]ReleaseRef{}
	}
	if x.Tags == nil {
		x.Tags = map[types.RepoName][]TagRef{}
	}
	for name, list := range x.Releases {
		if list == nil {
			x.Releases[name] = []ReleaseRef{}
		}
	}
	for name, list := range x.Tags {
		if list == nil {
			x.Tags[name] = []TagRef{}
		}
	}
}

// KnownRepoNames returns the set of repository names in the snapshot.
func (x *Snapshot) KnownRepoNames() map[types.RepoName]struct{} {
	known := make(map[types.RepoName]struct{}, len(x.Repos))
	for _, r := range x.Repos {
		known[r.Name] = struct{}{}
	}
	return known
}

// ReleasesOf returns the known releases of a repository, nil if the
// repository has never been processed.
func (x *Snapshot) ReleasesOf(name types.RepoName) []ReleaseRef {
	return x.Releases[name]
}

// TagsOf returns the known tags of a repository, nil if the repository has
// never been processed.
func (x *Snapshot) TagsOf(name types.RepoName) []TagRef {
	return x.Tags[name]
}

// ReplaceRepos overwrites the repository identity collection.
func (x *Snapshot) ReplaceRepos(repos []*Repository) {
	refs := make([]RepoRef, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		refs = append(refs, RepoRef{Name: r.Name, ID: r.ID})
	}
	x.Repos = refs
}

// ReplaceReleases overwrites the release collection of a repository. An empty
// input is recorded as an empty list.
func (x *Snapshot) ReplaceReleases(name types.RepoName, releases []*Release) {
	refs := make([]ReleaseRef, 0, len(releases))
	for _, r := range releases {
		if r == nil {
			continue
		}
		refs = append(refs, ReleaseRef{ID: r.ID, TagName: r.TagName})
	}
	if x.Releases == nil {
		x.Releases = map[types.RepoName][]ReleaseRef{}
	}
	x.Releases[name] = refs
}

// ReplaceTags overwrites the tag collection of a repository. An empty input is
// recorded as an empty list.
func (x *Snapshot) ReplaceTags(name types.RepoName, tags []*Tag) {
	refs := make([]TagRef, 0, len(tags))
	for _, t := range tags {
		if t == nil {
			continue
		}
		refs = append(refs, TagRef{Name: t.Name, Commit: t.CommitSHA})
	}
	if x.Tags == nil {
		x.Tags = map[types.RepoName][]TagRef{}
	}
	x.Tags[name] = refs
}
