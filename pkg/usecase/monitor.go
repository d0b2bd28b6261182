package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	"github.com/m-mizutani/orgwatch/pkg/utils/errutil"
	"golang.org/x/sync/errgroup"
)

// monitorConfig holds optional monitor settings
type monitorConfig struct {
	org         string
	keywords    []string
	notesLimit  int
	concurrency int
	now         func() time.Time
}

// MonitorOption is a functional option for the monitor use case
type MonitorOption func(*monitorConfig)

// WithOrganization sets the organization name used in notifications
func WithOrganization(org string) MonitorOption {
	return func(c *monitorConfig) {
		c.org = org
	}
}

// WithHighlightKeywords sets keywords that mark a release or tag as special
func WithHighlightKeywords(keywords []string) MonitorOption {
	return func(c *monitorConfig) {
		c.keywords = keywords
	}
}

// WithNotesLimit sets the number of characters of release notes kept in a notification
func WithNotesLimit(limit int) MonitorOption {
	return func(c *monitorConfig) {
		c.notesLimit = limit
	}
}

// WithConcurrency sets how many repositories are fetched in parallel
func WithConcurrency(n int) MonitorOption {
	return func(c *monitorConfig) {
		c.concurrency = n
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) MonitorOption {
	return func(c *monitorConfig) {
		c.now = now
	}
}

type monitorUseCase struct {
	githubClient interfaces.GitHubClient
	notifier     interfaces.Notifier
	store        interfaces.SnapshotStore

	org         string
	format      *formatter
	concurrency int
	now         func() time.Time

	passMutex sync.Mutex

	lastMutex sync.RWMutex
	last      *model.PassResult
}

// NewMonitor creates a new instance of MonitorUseCase
func NewMonitor(
	githubClient interfaces.GitHubClient,
	notifier interfaces.Notifier,
	store interfaces.SnapshotStore,
	opts ...MonitorOption,
) interfaces.MonitorUseCase {
	cfg := &monitorConfig{
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}

	return &monitorUseCase{
		githubClient: githubClient,
		notifier:     notifier,
		store:        store,
		org:          cfg.org,
		format:       newFormatter(cfg.org, cfg.keywords, cfg.notesLimit),
		concurrency:  cfg.concurrency,
		now:          cfg.now,
	}
}

// LastPass returns the result of the most recent pass
func (uc *monitorUseCase) LastPass() *model.PassResult {
	uc.lastMutex.RLock()
	defer uc.lastMutex.RUnlock()
	return uc.last
}

func (uc *monitorUseCase) finish(result *model.PassResult) {
	result.FinishedAt = uc.now()

	uc.lastMutex.Lock()
	defer uc.lastMutex.Unlock()
	uc.last = result
}

// RunPass lists the organization, notifies every newly observed repository,
// release and tag, and persists the updated snapshot once at the end.
//
// A listing failure aborts the pass before anything is notified or written.
// A fetch failure of one repository only skips that repository. Notification
// failures are logged and never affect the snapshot. A persist failure is
// returned and leaves the previous snapshot in place.
func (uc *monitorUseCase) RunPass(ctx context.Context) (*model.PassResult, error) {
	uc.passMutex.Lock()
	defer uc.passMutex.Unlock()

	result := model.NewPassResult(uuid.NewString(), uc.now())
	defer uc.finish(result)

	logger := ctxlog.From(ctx).With("pass_id", result.ID)
	ctx = ctxlog.With(ctx, logger)
	logger.Info("Starting monitoring pass", "org", uc.org)

	snapshot := uc.store.Load(ctx)

	repos, err := uc.githubClient.ListRepositories(ctx)
	if err != nil {
		return result, goerr.Wrap(err, "failed to list repositories",
			goerr.T(types.ErrTagListing),
			goerr.V("org", uc.org),
		)
	}
	result.Repositories = len(repos)
	logger.Info("Found repositories", "count", len(repos))

	for _, repo := range DetectNewRepositories(repos, snapshot) {
		logger.Info("New repository detected", "repo", repo.Name)
		uc.notify(ctx, result, uc.format.newRepository(repo))
	}
	snapshot.ReplaceRepos(repos)

	fetched := uc.fetchAll(ctx, repos)
	for i, repo := range repos {
		if repo == nil {
			continue
		}
		f := fetched[i]
		if f.err != nil {
			result.RepoErrors = append(result.RepoErrors, f.err)
			errutil.Handle(ctx, "Skipped repository for this pass", f.err.Err)
			continue
		}
		uc.reconcileRepo(ctx, result, snapshot, repo.Name, f.releases, f.tags)
	}

	if err := uc.store.Save(ctx, snapshot); err != nil {
		return result, goerr.Wrap(err, "failed to persist snapshot",
			goerr.T(types.ErrTagPersist),
			goerr.V("pass_id", result.ID),
		)
	}
	result.Persisted = true

	logger.Info("Monitoring pass completed",
		"repositories", result.Repositories,
		"new_repositories", result.Detected[types.NotifyNewRepository],
		"new_releases", result.Detected[types.NotifyNewRelease],
		"new_tags", result.Detected[types.NotifyNewTag],
		"suppressed_tags", result.Suppressed,
		"notify_failed", result.NotifyFailed,
		"repo_errors", len(result.RepoErrors),
	)

	return result, nil
}

type repoFetch struct {
	releases []*model.Release
	tags     []*model.Tag
	err      *model.RepoError
}

// fetchAll fetches releases and tags of every repository with bounded
// parallelism. Results are indexed like repos so that they can be applied in
// fetch order afterwards.
func (uc *monitorUseCase) fetchAll(ctx context.Context, repos []*model.Repository) []repoFetch {
	results := make([]repoFetch, len(repos))

	var eg errgroup.Group
	eg.SetLimit(uc.concurrency)
	for i, repo := range repos {
		if repo == nil {
			continue
		}
		eg.Go(func() error {
			results[i] = uc.fetchRepo(ctx, repo.Name)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (uc *monitorUseCase) fetchRepo(ctx context.Context, name types.RepoName) repoFetch {
	ctxlog.From(ctx).Debug("Checking repository", "repo", name)

	releases, err := uc.githubClient.ListReleases(ctx, name)
	if err != nil {
		return repoFetch{err: &model.RepoError{
			Repo: name,
			Op:   model.RepoOpListReleases,
			Err: goerr.Wrap(err, "failed to list releases",
				goerr.T(types.ErrTagRepoFetch),
				goerr.V("repo", name),
			),
		}}
	}

	tags, err := uc.githubClient.ListTags(ctx, name)
	if err != nil {
		return repoFetch{err: &model.RepoError{
			Repo: name,
			Op:   model.RepoOpListTags,
			Err: goerr.Wrap(err, "failed to list tags",
				goerr.T(types.ErrTagRepoFetch),
				goerr.V("repo", name),
			),
		}}
	}

	return repoFetch{releases: releases, tags: tags}
}

// reconcileRepo notifies new releases and uncovered new tags of one
// repository and replaces its collections in the snapshot.
func (uc *monitorUseCase) reconcileRepo(
	ctx context.Context,
	result *model.PassResult,
	snapshot *model.Snapshot,
	name types.RepoName,
	releases []*model.Release,
	tags []*model.Tag,
) {
	logger := ctxlog.From(ctx)

	knownReleases := snapshot.ReleasesOf(name)
	newReleases := DetectNewReleases(name, releases, snapshot)
	for _, release := range newReleases {
		logger.Info("New release detected", "repo", name, "tag", release.TagName)
		uc.notify(ctx, result, uc.format.newRelease(name, release))
	}
	snapshot.ReplaceReleases(name, releases)

	newTags := DetectNewTags(name, tags, snapshot)
	uncovered := FilterTagsCoveredByReleases(newTags, knownReleases, newReleases)
	result.Suppressed += len(newTags) - len(uncovered)
	for _, tag := range uncovered {
		logger.Info("New tag detected", "repo", name, "tag", tag.Name)
		uc.notify(ctx, result, uc.format.newTag(name, tag))
	}
	snapshot.ReplaceTags(name, tags)
}

func (uc *monitorUseCase) notify(ctx context.Context, result *model.PassResult, n *model.Notification) {
	result.Detected[n.Kind]++

	if err := uc.notifier.Notify(ctx, n); err != nil {
		result.NotifyFailed++
		errutil.Handle(ctx, "Failed to send notification", goerr.Wrap(err, "notification delivery failed",
			goerr.T(types.ErrTagNotify),
			goerr.V("kind", n.Kind),
			goerr.V("repo", n.Repo),
			goerr.V("title", n.Title),
		))
		return
	}

	result.Notified[n.Kind]++
}
