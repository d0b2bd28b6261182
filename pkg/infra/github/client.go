package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

const (
	defaultPerPage = 100
	defaultTimeout = 30 * time.Second
)

// config holds internal GitHub client configuration
type config struct {
	baseURL        string
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	httpClient     *http.Client
	timeout        time.Duration
	perPage        int
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL sets the REST API root, e.g. https://ghe.example.com/api/v3/
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithToken authenticates with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithAppAuth authenticates as a GitHub App installation
func WithAppAuth(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of each API request
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithPerPage sets the page size used for listing
func WithPerPage(n int) Option {
	return func(c *config) {
		c.perPage = n
	}
}

type client struct {
	githubClient *github.Client
	org          string
	perPage      int
}

// NewClient creates a GitHub client that lists repositories, releases and
// tags of org. Without WithToken or WithAppAuth requests are anonymous.
func NewClient(org string, opts ...Option) (interfaces.GitHubClient, error) {
	if org == "" {
		return nil, goerr.New("organization is required", goerr.T(types.ErrTagConfig))
	}

	cfg := &config{
		timeout: defaultTimeout,
		perPage: defaultPerPage,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.token != "" && cfg.appID != 0 {
		return nil, goerr.New("token and GitHub App authentication are mutually exclusive", goerr.T(types.ErrTagConfig))
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	if cfg.appID != 0 {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}

		// Create GitHub App transport
		itr, err := ghinstallation.New(base, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.T(types.ErrTagConfig),
				goerr.V("app_id", cfg.appID),
				goerr.V("installation_id", cfg.installationID),
			)
		}
		if cfg.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
		}
		httpClient = &http.Client{Transport: itr, Timeout: httpClient.Timeout}
	}

	githubClient := github.NewClient(httpClient)
	githubClient.UserAgent = types.ServiceName + "/" + types.Version
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		baseURL := cfg.baseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL",
				goerr.T(types.ErrTagConfig),
				goerr.V("base_url", cfg.baseURL),
			)
		}
		githubClient.BaseURL = u
	}

	perPage := cfg.perPage
	if perPage <= 0 || perPage > defaultPerPage {
		perPage = defaultPerPage
	}

	return &client{
		githubClient: githubClient,
		org:          org,
		perPage:      perPage,
	}, nil
}

// ListRepositories lists all repositories of the organization
func (c *client) ListRepositories(ctx context.Context) ([]*model.Repository, error) {
	opt := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var repos []*model.Repository
	for {
		page, resp, err := c.githubClient.Repositories.ListByOrg(ctx, c.org, opt)
		if err != nil {
			return nil, wrapAPIError(err, "failed to list repositories",
				goerr.V("org", c.org),
				goerr.V("page", opt.Page),
			)
		}

		for _, r := range page {
			repos = append(repos, toRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return repos, nil
}

// ListReleases lists all releases of a repository
func (c *client) ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error) {
	opt := &github.ListOptions{PerPage: c.perPage}

	var releases []*model.Release
	for {
		page, resp, err := c.githubClient.Repositories.ListReleases(ctx, c.org, string(repo), opt)
		if err != nil {
			return nil, wrapAPIError(err, "failed to list releases",
				goerr.V("org", c.org),
				goerr.V("repo", repo),
				goerr.V("page", opt.Page),
			)
		}

		for _, r := range page {
			releases = append(releases, toRelease(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return releases, nil
}

// ListTags lists all tags of a repository
func (c *client) ListTags(ctx context.Context, repo types.RepoName) ([]*model.Tag, error) {
	opt := &github.ListOptions{PerPage: c.perPage}

	var tags []*model.Tag
	for {
		page, resp, err := c.githubClient.Repositories.ListTags(ctx, c.org, string(repo), opt)
		if err != nil {
			return nil, wrapAPIError(err, "failed to list tags",
				goerr.V("org", c.org),
				goerr.V("repo", repo),
				goerr.V("page", opt.Page),
			)
		}

		for _, t := range page {
			tags = append(tags, toTag(t))
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return tags, nil
}

func wrapAPIError(err error, msg string, opts ...goerr.Option) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		opts = append(opts, goerr.V("rate_limit_reset", rateErr.Rate.Reset.Time))
	}
	return goerr.Wrap(err, msg, opts...)
}

func toRepository(r *github.Repository) *model.Repository {
	repo := &model.Repository{
		ID:          types.RepoID(r.GetID()),
		Name:        types.RepoName(r.GetName()),
		FullName:    r.GetFullName(),
		Description: r.Description,
		Language:    r.Language,
		HTMLURL:     r.GetHTMLURL(),
	}
	if r.CreatedAt != nil {
		created := r.CreatedAt.Time
		repo.CreatedAt = &created
	}
	return repo
}

func toRelease(r *github.RepositoryRelease) *model.Release {
	release := &model.Release{
		ID:         types.ReleaseID(r.GetID()),
		TagName:    types.TagName(r.GetTagName()),
		Name:       r.Name,
		Body:       r.GetBody(),
		HTMLURL:    r.GetHTMLURL(),
		Prerelease: r.GetPrerelease(),
	}
	if r.PublishedAt != nil {
		published := r.PublishedAt.Time
		release.PublishedAt = &published
	}
	return release
}

func toTag(t *github.RepositoryTag) *model.Tag {
	return &model.Tag{
		Name:      types.TagName(t.GetName()),
		CommitSHA: types.CommitSHA(t.GetCommit().GetSHA()),
		CommitURL: t.GetCommit().GetURL(),
	}
}
