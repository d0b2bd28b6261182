package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	githubinfra "github.com/m-mizutani/orgwatch/pkg/infra/github"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/orgs/example-org/repos", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("per_page")).Equal("2")
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer test-token")

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/example-org/repos?per_page=2&page=2>; rel="next"`, server.URL))
			fmt.Fprint(w, `[
				{"id": 1, "name": "alpha", "full_name": "example-org/alpha", "description": "first", "html_url": "https://github.com/example-org/alpha", "created_at": "2024-01-02T03:04:05Z", "language": "Go"},
				{"id": 2, "name": "beta", "full_name": "example-org/beta"}
			]`)
		case "2":
			fmt.Fprint(w, `[{"id": 3, "name": "gamma"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	mux.HandleFunc("/repos/example-org/alpha/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 10, "tag_name": "v1.0", "name": "First", "body": "notes", "html_url": "https://github.com/example-org/alpha/releases/v1.0", "published_at": "2024-02-01T00:00:00Z"},
			{"id": 11}
		]`)
	})

	mux.HandleFunc("/repos/example-org/alpha/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"name": "v1.0", "commit": {"sha": "0123456789abcdef", "url": "https://api.github.com/repos/example-org/alpha/commits/0123456789abcdef"}},
			{"name": "broken"}
		]`)
	})

	mux.HandleFunc("/repos/example-org/beta/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	})

	mux.HandleFunc("/repos/example-org/broken/tags", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "server error"}`)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_ListRepositories(t *testing.T) {
	server := newTestServer(t)
	client, err := githubinfra.NewClient("example-org",
		githubinfra.WithBaseURL(server.URL),
		githubinfra.WithToken("test-token"),
		githubinfra.WithPerPage(2),
	)
	gt.NoError(t, err)

	repos, err := client.ListRepositories(context.Background())
	gt.NoError(t, err)
	gt.Array(t, repos).Length(3)

	gt.Value(t, repos[0].Name).Equal(types.RepoName("alpha"))
	gt.Value(t, repos[0].ID).Equal(types.RepoID(1))
	gt.Value(t, *repos[0].Description).Equal("first")
	gt.Value(t, *repos[0].Language).Equal("Go")
	gt.Value(t, repos[0].CreatedAt.Year()).Equal(2024)

	gt.Value(t, repos[1].Description).Nil()
	gt.Value(t, repos[1].CreatedAt).Nil()
	gt.Value(t, repos[2].Name).Equal(types.RepoName("gamma"))
}

func TestClient_ListReleasesAndTags(t *testing.T) {
	server := newTestServer(t)
	client, err := githubinfra.NewClient("example-org", githubinfra.WithBaseURL(server.URL+"/"))
	gt.NoError(t, err)
	ctx := context.Background()

	releases, err := client.ListReleases(ctx, "alpha")
	gt.NoError(t, err)
	gt.Array(t, releases).Length(2)
	gt.Value(t, releases[0].TagName).Equal(types.TagName("v1.0"))
	gt.Value(t, *releases[0].Name).Equal("First")
	gt.Value(t, releases[0].PublishedAt.Month().String()).Equal("February")
	gt.Value(t, releases[1].TagName).Equal(types.TagName(""))
	gt.Value(t, releases[1].Name).Nil()

	empty, err := client.ListReleases(ctx, "beta")
	gt.NoError(t, err)
	gt.Array(t, empty).Length(0)

	tags, err := client.ListTags(ctx, "alpha")
	gt.NoError(t, err)
	gt.Array(t, tags).Length(2)
	gt.Value(t, tags[0].CommitSHA).Equal(types.CommitSHA("0123456789abcdef"))
	gt.Value(t, tags[1].CommitSHA).Equal(types.CommitSHA(""))

	_, err = client.ListTags(ctx, "broken")
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to list tags")
	gt.Value(t, goerr.Unwrap(err).Values()["repo"]).Equal(types.RepoName("broken"))
}

func TestNewClient_InvalidConfig(t *testing.T) {
	t.Run("organization is required", func(t *testing.T) {
		_, err := githubinfra.NewClient("")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	})

	t.Run("token and app auth are exclusive", func(t *testing.T) {
		_, err := githubinfra.NewClient("example-org",
			githubinfra.WithToken("t"),
			githubinfra.WithAppAuth(1, 2, []byte("key")),
		)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	})

	t.Run("invalid private key", func(t *testing.T) {
		_, err := githubinfra.NewClient("example-org",
			githubinfra.WithAppAuth(1, 2, []byte("not a pem key")),
		)
		gt.Error(t, err)
	})
}

func TestClient_WithRealAPI(t *testing.T) {
	org := os.Getenv("TEST_GITHUB_ORG")
	if org == "" {
		t.Skip("TEST_GITHUB_ORG is not set")
	}

	var opts []githubinfra.Option
	if token := os.Getenv("TEST_GITHUB_TOKEN"); token != "" {
		opts = append(opts, githubinfra.WithToken(token))
	}
	if perPage, err := strconv.Atoi(os.Getenv("TEST_GITHUB_PER_PAGE")); err == nil {
		opts = append(opts, githubinfra.WithPerPage(perPage))
	}

	client, err := githubinfra.NewClient(org, opts...)
	gt.NoError(t, err)

	repos, err := client.ListRepositories(context.Background())
	gt.NoError(t, err)
	t.Logf("found %d repositories in %s", len(repos), org)
}
