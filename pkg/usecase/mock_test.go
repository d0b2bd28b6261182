package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// MockGitHubClient is a mock implementation of GitHubClient
type MockGitHubClient struct {
	mu sync.Mutex

	Repos      []*model.Repository
	ListErr    error
	Releases   map[types.RepoName][]*model.Release
	Tags       map[types.RepoName][]*model.Tag
	ReleaseErr map[types.RepoName]error
	TagErr     map[types.RepoName]error

	releaseCalls []types.RepoName
}

func (m *MockGitHubClient) ListRepositories(ctx context.Context) ([]*model.Repository, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Repos, nil
}

func (m *MockGitHubClient) ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error) {
	m.mu.Lock()
	m.releaseCalls = append(m.releaseCalls, repo)
	m.mu.Unlock()

	if err := m.ReleaseErr[repo]; err != nil {
		return nil, err
	}
	return m.Releases[repo], nil
}

func (m *MockGitHubClient) ListTags(ctx context.Context, repo types.RepoName) ([]*model.Tag, error) {
	if err := m.TagErr[repo]; err != nil {
		return nil, err
	}
	return m.Tags[repo], nil
}

// MockNotifier records notifications and optionally fails some kinds
type MockNotifier struct {
	Sent     []*model.Notification
	Attempts int
	FailKind types.NotificationKind
}

func (m *MockNotifier) Notify(ctx context.Context, n *model.Notification) error {
	m.Attempts++
	if m.FailKind != "" && n.Kind == m.FailKind {
		return errors.New("webhook returned 500")
	}
	m.Sent = append(m.Sent, n)
	return nil
}

func (m *MockNotifier) Titles() []string {
	titles := make([]string, 0, len(m.Sent))
	for _, n := range m.Sent {
		titles = append(titles, n.Title)
	}
	return titles
}

func (m *MockNotifier) Count(kind types.NotificationKind) int {
	var n int
	for _, s := range m.Sent {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// MockStore keeps the persisted snapshot as JSON, like a real backend
type MockStore struct {
	t       *testing.T
	data    []byte
	SaveErr error
	Saves   int
}

func (m *MockStore) Load(ctx context.Context) *model.Snapshot {
	if m.data == nil {
		return model.NewSnapshot()
	}
	var snap model.Snapshot
	gt.NoError(m.t, json.Unmarshal(m.data, &snap))
	snap.Normalize()
	return &snap
}

func (m *MockStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	raw, err := json.Marshal(snapshot)
	gt.NoError(m.t, err)
	m.data = raw
	return nil
}

func (m *MockStore) Persisted() *model.Snapshot {
	if m.data == nil {
		return nil
	}
	return m.Load(context.Background())
}

func strPtr(s string) *string { return &s }
