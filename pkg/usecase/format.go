package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

const (
	placeholderNA      = "N/A"
	placeholderUnknown = "unknown"

	defaultNotesLimit = 500
)

// formatter renders detected records into notifications. Absent optional
// values are replaced with placeholders here and nowhere else.
type formatter struct {
	org        string
	keywords   []string
	notesLimit int
}

func newFormatter(org string, keywords []string, notesLimit int) *formatter {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	if notesLimit <= 0 {
		notesLimit = defaultNotesLimit
	}
	return &formatter{
		org:        org,
		keywords:   lowered,
		notesLimit: notesLimit,
	}
}

// isHighlighted reports whether a tag name contains one of the configured
// keywords, case-insensitively.
func (f *formatter) isHighlighted(name types.TagName) bool {
	lower := strings.ToLower(string(name))
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func (f *formatter) repoPath(repo types.RepoName) string {
	return f.org + "/" + string(repo)
}

func (f *formatter) newRepository(repo *model.Repository) *model.Notification {
	fullName := repo.FullName
	if fullName == "" {
		fullName = f.repoPath(repo.Name)
	}

	return &model.Notification{
		Kind:  types.NotifyNewRepository,
		Repo:  repo.Name,
		Title: fmt.Sprintf("🆕 New Repository: %s", repo.Name),
		Fields: []model.Field{
			{Name: "Repository", Value: fullName},
			{Name: "Description", Value: strOr(repo.Description, placeholderNA)},
			{Name: "URL", Value: nonEmpty(repo.HTMLURL, placeholderNA)},
			{Name: "Created", Value: timeOr(repo.CreatedAt, placeholderNA)},
			{Name: "Language", Value: strOr(repo.Language, placeholderNA)},
		},
	}
}

func (f *formatter) newRelease(repo types.RepoName, release *model.Release) *model.Notification {
	tag := nonEmpty(string(release.TagName), placeholderUnknown)
	highlight := f.isHighlighted(release.TagName)

	title := fmt.Sprintf("📦 New Release: %s %s", repo, tag)
	if highlight {
		title = fmt.Sprintf("🚀 Special Release Alert - %s 🚀", tag)
	}

	name := tag
	if release.Name != nil && *release.Name != "" {
		name = *release.Name
	}

	fields := []model.Field{
		{Name: "Repository", Value: f.repoPath(repo)},
		{Name: "Release", Value: name},
		{Name: "Tag", Value: tag},
		{Name: "URL", Value: nonEmpty(release.HTMLURL, placeholderNA)},
		{Name: "Published", Value: timeOr(release.PublishedAt, placeholderNA)},
	}
	if release.Prerelease {
		fields = append(fields, model.Field{Name: "Pre-release", Value: "yes"})
	}

	return &model.Notification{
		Kind:      types.NotifyNewRelease,
		Repo:      repo,
		Title:     title,
		Fields:    fields,
		Notes:     truncateNotes(release.Body, f.notesLimit),
		Highlight: highlight,
	}
}

func (f *formatter) newTag(repo types.RepoName, tag *model.Tag) *model.Notification {
	highlight := f.isHighlighted(tag.Name)

	title := fmt.Sprintf("🏷️ New Tag: %s %s", repo, tag.Name)
	if highlight {
		title = fmt.Sprintf("🏷️ Special Tag: %s", tag.Name)
	}

	return &model.Notification{
		Kind:  types.NotifyNewTag,
		Repo:  repo,
		Title: title,
		Fields: []model.Field{
			{Name: "Repository", Value: f.repoPath(repo)},
			{Name: "Tag", Value: nonEmpty(string(tag.Name), placeholderUnknown)},
			{Name: "Commit", Value: nonEmpty(tag.CommitSHA.Short(), placeholderNA)},
			{Name: "URL", Value: nonEmpty(tag.CommitURL, placeholderNA)},
		},
		Highlight: highlight,
	}
}

func truncateNotes(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "..."
}

func strOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func timeOr(p *time.Time, fallback string) string {
	if p == nil || p.IsZero() {
		return fallback
	}
	return p.UTC().Format(time.RFC3339)
}
