package model

import (
	"strings"

	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// Field is a labelled value in a notification body.
type Field struct {
	Name  string
	Value string
}

// Notification is a single rendered change report handed to a Notifier.
type Notification struct {
	Kind      types.NotificationKind
	Repo      types.RepoName
	Title     string
	Fields    []Field
	Notes     string // optional free text, e.g. release notes
	Highlight bool
}

// Text renders the notification as plain text: the title, a blank line and
// one "Name: Value" line per field, followed by the notes if any.
func (x *Notification) Text() string {
	return x.Title + "\n\n" + x.BodyText()
}

// BodyText renders fields and notes without the title.
func (x *Notification) BodyText() string {
	var sb strings.Builder
	for _, f := range x.Fields {
		sb.WriteString(f.Name + ": " + f.Value + "\n")
	}
	if x.Notes != "" {
		sb.WriteString("\nRelease Notes:\n" + x.Notes)
	}
	return sb.String()
}
