package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// Console writes notifications to a terminal, used when no webhook is
// configured
type Console struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsole creates a Console notifier writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

var (
	kindColors = map[types.NotificationKind]*color.Color{
		types.NotifyNewRepository: color.New(color.FgGreen, color.Bold),
		types.NotifyNewRelease:    color.New(color.FgCyan, color.Bold),
		types.NotifyNewTag:        color.New(color.FgBlue, color.Bold),
	}
	highlightColor = color.New(color.FgHiMagenta, color.Bold)
	fieldColor     = color.New(color.FgHiBlack)
)

// Notify implements interfaces.Notifier
func (x *Console) Notify(ctx context.Context, n *model.Notification) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	title, ok := kindColors[n.Kind]
	if !ok || n.Highlight {
		title = highlightColor
	}

	var buf bytes.Buffer
	title.Fprintln(&buf, n.Title)
	for _, f := range n.Fields {
		fmt.Fprintf(&buf, "  %s %s\n", fieldColor.Sprint(f.Name+":"), f.Value)
	}
	if n.Notes != "" {
		fmt.Fprintf(&buf, "  %s\n  %s\n", fieldColor.Sprint("Release Notes:"), n.Notes)
	}
	buf.WriteString("\n")

	if _, err := x.w.Write(buf.Bytes()); err != nil {
		return goerr.Wrap(err, "failed to write notification to console")
	}
	return nil
}
