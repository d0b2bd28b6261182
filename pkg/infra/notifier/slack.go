package notifier

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/slack-go/slack"
)

const defaultTimeout = 10 * time.Second

// Slack posts notifications to a Slack incoming webhook
type Slack struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlack creates a Slack notifier. A nil httpClient uses one with a 10s timeout.
func NewSlack(webhookURL string, httpClient *http.Client) *Slack {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Slack{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

// Notify implements interfaces.Notifier
func (x *Slack) Notify(ctx context.Context, n *model.Notification) error {
	msg := &slack.WebhookMessage{
		Text: n.Title,
		Blocks: &slack.Blocks{
			BlockSet: buildSlackBlocks(n),
		},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, x.webhookURL, x.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook", goerr.V("title", n.Title))
	}
	return nil
}

func buildSlackBlocks(n *model.Notification) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, n.Title, true, false)),
	}

	if len(n.Fields) > 0 {
		fields := make([]*slack.TextBlockObject, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*"+f.Name+"*\n"+f.Value, false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	if n.Notes != "" {
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "*Release Notes*\n"+n.Notes, false, false), nil, nil),
		)
	}

	return blocks
}
