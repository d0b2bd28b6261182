package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/orgwatch/pkg/cli/config"
)

func TestMonitorConfig_BuildRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	loggerCfg := config.Logger{Level: "info", Format: "json", Output: &buf}
	logger, err := loggerCfg.Configure()
	gt.NoError(t, err)
	ctx := ctxlog.With(context.Background(), logger)

	cfg := monitorConfig{
		monitor: config.Monitor{Organization: "example-org"},
		github: config.GitHub{
			BaseURL: "https://github.example.com/api/v3/",
			Token:   "ghp_tokenvalue",
		},
		notifier: config.Notifier{
			SlackWebhookURL:  "https://hooks.slack.com/services/T000/B000/slacksecret",
			FeishuWebhookURL: "https://open.feishu.cn/open-apis/bot/v2/hook/feishusecret",
		},
		snapshot: config.Snapshot{
			Backend: "file",
			Path:    filepath.Join(t.TempDir(), "state.json"),
		},
	}

	monitorUC, closer, err := cfg.build(ctx)
	gt.NoError(t, err)
	defer closer()
	gt.NotNil(t, monitorUC)

	out := buf.String()
	gt.String(t, out).Contains("Monitor configured")
	gt.String(t, out).Contains("https://github.example.com/api/v3/")
	gt.String(t, out).Contains("state.json")
	gt.String(t, out).NotContains("ghp_tokenvalue")
	gt.String(t, out).NotContains("slacksecret")
	gt.String(t, out).NotContains("feishusecret")
}
