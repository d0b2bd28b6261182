package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// Feishu posts notifications to a Feishu (Lark) custom bot webhook
type Feishu struct {
	webhookURL string
	httpClient *http.Client
}

// NewFeishu creates a Feishu notifier. A nil httpClient uses one with a 10s timeout.
func NewFeishu(webhookURL string, httpClient *http.Client) *Feishu {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Feishu{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

type feishuMessage struct {
	MsgType string        `json:"msg_type"`
	Content feishuContent `json:"content"`
}

type feishuContent struct {
	Text string `json:"text"`
}

type feishuResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Notify implements interfaces.Notifier
func (x *Feishu) Notify(ctx context.Context, n *model.Notification) error {
	body, err := json.Marshal(&feishuMessage{
		MsgType: "text",
		Content: feishuContent{Text: n.Text()},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal Feishu message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.webhookURL, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create Feishu request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to post Feishu webhook", goerr.V("title", n.Title))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return goerr.Wrap(err, "failed to read Feishu response")
	}

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status code from Feishu",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}

	// The bot API reports application errors with HTTP 200 and a non-zero code.
	var result feishuResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return goerr.Wrap(err, "failed to parse Feishu response", goerr.V("body", string(respBody)))
		}
	}
	if result.Code != 0 {
		return goerr.New("Feishu rejected message",
			goerr.V("code", result.Code),
			goerr.V("msg", result.Msg),
		)
	}

	return nil
}
