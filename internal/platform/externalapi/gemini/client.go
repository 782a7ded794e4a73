package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"news_backend/internal/platform/externalapi/gemini/dto"
)

// InferenceError は生成テキストサービス呼び出しの失敗
// （トランスポート、非2xx、エンベロープ不正、期待フィールド欠落）を表します。
type InferenceError struct {
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("inference %s", e.Reason)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Client はGemini REST APIのクライアントです。
// リクエストエンベロープの構築、送信、レスポンスエンベロープからのペイロード抽出を担います。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Generate はプロンプトを送信し、レスポンスから生のテキストペイロードを取り出します。
// エンベロープのナビゲーション（candidates[0].content.parts[0].text）でいずれかの
// フィールドが欠落している場合は、暗黙のデフォルトではなく*InferenceErrorを返します。
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := dto.GenerateContentRequest{
		Contents: []dto.Content{
			{Parts: []dto.Part{{Text: prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &InferenceError{Reason: "request encoding failed", Err: err}
	}

	endpoint := c.cfg.BaseURL + "?key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &InferenceError{Reason: "request build failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", &InferenceError{Reason: "transport failure", Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &InferenceError{Reason: fmt.Sprintf("http %d", res.StatusCode)}
	}

	var body dto.GenerateContentResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", &InferenceError{Reason: "malformed envelope", Err: err}
	}

	if len(body.Candidates) == 0 {
		return "", &InferenceError{Reason: "missing candidates"}
	}
	content := body.Candidates[0].Content
	if content == nil {
		return "", &InferenceError{Reason: "missing content"}
	}
	if len(content.Parts) == 0 {
		return "", &InferenceError{Reason: "missing parts"}
	}
	text := content.Parts[0].Text
	if text == "" {
		return "", &InferenceError{Reason: "missing text"}
	}
	return text, nil
}
