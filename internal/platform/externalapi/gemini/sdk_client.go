package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// SDKClient はgenai SDK経由の生成テキストクライアントです。
// APIキーのクエリパラメータ方式が使えないADC/Vertex AI環境向けの代替実装で、
// GEMINI_USE_SDK=true で選択されます。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION
// またはGEMINI_API_KEYが必要です。
type SDKClient struct {
	client *genai.Client
	model  string
}

// NewSDKClient はSDKClientの新しいインスタンスを生成します。
func NewSDKClient(ctx context.Context) (*SDKClient, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &SDKClient{client: client, model: DefaultModel}, nil
}

// Generate はプロンプトを送信し、生成されたテキストを返します。
// SDKがエンベロープを解決するため、空のレスポンスのみをエンベロープ異常として扱います。
func (g *SDKClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &InferenceError{Reason: "transport failure", Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &InferenceError{Reason: "missing text"}
	}
	return text, nil
}
