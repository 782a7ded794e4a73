// Package gemini はGoogle Gemini生成テキストAPIのクライアントを提供します。
package gemini

import (
	"os"
	"time"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.0-flash"
	// defaultBaseURL はGemini REST APIのデフォルトエンドポイントです。
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/" + DefaultModel + ":generateContent"
)

// Config はGemini APIクライアントの設定を保持します。
type Config struct {
	APIKey  string        // クエリパラメータとして付与するAPIキー
	BaseURL string        // generateContentエンドポイントのURL
	Timeout time.Duration // HTTPリクエストのタイムアウト
	UseSDK  bool          // trueの場合、RESTクライアントの代わりにgenai SDKを使用（ADC/Vertex環境向け）
}

// LoadConfig は環境変数からGemini設定を読み込みます。
func LoadConfig() Config {
	baseURL := os.Getenv("GEMINI_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: baseURL,
		Timeout: 60 * time.Second,
		UseSDK:  os.Getenv("GEMINI_USE_SDK") == "true",
	}
}
