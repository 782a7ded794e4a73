package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// userAgent はブロック回避のためのブラウザ相当のUser-Agentです。
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchError はドキュメント取得の失敗（トランスポート、タイムアウト、非2xx、不正なマークアップ）を表します。
// 呼び出し側で常に回復可能であり、プロセスを停止させてはなりません。
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher はURLからパース済みHTMLドキュメントを取得します。
// タイムアウトは注入されるhttp.Clientが保証します（platform/http参照）。
type Fetcher struct {
	client *http.Client
}

// NewFetcher はFetcherの新しいインスタンスを生成します。
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch は指定URLのHTMLを取得し、goqueryドキュメントとして返します。
// すべての失敗は*FetchErrorにラップされます。
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "url", pageURL, "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("http %d", res.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	return doc, nil
}
